package usecase

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/pkg/middleware"
	"retail_backoffice/service/members/identity"
	"retail_backoffice/service/members/model/document"
	"retail_backoffice/service/members/model/request"
	"retail_backoffice/service/members/model/response"
	"retail_backoffice/service/members/repository"
)

var (
	ErrSelfDelete  = apperr.New(apperr.KindConflict, "you cannot delete your own account")
	ErrSelfDemote  = apperr.New(apperr.KindConflict, "you cannot remove your own admin role or disable yourself")
	errInvalidRole = apperr.Invalid("role must be admin or cashier")
)

type IMemberUseCase interface {
	CreateMember(ctx context.Context, dto request.CreateMemberDTO) (response.MemberResponseDTO, error)
	UpdateMember(ctx context.Context, id string, dto request.UpdateMemberDTO, actorUID string) (response.MemberResponseDTO, error)
	DeleteMember(ctx context.Context, id string, actorUID string) error
	GetMember(ctx context.Context, id string) (response.MemberResponseDTO, error)
	ListMembers(ctx context.Context, query request.ListMembersQuery) (response.MemberListDTO, error)
}

type memberUseCase struct {
	memberRepo repository.IMemberRepository
	identity   identity.IIdentityProvider
	log        *zap.Logger
}

func NewMemberUseCase(memberRepo repository.IMemberRepository, identityProvider identity.IIdentityProvider, log *zap.Logger) IMemberUseCase {
	return &memberUseCase{
		memberRepo: memberRepo,
		identity:   identityProvider,
		log:        log.Named("members"),
	}
}

func validRole(role string) bool {
	return role == middleware.RoleAdmin || role == middleware.RoleCashier
}

func (u *memberUseCase) CreateMember(ctx context.Context, dto request.CreateMemberDTO) (response.MemberResponseDTO, error) {
	if !validRole(dto.Role) {
		return response.MemberResponseDTO{}, errInvalidRole
	}
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	name := strings.TrimSpace(dto.DisplayName)

	uid, err := u.identity.CreateUser(ctx, identity.NewUser{
		Email:       email,
		Password:    dto.Password,
		DisplayName: name,
		Phone:       strings.TrimSpace(dto.Phone),
	})
	if err != nil {
		return response.MemberResponseDTO{}, err
	}

	if err := u.identity.SetRole(ctx, uid, dto.Role); err != nil {
		u.removeAuthUser(ctx, uid)
		return response.MemberResponseDTO{}, err
	}

	now := time.Now().UTC()
	member := document.Member{
		UID:         uid,
		Email:       email,
		DisplayName: name,
		Phone:       strings.TrimSpace(dto.Phone),
		Role:        dto.Role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.memberRepo.Create(ctx, &member); err != nil {
		u.removeAuthUser(ctx, uid)
		return response.MemberResponseDTO{}, err
	}
	u.log.Info("member created", zap.String("uid", uid), zap.String("role", member.Role))
	return response.FromDocument(member), nil
}

// removeAuthUser undoes a half-created member.
func (u *memberUseCase) removeAuthUser(ctx context.Context, uid string) {
	if err := u.identity.DeleteUser(context.WithoutCancel(ctx), uid); err != nil {
		u.log.Error("failed to remove auth user after member creation failed", zap.String("uid", uid), zap.Error(err))
	}
}

func (u *memberUseCase) UpdateMember(ctx context.Context, id string, dto request.UpdateMemberDTO, actorUID string) (response.MemberResponseDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.MemberResponseDTO{}, err
	}
	member, err := u.memberRepo.GetByID(ctx, oid)
	if err != nil {
		return response.MemberResponseDTO{}, err
	}

	set := bson.M{}
	update := identity.UserUpdate{}
	if dto.DisplayName != nil {
		name := strings.TrimSpace(*dto.DisplayName)
		if name == "" {
			return response.MemberResponseDTO{}, apperr.Invalid("display name must not be empty")
		}
		set["display_name"] = name
		update.DisplayName = &name
	}
	if dto.Phone != nil {
		phone := strings.TrimSpace(*dto.Phone)
		set["phone"] = phone
		update.Phone = &phone
	}
	if dto.Disabled != nil {
		set["disabled"] = *dto.Disabled
		update.Disabled = dto.Disabled
	}
	roleChanged := dto.Role != nil && *dto.Role != member.Role
	if dto.Role != nil {
		if !validRole(*dto.Role) {
			return response.MemberResponseDTO{}, errInvalidRole
		}
		set["role"] = *dto.Role
	}
	if len(set) == 0 {
		return response.MemberResponseDTO{}, apperr.Invalid("no fields to update")
	}
	if member.UID == actorUID && (roleChanged || (dto.Disabled != nil && *dto.Disabled)) {
		return response.MemberResponseDTO{}, ErrSelfDemote
	}

	if err := u.identity.UpdateUser(ctx, member.UID, update); err != nil {
		return response.MemberResponseDTO{}, err
	}
	if roleChanged {
		if err := u.identity.SetRole(ctx, member.UID, *dto.Role); err != nil {
			u.restoreAuthUser(ctx, member, update, false)
			return response.MemberResponseDTO{}, err
		}
	}

	updated, err := u.memberRepo.Update(ctx, oid, set)
	if err != nil {
		u.restoreAuthUser(ctx, member, update, roleChanged)
		return response.MemberResponseDTO{}, err
	}

	if roleChanged || updated.Disabled {
		u.revokeSessions(ctx, member.UID)
	}
	u.log.Info("member updated", zap.String("uid", member.UID), zap.Bool("role_changed", roleChanged))
	return response.FromDocument(updated), nil
}

// restoreAuthUser puts the fields touched by applied back to the values stored on member.
func (u *memberUseCase) restoreAuthUser(ctx context.Context, member document.Member, applied identity.UserUpdate, roleChanged bool) {
	ctx = context.WithoutCancel(ctx)
	undo := identity.UserUpdate{}
	if applied.DisplayName != nil {
		undo.DisplayName = &member.DisplayName
	}
	if applied.Phone != nil {
		undo.Phone = &member.Phone
	}
	if applied.Disabled != nil {
		undo.Disabled = &member.Disabled
	}
	if err := u.identity.UpdateUser(ctx, member.UID, undo); err != nil {
		u.log.Error("failed to restore auth user after member update failed", zap.String("uid", member.UID), zap.Error(err))
	}
	if roleChanged {
		if err := u.identity.SetRole(ctx, member.UID, member.Role); err != nil {
			u.log.Error("failed to restore role claim after member update failed", zap.String("uid", member.UID), zap.Error(err))
		}
	}
}

// revokeSessions signs the member out everywhere so a new role or a disabled flag applies at once.
func (u *memberUseCase) revokeSessions(ctx context.Context, uid string) {
	if err := u.identity.RevokeSessions(context.WithoutCancel(ctx), uid); err != nil {
		u.log.Error("failed to revoke member sessions", zap.String("uid", uid), zap.Error(err))
	}
}

func (u *memberUseCase) DeleteMember(ctx context.Context, id string, actorUID string) error {
	oid, err := database.ParseID(id)
	if err != nil {
		return err
	}
	member, err := u.memberRepo.GetByID(ctx, oid)
	if err != nil {
		return err
	}
	if member.UID == actorUID {
		return ErrSelfDelete
	}

	if err := u.identity.RevokeSessions(ctx, member.UID); err != nil {
		return err
	}
	if err := u.identity.DeleteUser(ctx, member.UID); err != nil {
		return err
	}
	if err := u.memberRepo.Delete(ctx, oid); err != nil {
		return err
	}
	u.log.Info("member deleted", zap.String("uid", member.UID))
	return nil
}

func (u *memberUseCase) GetMember(ctx context.Context, id string) (response.MemberResponseDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.MemberResponseDTO{}, err
	}
	member, err := u.memberRepo.GetByID(ctx, oid)
	if err != nil {
		return response.MemberResponseDTO{}, err
	}
	return response.FromDocument(member), nil
}

func (u *memberUseCase) ListMembers(ctx context.Context, query request.ListMembersQuery) (response.MemberListDTO, error) {
	if query.Role != "" && !validRole(query.Role) {
		return response.MemberListDTO{}, errInvalidRole
	}
	page, pageSize := database.NormalizePage(query.Page, query.PageSize)
	members, total, err := u.memberRepo.List(ctx, query.Role, page, pageSize)
	if err != nil {
		return response.MemberListDTO{}, err
	}
	items := make([]response.MemberResponseDTO, 0, len(members))
	for _, m := range members {
		items = append(items, response.FromDocument(m))
	}
	return response.MemberListDTO{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}
