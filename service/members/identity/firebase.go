package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"

	"retail_backoffice/pkg/apperr"
)

var ErrEmailExists = apperr.New(apperr.KindConflict, "email is already registered")

type NewUser struct {
	Email       string
	Password    string
	DisplayName string
	Phone       string
}

// UserUpdate changes only the non-nil fields.
type UserUpdate struct {
	DisplayName *string
	Phone       *string
	Disabled    *bool
}

// IIdentityProvider manages staff sign-in accounts and their role claim.
type IIdentityProvider interface {
	CreateUser(ctx context.Context, user NewUser) (string, error)
	UpdateUser(ctx context.Context, uid string, update UserUpdate) error
	SetRole(ctx context.Context, uid, role string) error
	DeleteUser(ctx context.Context, uid string) error
	// RevokeSessions invalidates every refresh token and ID token issued so far.
	RevokeSessions(ctx context.Context, uid string) error
}

type firebaseIdentity struct {
	client *auth.Client
}

func NewFirebaseIdentity(client *auth.Client) IIdentityProvider {
	return &firebaseIdentity{client: client}
}

func (f *firebaseIdentity) CreateUser(ctx context.Context, user NewUser) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(user.Email).
		Password(user.Password).
		DisplayName(user.DisplayName)
	if user.Phone != "" {
		params = params.PhoneNumber(user.Phone)
	}

	record, err := f.client.CreateUser(ctx, params)
	if auth.IsEmailAlreadyExists(err) {
		return "", ErrEmailExists
	}
	if err != nil {
		return "", fmt.Errorf("create auth user: %w", err)
	}
	return record.UID, nil
}

func (f *firebaseIdentity) UpdateUser(ctx context.Context, uid string, update UserUpdate) error {
	params := &auth.UserToUpdate{}
	changed := false
	if update.DisplayName != nil {
		params = params.DisplayName(*update.DisplayName)
		changed = true
	}
	if update.Phone != nil {
		params = params.PhoneNumber(*update.Phone)
		changed = true
	}
	if update.Disabled != nil {
		params = params.Disabled(*update.Disabled)
		changed = true
	}
	if !changed {
		return nil
	}
	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		return fmt.Errorf("update auth user: %w", err)
	}
	return nil
}

func (f *firebaseIdentity) SetRole(ctx context.Context, uid, role string) error {
	if err := f.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": role}); err != nil {
		return fmt.Errorf("set role claim: %w", err)
	}
	return nil
}

// DeleteUser treats an already missing user as deleted.
func (f *firebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	err := f.client.DeleteUser(ctx, uid)
	if err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("delete auth user: %w", err)
	}
	return nil
}

func (f *firebaseIdentity) RevokeSessions(ctx context.Context, uid string) error {
	err := f.client.RevokeRefreshTokens(ctx, uid)
	if err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}
