package usecase

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/importers/model/document"
	"retail_backoffice/service/importers/model/request"
	"retail_backoffice/service/importers/model/response"
	"retail_backoffice/service/importers/repository"
)

var ErrImporterInUse = apperr.New(apperr.KindConflict, "importer is referenced by import records")

// ImportReferences reports whether any import ledger entry points at an
// importer. The import ledger repository implements it.
type ImportReferences interface {
	ExistsForImporter(ctx context.Context, importerID primitive.ObjectID) (bool, error)
}

type IImporterUseCase interface {
	CreateImporter(ctx context.Context, dto request.CreateImporterDTO) (response.ImporterResponseDTO, error)
	UpdateImporter(ctx context.Context, id string, dto request.UpdateImporterDTO) (response.ImporterResponseDTO, error)
	DeleteImporter(ctx context.Context, id string) error
	GetImporter(ctx context.Context, id string) (response.ImporterResponseDTO, error)
	ListImporters(ctx context.Context, query request.ListImportersQuery) (response.ImporterListDTO, error)
}

type importerUseCase struct {
	importerRepo repository.IImporterRepository
	references   ImportReferences
	log          *zap.Logger
}

func NewImporterUseCase(importerRepo repository.IImporterRepository, references ImportReferences, log *zap.Logger) IImporterUseCase {
	return &importerUseCase{
		importerRepo: importerRepo,
		references:   references,
		log:          log.Named("importers"),
	}
}

func (u *importerUseCase) CreateImporter(ctx context.Context, dto request.CreateImporterDTO) (response.ImporterResponseDTO, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return response.ImporterResponseDTO{}, apperr.Invalid("name is required")
	}
	now := time.Now().UTC()
	importer := document.Importer{
		Name:      name,
		Phone:     strings.TrimSpace(dto.Phone),
		Email:     strings.TrimSpace(dto.Email),
		Address:   strings.TrimSpace(dto.Address),
		Note:      dto.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.importerRepo.Create(ctx, &importer); err != nil {
		return response.ImporterResponseDTO{}, err
	}
	u.log.Info("importer created", zap.String("importer_id", importer.ID.Hex()))
	return response.FromDocument(importer), nil
}

func (u *importerUseCase) UpdateImporter(ctx context.Context, id string, dto request.UpdateImporterDTO) (response.ImporterResponseDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.ImporterResponseDTO{}, err
	}

	set := bson.M{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return response.ImporterResponseDTO{}, apperr.Invalid("name must not be empty")
		}
		set["name"] = name
	}
	if dto.Phone != nil {
		set["phone"] = strings.TrimSpace(*dto.Phone)
	}
	if dto.Email != nil {
		set["email"] = strings.TrimSpace(*dto.Email)
	}
	if dto.Address != nil {
		set["address"] = strings.TrimSpace(*dto.Address)
	}
	if dto.Note != nil {
		set["note"] = *dto.Note
	}
	if len(set) == 0 {
		return response.ImporterResponseDTO{}, apperr.Invalid("no fields to update")
	}

	importer, err := u.importerRepo.Update(ctx, oid, set)
	if err != nil {
		return response.ImporterResponseDTO{}, err
	}
	return response.FromDocument(importer), nil
}

func (u *importerUseCase) DeleteImporter(ctx context.Context, id string) error {
	oid, err := database.ParseID(id)
	if err != nil {
		return err
	}
	if _, err := u.importerRepo.GetByID(ctx, oid); err != nil {
		return err
	}

	inUse, err := u.references.ExistsForImporter(ctx, oid)
	if err != nil {
		return err
	}
	if inUse {
		return ErrImporterInUse
	}

	if err := u.importerRepo.Delete(ctx, oid); err != nil {
		return err
	}
	u.log.Info("importer deleted", zap.String("importer_id", id))
	return nil
}

func (u *importerUseCase) GetImporter(ctx context.Context, id string) (response.ImporterResponseDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.ImporterResponseDTO{}, err
	}
	importer, err := u.importerRepo.GetByID(ctx, oid)
	if err != nil {
		return response.ImporterResponseDTO{}, err
	}
	return response.FromDocument(importer), nil
}

func (u *importerUseCase) ListImporters(ctx context.Context, query request.ListImportersQuery) (response.ImporterListDTO, error) {
	page, pageSize := database.NormalizePage(query.Page, query.PageSize)
	importers, total, err := u.importerRepo.List(ctx, strings.TrimSpace(query.Q), page, pageSize)
	if err != nil {
		return response.ImporterListDTO{}, err
	}
	items := make([]response.ImporterResponseDTO, 0, len(importers))
	for _, i := range importers {
		items = append(items, response.FromDocument(i))
	}
	return response.ImporterListDTO{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}
