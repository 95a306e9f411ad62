package woods

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/timbermill-backend/pkg/db"
	"github.com/angelmondragon/timbermill-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
	"github.com/angelmondragon/timbermill-backend/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	notFoundMessage = "Wood not found"
	sniffLen        = 512
)

// Service implements the catalog lifecycle.
type Service interface {
	List(ctx context.Context) ([]WoodDTO, error)
	Create(ctx context.Context, input Input, image *ImageUpload) (*WoodDTO, error)
	Update(ctx context.Context, id string, input Input) (*WoodDTO, error)
	Delete(ctx context.Context, id string) error
}

type woodRepository interface {
	List(ctx context.Context) ([]models.Wood, error)
	Create(ctx context.Context, wood *models.Wood) error
	UpdateFields(ctx context.Context, id uuid.UUID, name, description string, stock int, price decimal.Decimal) (*models.Wood, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type uploadRecorder interface {
	IncUpload(outcome string)
}

type ServiceParams struct {
	Repo    woodRepository
	Storage storage.Store
	Logger  *logger.Logger
	// Uploads is optional.
	Uploads uploadRecorder
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo    woodRepository
	store   storage.Store
	logg    *logger.Logger
	uploads uploadRecorder
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("wood repository is required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("upload storage is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		store:   params.Storage,
		logg:    params.Logger,
		uploads: params.Uploads,
		now:     now,
	}, nil
}

func (s *service) List(ctx context.Context) ([]WoodDTO, error) {
	woods, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list woods")
	}
	return FromModels(woods), nil
}

// Create validates the input before touching storage so a rejected request
// never leaves a file behind. A failed insert removes the stored image.
func (s *service) Create(ctx context.Context, input Input, image *ImageUpload) (*WoodDTO, error) {
	fields, err := validate(input)
	if err != nil {
		return nil, err
	}

	wood := &models.Wood{
		Name:        fields.name,
		Description: fields.description,
		Stock:       fields.stock,
		Price:       fields.price,
	}

	var stored string
	if image != nil && image.Body != nil {
		stored, err = s.storeImage(ctx, image)
		if err != nil {
			s.recordUpload("failed")
			return nil, err
		}
		wood.Image = &stored
	}

	if err := s.repo.Create(ctx, wood); err != nil {
		if stored != "" {
			s.discardImage(ctx, stored)
			s.recordUpload("rolled_back")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create wood")
	}
	if stored != "" {
		s.recordUpload("stored")
	}

	dto := FromModel(wood)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id string, input Input) (*WoodDTO, error) {
	woodID, ok := parseID(id)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	fields, err := validate(input)
	if err != nil {
		return nil, err
	}

	wood, err := s.repo.UpdateFields(ctx, woodID, fields.name, fields.description, fields.stock, fields.price)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update wood")
	}
	dto := FromModel(wood)
	return &dto, nil
}

// Delete leaves any image in place; the orphan sweeper reclaims it.
func (s *service) Delete(ctx context.Context, id string) error {
	woodID, ok := parseID(id)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	if err := s.repo.Delete(ctx, woodID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete wood")
	}
	return nil
}

func (s *service) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	body := bufio.NewReaderSize(image.Body, sniffLen)
	// Peek returns what is available even when the upload is shorter than sniffLen
	head, _ := body.Peek(sniffLen)

	name, err := storage.GenerateName(s.now(), image.Filename, head)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "name upload")
	}
	if err := s.store.Put(ctx, name, body, storage.DetectContentType(head)); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image")
	}
	return name, nil
}

func (s *service) discardImage(ctx context.Context, name string) {
	if err := s.store.Delete(ctx, name); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "image", name), "woods.discard_image_failed", err)
	}
}

func (s *service) recordUpload(outcome string) {
	if s.uploads != nil {
		s.uploads.IncUpload(outcome)
	}
}

type validFields struct {
	name        string
	description string
	stock       int
	price       decimal.Decimal
}

func validate(input Input) (validFields, error) {
	problems := map[string]string{}
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" {
		problems["name"] = "required"
	}
	if description == "" {
		problems["description"] = "required"
	}
	stock, ok := ParseStock(input.Stock)
	if !ok {
		problems["stock"] = "must be a whole number of at least 0"
	}
	price, ok := ParsePrice(input.Price)
	if !ok {
		problems["price"] = "must be a number of at least 0"
	}
	if len(problems) > 0 {
		return validFields{}, pkgerrors.New(pkgerrors.CodeValidation, "Invalid wood").WithDetails(problems)
	}
	return validFields{name: name, description: description, stock: stock, price: price}, nil
}

func parseID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
