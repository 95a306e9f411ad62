package contacts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/timbermill-backend/pkg/db"
	"github.com/angelmondragon/timbermill-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/google/uuid"
)

const notFoundMessage = "Contact not found"

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*ContactDTO, error)
	List(ctx context.Context) ([]ContactDTO, error)
	Delete(ctx context.Context, id string) error
}

type contactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	ListNewestFirst(ctx context.Context) ([]models.ContactMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceParams struct {
	Repo contactRepository
	Now  func() time.Time
}

type service struct {
	repo contactRepository
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("contact repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

// Create accepts partial submissions; missing fields are stored empty.
func (s *service) Create(ctx context.Context, req CreateRequest) (*ContactDTO, error) {
	msg := &models.ContactMessage{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Message:   req.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save contact message")
	}
	dto := FromModel(msg)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]ContactDTO, error) {
	msgs, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list contact messages")
	}
	out := make([]ContactDTO, 0, len(msgs))
	for i := range msgs {
		out = append(out, FromModel(&msgs[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	msgID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	if err := s.repo.Delete(ctx, msgID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete contact message")
	}
	return nil
}
