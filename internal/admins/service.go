package admins

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/timbermill-backend/pkg/config"
	"github.com/angelmondragon/timbermill-backend/pkg/db"
	"github.com/angelmondragon/timbermill-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/angelmondragon/timbermill-backend/pkg/security"
	"github.com/google/uuid"
)

const (
	usernameConstraint = "idx_admins_username"
	tempPasswordLength = 20
	minPasswordLength  = 8
)

// Service provisions admin credentials. It backs the admin CLI; no HTTP route creates admins.
type Service interface {
	Create(ctx context.Context, username, password string) (*Provisioned, error)
	SetPassword(ctx context.Context, username, password string) (*Provisioned, error)
}

// Provisioned reports the outcome of a provisioning call. TempPassword is set
// only when the caller did not supply a password.
type Provisioned struct {
	ID           uuid.UUID
	Username     string
	TempPassword string
}

type adminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type ServiceParams struct {
	Repo           adminRepository
	PasswordConfig config.PasswordConfig
}

type service struct {
	repo adminRepository
	pw   config.PasswordConfig
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	return &service{repo: params.Repo, pw: params.PasswordConfig}, nil
}

func (s *service) Create(ctx context.Context, username, password string) (*Provisioned, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	password, temp, err := s.resolvePassword(password)
	if err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(password, s.pw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, admin); err != nil {
		if db.IsUniqueViolation(err, usernameConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "admin already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
	}
	return &Provisioned{ID: admin.ID, Username: admin.Username, TempPassword: temp}, nil
}

func (s *service) SetPassword(ctx context.Context, username, password string) (*Provisioned, error) {
	admin, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin")
	}
	password, temp, err := s.resolvePassword(password)
	if err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(password, s.pw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, admin.ID, hash); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return &Provisioned{ID: admin.ID, Username: admin.Username, TempPassword: temp}, nil
}

func (s *service) resolvePassword(password string) (string, string, error) {
	if password == "" {
		temp, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
		}
		return temp, temp, nil
	}
	if len(password) < minPasswordLength {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return password, "", nil
}
