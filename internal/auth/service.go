package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/timbermill-backend/pkg/auth"
	"github.com/angelmondragon/timbermill-backend/pkg/config"
	"github.com/angelmondragon/timbermill-backend/pkg/db"
	"github.com/angelmondragon/timbermill-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/angelmondragon/timbermill-backend/pkg/security"
)

const invalidCredentialsMessage = "Invalid credentials"

// ErrInvalidCredentials is returned for unknown usernames and wrong passwords alike.
var ErrInvalidCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)

// Service defines the behavior needed by the login controller.
type Service interface {
	VerifyLogin(ctx context.Context, username, password string) (*models.Admin, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type adminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type ServiceParams struct {
	AdminRepo      adminRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	admins adminRepository
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewService(params ServiceParams) (Service, error) {
	if params.AdminRepo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		admins: params.AdminRepo,
		jwtCfg: params.JWTConfig,
		pwCfg:  params.PasswordConfig,
		now:    now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.VerifyLogin(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := auth.IssueAdminToken(s.jwtCfg, s.now().UTC(), admin.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue token")
	}
	return &LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyLogin looks the admin up by exact username and checks the password
// against the stored slow hash.
func (s *service) VerifyLogin(ctx context.Context, username, password string) (*models.Admin, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			// spend comparable time on unknown usernames
			_, _ = security.VerifyPassword(password, s.fallbackHash())
			return nil, ErrInvalidCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	valid, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

func (s *service) fallbackHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = security.HashPassword("timbermill-unknown-admin", s.pwCfg)
	})
	return s.dummyHash
}
