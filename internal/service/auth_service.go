package service

import (
	"context"
	"errors"

	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/permissions"
	"github.com/restofleet/pos-admin-api/internal/repository"
	"github.com/restofleet/pos-admin-api/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserProfile struct {
	ID          uint                     `json:"id"`
	Email       string                   `json:"email"`
	Name        string                   `json:"name"`
	Phone       string                   `json:"phone,omitempty"`
	Avatar      string                   `json:"avatar,omitempty"`
	Role        string                   `json:"role"`
	Permissions []permissions.Descriptor `json:"permissions"`
}

type LoginResult struct {
	AccessToken string      `json:"accessToken"`
	User        UserProfile `json:"user"`
}

type AuthService struct {
	users   repository.UserRepository
	rbac    repository.RBACRepository
	jwt     *security.JWTManager
	rbacSvc *RBACService
}

func NewAuthService(users repository.UserRepository, rbac repository.RBACRepository, jwt *security.JWTManager) *AuthService {
	return &AuthService{
		users:   users,
		rbac:    rbac,
		jwt:     jwt,
		rbacSvc: NewRBACService(),
	}
}

// Login verifies the password and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.RecordAuthLogin(ctx, "unknown_email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.Active {
		observability.RecordAuthLogin(ctx, "inactive")
		return nil, ErrInvalidCredentials
	}

	cred, err := s.users.CredentialByUserID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observability.RecordAuthLogin(ctx, "no_credential")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	ok, err := security.VerifyPassword(cred.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.RecordAuthLogin(ctx, "bad_password")
		return nil, ErrInvalidCredentials
	}

	roleName := ""
	if u.Role != nil {
		roleName = u.Role.Name
	}
	token, err := s.jwt.SignAccessToken(u.ID, u.Email, roleName)
	if err != nil {
		return nil, err
	}

	profile, err := s.profile(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	observability.RecordAuthLogin(ctx, "success")
	return &LoginResult{AccessToken: token, User: *profile}, nil
}

// Me returns the calling user's profile with their effective permission set,
// the payload the console uses to decide which modules and actions to show.
func (s *AuthService) Me(ctx context.Context, userID uint) (*UserProfile, error) {
	return s.profile(ctx, userID)
}

func (s *AuthService) profile(ctx context.Context, userID uint) (*UserProfile, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	roleName := ""
	if u.Role != nil {
		roleName = u.Role.Name
	}
	perms, err := s.rbac.PermissionsForRole(ctx, u.RoleID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	descriptors := s.rbacSvc.DescriptorsFromPermissions(perms)
	if descriptors == nil {
		descriptors = []permissions.Descriptor{}
	}
	return &UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Avatar:      u.Avatar,
		Role:        roleName,
		Permissions: descriptors,
	}, nil
}
