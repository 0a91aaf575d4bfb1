package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/loandesk/loan-manager/internal/core/domain"
	"github.com/loandesk/loan-manager/internal/core/ports"
)

// AuthService implements registration, login and user administration.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register creates a new user account. A request for the admin role is
// honoured only when the caller presents a valid admin token; otherwise the
// role is silently downgraded to verifier, matching the registration flow
// the verifiers go through.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := s.resolveRole(in.RequestedRole, in.CallerToken)

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// resolveRole decides the stored role for a registration request.
// Admin is granted only when callerToken decodes to a valid, unexpired
// admin token; every other outcome downgrades to verifier.
func (s *AuthService) resolveRole(requested, callerToken string) domain.Role {
	if requested != string(domain.RoleAdmin) {
		return domain.RoleVerifier
	}
	if callerToken == "" {
		return domain.RoleVerifier
	}

	claims, err := ParseToken(callerToken, s.jwtSecret)
	if err != nil || claims.Role != domain.RoleAdmin {
		return domain.RoleVerifier
	}
	return domain.RoleAdmin
}

// Login authenticates a user and returns a signed session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return token, user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

// DeleteUser removes the target account. Admins cannot delete themselves.
func (s *AuthService) DeleteUser(ctx context.Context, callerID, targetID string) error {
	user, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if user.ID == callerID {
		return domain.ErrSelfAction
	}

	if err := s.repo.Delete(ctx, targetID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", targetID).Str("deleted_by", callerID).Msg("user deleted")
	return nil
}

// UpdateUserRole changes the target's role. Admins cannot change their own.
func (s *AuthService) UpdateUserRole(ctx context.Context, callerID, targetID string, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user.ID == callerID {
		return nil, domain.ErrSelfAction
	}

	updated, err := s.repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", targetID).Str("role", string(role)).Str("updated_by", callerID).Msg("user role updated")
	return updated, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
