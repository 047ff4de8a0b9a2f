package service

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/repository"
	"alcyxob/fitness-admin/internal/session"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced on registration.
const MinPasswordLength = 8

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

type AuthService interface {
	// Register creates an account and its profile. New profiles get the user role
	// unless the e-mail is listed as a bootstrap admin.
	Register(ctx context.Context, email, password string) (*domain.Account, *domain.Profile, error)
	Login(ctx context.Context, email, password string) (token string, sess *session.Session, err error)
	Logout(ctx context.Context, token string) error
}

// authService implements the AuthService interface.
type authService struct {
	accountRepo     repository.AccountRepository
	profileRepo     repository.ProfileRepository
	sessions        *session.Manager
	bootstrapAdmins map[string]struct{}
}

// NewAuthService creates a new instance of authService.
func NewAuthService(
	accountRepo repository.AccountRepository,
	profileRepo repository.ProfileRepository,
	sessions *session.Manager,
	bootstrapAdmins []string,
) AuthService {
	admins := make(map[string]struct{}, len(bootstrapAdmins))
	for _, email := range bootstrapAdmins {
		admins[normalizeEmail(email)] = struct{}{}
	}
	return &authService{
		accountRepo:     accountRepo,
		profileRepo:     profileRepo,
		sessions:        sessions,
		bootstrapAdmins: admins,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register handles new account registration.
func (s *authService) Register(ctx context.Context, email, password string) (*domain.Account, *domain.Profile, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, validationError("a valid email is required")
	}
	if len(password) < MinPasswordLength {
		return nil, nil, validationError("password must be at least %d characters", MinPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, ErrHashingFailed
	}

	account := &domain.Account{Email: email, PasswordHash: string(hashedPassword)}
	if _, err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, nil, ErrUserAlreadyExists
		}
		return nil, nil, err
	}

	role := domain.RoleUser
	if _, ok := s.bootstrapAdmins[email]; ok {
		role = domain.RoleAdmin
	}
	profile := &domain.Profile{ID: account.ID, Role: role}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		// Without a profile the account could never pass the guard; undo it.
		if delErr := s.accountRepo.Delete(ctx, account.ID); delErr != nil {
			slog.ErrorContext(ctx, "failed to roll back account", "accountID", account.ID.Hex(), "error", delErr)
		}
		return nil, nil, fmt.Errorf("create profile: %w", err)
	}

	slog.InfoContext(ctx, "account registered", "accountID", account.ID.Hex(), "role", role)
	account.PasswordHash = ""
	return account, profile, nil
}

// Login checks the credentials and issues a session token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *session.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, validationError("email and password cannot be empty")
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed // User not found maps to auth failure
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, sess, err := s.sessions.Issue(account.ID)
	if err != nil {
		slog.ErrorContext(ctx, "session token signing failed", "error", err)
		return "", nil, ErrTokenGeneration
	}
	return token, sess, nil
}

// Logout revokes token. Unknown or malformed tokens are ignored.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, token)
}
