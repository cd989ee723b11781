package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/core/ports"
)

const (
	minPasswordLength = 6
	// bcrypt refuses longer inputs.
	maxPasswordBytes = 72
)

type AuthUseCase struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	now    func() time.Time
}

func NewAuthUseCase(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer) *AuthUseCase {
	return &AuthUseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, domain.NewUserError(
			domain.ErrInvalidInput,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength),
			nil,
		)
	}
	if len(password) > maxPasswordBytes {
		return nil, domain.NewUserError(
			domain.ErrInvalidInput,
			fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes),
			nil,
		)
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    uc.now(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if domain.IsKind(err, domain.ErrConflict) {
			return nil, domain.NewUserError(domain.ErrConflict, "email already registered", err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := uc.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}

	token, expiresAt, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}, nil
}

func (uc *AuthUseCase) Authenticate(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.WrapError(domain.ErrUnauthorized, "authenticate", errors.New("empty token"))
	}
	userID, err := uc.tokens.Parse(token)
	if err != nil {
		return "", domain.WrapError(domain.ErrUnauthorized, "authenticate", err)
	}
	return userID, nil
}

// normalizeEmail keeps only the bare address, so "Bob <bob@x.com>" and
// "bob@x.com" name the same account.
func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", domain.NewUserError(domain.ErrInvalidInput, "invalid email address", err)
	}
	return strings.ToLower(addr.Address), nil
}

func invalidCredentials() error {
	return domain.NewUserError(domain.ErrUnauthorized, "invalid email or password", nil)
}
