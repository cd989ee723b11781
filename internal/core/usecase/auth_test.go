package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/kirillkom/plagiarism-report/internal/core/domain"
	"github.com/kirillkom/plagiarism-report/internal/infrastructure/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	users := newUserRepoFake()
	uc := NewAuthUseCase(users, hasherFake{}, tokenFake{})

	user, err := uc.Register(context.Background(), "  Alice@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}

	session, err := uc.Login(context.Background(), "ALICE@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.UserID != user.ID || session.Token == "" {
		t.Fatalf("unexpected session %+v", session)
	}

	userID, err := uc.Authenticate(context.Background(), session.Token)
	if err != nil || userID != user.ID {
		t.Fatalf("Authenticate() = %q, %v", userID, err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	uc := NewAuthUseCase(newUserRepoFake(), hasherFake{}, tokenFake{})
	if _, err := uc.Register(context.Background(), "a@b.co", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := uc.Register(context.Background(), "a@b.co", "secret2")
	if !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	uc := NewAuthUseCase(newUserRepoFake(), hasherFake{}, tokenFake{})

	if _, err := uc.Register(context.Background(), "not-an-email", "secret1"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid email error, got %v", err)
	}
	if _, err := uc.Register(context.Background(), "a@b.co", "123"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected short password error, got %v", err)
	}
}

func TestRegisterRejectsPasswordLongerThanBcryptLimit(t *testing.T) {
	users := newUserRepoFake()
	uc := NewAuthUseCase(users, auth.NewBcryptHasher(4), tokenFake{})

	_, err := uc.Register(context.Background(), "a@b.co", strings.Repeat("x", 100))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if msg := domain.UserMessage(err, ""); msg != "password must be at most 72 bytes" {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(users.users) != 0 {
		t.Fatalf("expected no user to be created")
	}

	if _, err := uc.Register(context.Background(), "a@b.co", strings.Repeat("x", 72)); err != nil {
		t.Fatalf("72-byte password must be accepted, got %v", err)
	}
}

func TestRegisterStoresBareAddressFromDisplayNameForm(t *testing.T) {
	users := newUserRepoFake()
	uc := NewAuthUseCase(users, hasherFake{}, tokenFake{})

	user, err := uc.Register(context.Background(), "Bob <Bob@X.com>", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "bob@x.com" {
		t.Fatalf("expected bare address, got %q", user.Email)
	}

	if _, err := uc.Register(context.Background(), "bob@x.com", "secret2"); !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected the bare address to collide, got %v", err)
	}
	if _, err := uc.Login(context.Background(), "bob@x.com", "secret1"); err != nil {
		t.Fatalf("Login() with bare address error = %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc := NewAuthUseCase(newUserRepoFake(), hasherFake{}, tokenFake{})
	if _, err := uc.Register(context.Background(), "a@b.co", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := uc.Login(context.Background(), "a@b.co", "wrong!!"); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", err)
	}
	if _, err := uc.Login(context.Background(), "nobody@b.co", "secret1"); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestAuthenticateRejectsEmptyToken(t *testing.T) {
	uc := NewAuthUseCase(newUserRepoFake(), hasherFake{}, tokenFake{})

	if _, err := uc.Authenticate(context.Background(), " "); !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
