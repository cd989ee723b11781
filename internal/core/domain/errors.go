package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrResultNotFound   = errors.New("result not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrProgressNotFound = errors.New("progress not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrExtraction       = errors.New("text extraction failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConflict         = errors.New("conflict")
	ErrTemporary        = errors.New("temporary failure")
)

// User-facing messages shown by clients as-is.
const (
	MsgPDFRequired  = "Veuillez sélectionner un fichier PDF (.pdf)"
	MsgUploadFailed = "Erreur lors du téléchargement"
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// UserError carries a message that is safe to show to the end user next to
// the error kind used for status mapping.
type UserError struct {
	Kind    error
	Message string
	Err     error
}

func NewUserError(kind error, message string, err error) *UserError {
	return &UserError{Kind: kind, Message: message, Err: err}
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *UserError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage returns the message to surface for err, or fallback when err
// carries none.
func UserMessage(err error, fallback string) string {
	var userErr *UserError
	if errors.As(err, &userErr) && userErr.Message != "" {
		return userErr.Message
	}
	return fallback
}
