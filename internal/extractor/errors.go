package extractor

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTableDeclaration is matched by MissingTableDeclarationError.
	ErrMissingTableDeclaration = errors.New("no CREATE TABLE declaration found")

	// ErrFileAccess is matched by FileAccessError.
	ErrFileAccess = errors.New("file access failed")
)

// MissingTableDeclarationError is returned when a script holds no CREATE TABLE statement.
type MissingTableDeclarationError struct {
	Path string // empty when extracting from an in-memory string
}

func (e *MissingTableDeclarationError) Error() string {
	if e.Path == "" {
		return ErrMissingTableDeclaration.Error()
	}
	return fmt.Sprintf("%s: %s", e.Path, ErrMissingTableDeclaration.Error())
}

func (e *MissingTableDeclarationError) Is(target error) bool {
	return target == ErrMissingTableDeclaration
}

// FileAccessError is returned when a schema file or folder cannot be read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

func (e *FileAccessError) Is(target error) bool {
	return target == ErrFileAccess
}
