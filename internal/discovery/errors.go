package discovery

import (
	"errors"
	"fmt"
)

// Kind classifies a discovery failure.
type Kind string

const (
	KindLoad         Kind = "load"
	KindValidation   Kind = "validation"
	KindParse        Kind = "parse"
	KindDirectory    Kind = "directory"
	KindAliasConfig  Kind = "alias_config"
	KindRegistration Kind = "registration"
	KindConflict     Kind = "conflict"
	KindCatastrophic Kind = "catastrophic"
)

// Severity tells the operator how loudly a failure should be reported.
type Severity string

const (
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// ErrMissingRoot is wrapped when a registry root directory does not exist.
var ErrMissingRoot = errors.New("directory not found")

// Failure is the typed outcome of a file or directory that could not be processed.
// It always carries the identity of the offending path.
type Failure struct {
	Kind     Kind
	Severity Severity
	Path     string
	Message  string
	Cause    error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s %s: %s: %v", f.Kind, f.Path, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s %s: %s", f.Kind, f.Path, f.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (f *Failure) Unwrap() error {
	return f.Cause
}

func newFailure(kind Kind, sev Severity, path, msg string, cause error) *Failure {
	return &Failure{Kind: kind, Severity: sev, Path: path, Message: msg, Cause: cause}
}

// LoadError reports a module that could not be loaded or instantiated.
func LoadError(path, msg string, cause error) *Failure {
	return newFailure(KindLoad, SeverityError, path, msg, cause)
}

// ReadError reports a file whose content could not be read.
func ReadError(path string, cause error) *Failure {
	return newFailure(KindLoad, SeverityWarn, path, "failed to read file", cause)
}

// ValidationError reports a descriptor missing required fields.
func ValidationError(path, msg string) *Failure {
	return newFailure(KindValidation, SeverityError, path, msg, nil)
}

// ParseError reports a malformed structured-data document.
func ParseError(path string, cause error) *Failure {
	return newFailure(KindParse, SeverityError, path, "malformed document", cause)
}

// DirectoryError reports a directory that was absent or could not be listed.
func DirectoryError(path string, cause error) *Failure {
	return newFailure(KindDirectory, SeverityWarn, path, "directory unavailable", cause)
}

// AliasConfigError reports an alias specification of unsupported shape.
func AliasConfigError(path, msg string) *Failure {
	return newFailure(KindAliasConfig, SeverityWarn, path, msg, nil)
}

// RegistrationError reports a route the host engine refused.
func RegistrationError(path, msg string, cause error) *Failure {
	return newFailure(KindRegistration, SeverityError, path, msg, cause)
}

// ConflictError reports an identifier already claimed by an earlier file.
func ConflictError(path, msg string, cause error) *Failure {
	return newFailure(KindConflict, SeverityError, path, msg, cause)
}

// CatastrophicBootError is the only failure that aborts boot.
type CatastrophicBootError struct {
	Path  string
	Cause error
}

func (e *CatastrophicBootError) Error() string {
	return fmt.Sprintf("boot aborted: cannot create %s: %v", e.Path, e.Cause)
}

func (e *CatastrophicBootError) Unwrap() error {
	return e.Cause
}
