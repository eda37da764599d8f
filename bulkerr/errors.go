// Package bulkerr defines the error kinds returned by bulk operations.
//
// Callers branch on kind with KindOf or errors.As instead of inspecting
// messages:
//
//	var conflict *bulkerr.IdentityConflictError
//	if errors.As(err, &conflict) {
//		// identity column was not excluded from the insert
//	}
package bulkerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error returned from a builder or commit.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindIdentityConflict
	KindExecution
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindIdentityConflict:
		return "identity conflict"
	case KindExecution:
		return "execution"
	default:
		return "unknown"
	}
}

// Causes wrapped by ConfigurationError.
var (
	ErrNoEntity             = errors.New("no entity supplied")
	ErrNoTable              = errors.New("table name is required")
	ErrNoColumns            = errors.New("no columns selected")
	ErrMissingMatchTarget   = errors.New("match target is required")
	ErrDuplicateIdentity    = errors.New("identity column already set")
	ErrColumnNotFound       = errors.New("column not in column set")
	ErrUnknownProperty      = errors.New("unknown property")
	ErrUnsupportedPredicate = errors.New("unsupported predicate")
	ErrDuplicateParameter   = errors.New("duplicate parameter name")
	ErrMultipleWhere        = errors.New("more than one where condition")
	ErrInvalidOperation     = errors.New("operation not valid at this stage")
	ErrAlreadyCommitted     = errors.New("batch already committed")
	ErrUnknownConnection    = errors.New("unknown connection")
	ErrUnknownDriver        = errors.New("unknown driver")
)

// ConfigurationError reports builder misuse detected before any SQL is sent.
type ConfigurationError struct {
	Op  string
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Op == "" {
		return "sqlbulk: " + e.Err.Error()
	}
	return "sqlbulk: " + e.Op + ": " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
func (e *ConfigurationError) Kind() Kind    { return KindConfiguration }

// IdentityConflictError reports that the database rejected an explicit value
// for an identity column.
type IdentityConflictError struct {
	BatchID string
	Err     error
}

func (e *IdentityConflictError) Error() string {
	return fmt.Sprintf("sqlbulk: batch %s: identity column conflict: %v", e.BatchID, e.Err)
}

func (e *IdentityConflictError) Unwrap() error { return e.Err }
func (e *IdentityConflictError) Kind() Kind    { return KindIdentityConflict }

// ExecutionError wraps any other failure raised while opening, beginning,
// executing or committing.
type ExecutionError struct {
	BatchID string
	Stage   string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("sqlbulk: batch %s: %s: %v", e.BatchID, e.Stage, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
func (e *ExecutionError) Kind() Kind    { return KindExecution }

// Configuration wraps err as a ConfigurationError for op.
func Configuration(op string, err error) error {
	return &ConfigurationError{Op: op, Err: err}
}

// Configurationf wraps a sentinel with extra context.
func Configurationf(op string, sentinel error, format string, args ...any) error {
	return &ConfigurationError{Op: op, Err: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))}
}

// KindOf reports the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var cfg *ConfigurationError
	if errors.As(err, &cfg) {
		return KindConfiguration
	}
	var ident *IdentityConflictError
	if errors.As(err, &ident) {
		return KindIdentityConflict
	}
	var exec *ExecutionError
	if errors.As(err, &exec) {
		return KindExecution
	}
	return KindUnknown
}

func IsConfiguration(err error) bool    { return KindOf(err) == KindConfiguration }
func IsIdentityConflict(err error) bool { return KindOf(err) == KindIdentityConflict }
func IsExecution(err error) bool        { return KindOf(err) == KindExecution }
