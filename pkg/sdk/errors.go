package nsexbrl

import "github.com/kailas-cloud/nsexbrl/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInputNotFound      = domain.ErrInputNotFound
	ErrSchemaUndetectable = domain.ErrSchemaUndetectable
	ErrSchemaUnresolvable = domain.ErrSchemaUnresolvable
	ErrValidationEmpty    = domain.ErrValidationEmpty
	ErrDecodeFailure      = domain.ErrDecodeFailure
	ErrEngine             = domain.ErrEngine
	ErrStaging            = domain.ErrStaging
)

// Error is the typed extraction failure. Use errors.As() to read the stage,
// schema reference and path involved.
type Error = domain.Error

// Kind classifies an extraction failure.
type Kind = domain.Kind

// Failure kinds.
const (
	KindUnknown            = domain.KindUnknown
	KindInputNotFound      = domain.KindInputNotFound
	KindSchemaUndetectable = domain.KindSchemaUndetectable
	KindSchemaUnresolvable = domain.KindSchemaUnresolvable
	KindValidationEmpty    = domain.KindValidationEmpty
	KindDecodeFailure      = domain.KindDecodeFailure
	KindEngine             = domain.KindEngine
	KindStaging            = domain.KindStaging
)

// KindOf returns the failure kind of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	return domain.KindOf(err)
}
