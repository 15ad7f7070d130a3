package domain

import (
	"errors"
	"fmt"
)

// Kind is the closed set of extraction failure causes.
type Kind uint8

const (
	// KindUnknown is reported for errors that did not come from the pipeline.
	KindUnknown Kind = iota
	// KindInputNotFound: the instance document path does not exist.
	KindInputNotFound
	// KindSchemaUndetectable: no schemaRef found by XML parse or textual fallback.
	KindSchemaUndetectable
	// KindSchemaUnresolvable: the schemaRef has no match in the local archive.
	KindSchemaUnresolvable
	// KindValidationEmpty: the engine produced a model with zero facts.
	KindValidationEmpty
	// KindDecodeFailure: the instance is not valid UTF-8, so the href cannot be rewritten.
	KindDecodeFailure
	// KindEngine: the engine could not load the staged instance at all.
	KindEngine
	// KindStaging: the temporary staging area could not be prepared.
	KindStaging
)

var (
	// ErrInputNotFound signals a missing instance document.
	ErrInputNotFound = errors.New("input not found")
	// ErrSchemaUndetectable signals a missing schemaRef.
	ErrSchemaUndetectable = errors.New("schema undetectable")
	// ErrSchemaUnresolvable signals an archive version gap.
	ErrSchemaUnresolvable = errors.New("schema unresolvable")
	// ErrValidationEmpty signals a model without facts.
	ErrValidationEmpty = errors.New("validation empty")
	// ErrDecodeFailure signals a non UTF-8 instance document.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrEngine signals an engine load failure.
	ErrEngine = errors.New("engine failure")
	// ErrStaging signals a staging I/O failure.
	ErrStaging = errors.New("staging failure")
)

var kindNames = [...]string{
	KindUnknown:            "unknown",
	KindInputNotFound:      "input_not_found",
	KindSchemaUndetectable: "schema_undetectable",
	KindSchemaUnresolvable: "schema_unresolvable",
	KindValidationEmpty:    "validation_empty",
	KindDecodeFailure:      "decode_failure",
	KindEngine:             "engine",
	KindStaging:            "staging",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinel returns the errors.Is target for the kind, nil for KindUnknown.
func (k Kind) Sentinel() error {
	switch k {
	case KindInputNotFound:
		return ErrInputNotFound
	case KindSchemaUndetectable:
		return ErrSchemaUndetectable
	case KindSchemaUnresolvable:
		return ErrSchemaUnresolvable
	case KindValidationEmpty:
		return ErrValidationEmpty
	case KindDecodeFailure:
		return ErrDecodeFailure
	case KindEngine:
		return ErrEngine
	case KindStaging:
		return ErrStaging
	default:
		return nil
	}
}

// Error is a terminal extraction failure tagged with its kind and the stage it happened in.
type Error struct {
	Kind  Kind
	Stage Stage
	// Ref is the schema reference involved, if any.
	Ref string
	// Path is the filesystem path involved, if any.
	Path string
	Err  error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindInputNotFound:
		msg = fmt.Sprintf("XBRL file not found: %s", e.Path)
	case KindSchemaUndetectable:
		msg = "could not detect schemaRef in the provided XBRL file"
	case KindSchemaUnresolvable:
		msg = fmt.Sprintf(
			"schema %q not found in the bundled taxonomy archive; "+
				"the exchange may have published an unsupported taxonomy version", e.Ref)
	case KindValidationEmpty:
		msg = "engine loaded the model but found 0 facts; schema resolution or validation may have failed"
	case KindDecodeFailure:
		msg = "XBRL file is not valid UTF-8, unable to inject schema URI"
	case KindEngine:
		msg = "engine failed to load the instance"
		if e.Path != "" {
			msg = fmt.Sprintf("engine failed to load %s", e.Path)
		}
	case KindStaging:
		msg = "failed to stage instance for offline resolution"
	default:
		msg = "extraction failed"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stage != StageUnresolved {
		return e.Stage.String() + ": " + msg
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.Sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewError creates a pipeline error of the given kind.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
