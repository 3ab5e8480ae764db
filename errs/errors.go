// Package errs defines the sentinel errors returned by structmeta.
//
// Errors are always wrapped with context, so callers should match them with
// errors.Is:
//
//	if errors.Is(err, errs.ErrLengthMismatch) { ... }
package errs

import "errors"

// Error kinds surfaced by the codec, the table authoring API and the
// validation pass.
var (
	// ErrUnsupportedType is returned when a value shape cannot be encoded by
	// the requested path: boolean or nested sequences at the generic codec
	// entry point, or element types without a fixed width.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLengthMismatch is returned when a value sequence is inconsistent with
	// the declared row count or array count.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrUnknownEnumValue is returned when a symbolic enum name is not declared.
	ErrUnknownEnumValue = errors.New("unknown enum value")

	// ErrSchemaInconsistency is wrapped by every validation issue.
	ErrSchemaInconsistency = errors.New("schema inconsistency")
)

// Authoring errors.
var (
	ErrInvalidID            = errors.New("invalid identifier")
	ErrTypeMismatch         = errors.New("value type does not match declared type")
	ErrValuesAlreadySet     = errors.New("property values already set")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrClassNotFound        = errors.New("class not found")
	ErrEnumNotFound         = errors.New("enum not found")
	ErrInvalidRowCount      = errors.New("invalid row count")
	ErrInvalidRowIndex      = errors.New("invalid row index")
	ErrInvalidArrayCount    = errors.New("invalid array count")
	ErrInvalidOffsetType    = errors.New("invalid offset type")
	ErrOffsetOverflow       = errors.New("offset exceeds offset type range")
	ErrInvalidFeatureSource = errors.New("invalid feature id source")
	ErrInvalidChannel       = errors.New("invalid texture channel")
	ErrInvalidAlignment     = errors.New("invalid alignment")
	ErrInvalidOption        = errors.New("invalid option")
)

// Decoding errors.
var (
	ErrCorruptBuffer = errors.New("corrupt buffer")
)
