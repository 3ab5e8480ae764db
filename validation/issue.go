package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/structmeta/errs"
)

// Kind identifies a class of inconsistency.
type Kind uint8

const (
	KindRowCount Kind = iota + 1
	KindUnknownClass
	KindUnknownProperty
	KindMissingRequired
	KindUnresolvedEnum
	KindNormalizedType
	KindMissingComponentType
	KindArrayOffsets
	KindStringOffsets
	KindFeatureRange
	KindDuplicateEnum
	KindTextureProperty
	KindAttributeProperty
	KindUnassigned
	KindUnexpectedComponentType
)

// Kinds lists every issue kind.
var Kinds = []Kind{
	KindRowCount, KindUnknownClass, KindUnknownProperty, KindMissingRequired,
	KindUnresolvedEnum, KindNormalizedType, KindMissingComponentType,
	KindArrayOffsets, KindStringOffsets, KindFeatureRange, KindDuplicateEnum,
	KindTextureProperty, KindAttributeProperty, KindUnassigned,
	KindUnexpectedComponentType,
}

func (k Kind) String() string {
	switch k {
	case KindRowCount:
		return "row_count"
	case KindUnknownClass:
		return "unknown_class"
	case KindUnknownProperty:
		return "unknown_property"
	case KindMissingRequired:
		return "missing_required"
	case KindUnresolvedEnum:
		return "unresolved_enum"
	case KindNormalizedType:
		return "normalized_type"
	case KindMissingComponentType:
		return "missing_component_type"
	case KindArrayOffsets:
		return "array_offsets"
	case KindStringOffsets:
		return "string_offsets"
	case KindFeatureRange:
		return "feature_range"
	case KindDuplicateEnum:
		return "duplicate_enum"
	case KindTextureProperty:
		return "texture_property"
	case KindAttributeProperty:
		return "attribute_property"
	case KindUnassigned:
		return "unassigned"
	case KindUnexpectedComponentType:
		return "unexpected_component_type"
	default:
		return "unknown"
	}
}

func (k Kind) valid() bool {
	return k >= KindRowCount && k <= KindUnexpectedComponentType
}

// Severity decides whether an issue blocks container emission.
type Severity uint8

const (
	SeverityFatal Severity = iota
	SeverityAdvisory
)

func (s Severity) valid() bool {
	return s <= SeverityAdvisory
}

func (s Severity) String() string {
	if s == SeverityAdvisory {
		return "advisory"
	}

	return "fatal"
}

// Issue is one inconsistency found by the validation pass.
type Issue struct {
	Kind     Kind
	Severity Severity
	Path     string // location, e.g. "propertyTables[0].properties.age"
	Message  string
}

// Err returns the issue as an error wrapping errs.ErrSchemaInconsistency.
// Row count issues also wrap errs.ErrLengthMismatch.
func (i Issue) Err() error {
	if i.Kind == KindRowCount {
		return fmt.Errorf("%w: %w: %s: %s", errs.ErrSchemaInconsistency, errs.ErrLengthMismatch, i.Path, i.Message)
	}

	return fmt.Errorf("%w: %s: %s: %s", errs.ErrSchemaInconsistency, i.Kind, i.Path, i.Message)
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s %s: %s", i.Severity, i.Kind, i.Path, i.Message)
}

// Report collects every issue of one validation pass.
type Report struct {
	Issues []Issue
}

// OK reports whether no fatal issue was found.
func (r *Report) OK() bool {
	return len(r.Fatal()) == 0
}

// Fatal returns the fatal issues.
func (r *Report) Fatal() []Issue {
	return r.filter(func(i Issue) bool { return i.Severity == SeverityFatal })
}

// Advisory returns the advisory issues.
func (r *Report) Advisory() []Issue {
	return r.filter(func(i Issue) bool { return i.Severity == SeverityAdvisory })
}

// ByKind returns the issues of kind k.
func (r *Report) ByKind(k Kind) []Issue {
	return r.filter(func(i Issue) bool { return i.Kind == k })
}

// Err joins the errors of all fatal issues, or returns nil.
func (r *Report) Err() error {
	fatal := r.Fatal()
	if len(fatal) == 0 {
		return nil
	}

	errList := make([]error, len(fatal))
	for i, issue := range fatal {
		errList[i] = issue.Err()
	}

	return errors.Join(errList...)
}

func (r *Report) String() string {
	if len(r.Issues) == 0 {
		return "no issues"
	}

	lines := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		lines[i] = issue.String()
	}

	return strings.Join(lines, "\n")
}

func (r *Report) filter(keep func(Issue) bool) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if keep(i) {
			out = append(out, i)
		}
	}

	return out
}
