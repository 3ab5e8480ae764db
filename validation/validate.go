// Package validation cross-checks a metadata root before its buffers are
// handed to a container writer.
//
// Validate never stops at the first problem: every inconsistency becomes an
// Issue in the Report. Issues are fatal or advisory; row count mismatches
// are always fatal.
package validation

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arloliu/structmeta/encoding"
	"github.com/arloliu/structmeta/errs"
	"github.com/arloliu/structmeta/featureid"
	"github.com/arloliu/structmeta/format"
	"github.com/arloliu/structmeta/internal/collision"
	"github.com/arloliu/structmeta/internal/options"
	"github.com/arloliu/structmeta/metadata"
	"github.com/arloliu/structmeta/metrics"
	"github.com/arloliu/structmeta/schema"
)

type config struct {
	logger     zerolog.Logger
	metrics    *metrics.Collector
	severities map[Kind]Severity
	strict     bool
}

// Option configures a validation pass.
type Option = options.Option[*config]

// WithLogger sets the logger receiving one event per issue and a summary.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}

// WithMetrics sets the collector counting runs and issues.
func WithMetrics(m *metrics.Collector) Option {
	return options.NoError(func(c *config) {
		c.metrics = m
	})
}

// WithSeverity overrides the severity of kind. KindRowCount stays fatal.
// An unknown kind or severity fails with errs.ErrInvalidOption.
func WithSeverity(kind Kind, severity Severity) Option {
	return options.New(func(c *config) error {
		if !kind.valid() {
			return fmt.Errorf("%w: issue kind %d", errs.ErrInvalidOption, kind)
		}
		if !severity.valid() {
			return fmt.Errorf("%w: severity %d", errs.ErrInvalidOption, severity)
		}
		c.severities[kind] = severity

		return nil
	})
}

// WithStrict makes every issue fatal.
func WithStrict() Option {
	return options.NoError(func(c *config) {
		c.strict = true
	})
}

func defaultSeverities() map[Kind]Severity {
	m := make(map[Kind]Severity, len(Kinds))
	for _, k := range Kinds {
		m[k] = SeverityFatal
	}
	m[KindDuplicateEnum] = SeverityAdvisory
	m[KindUnassigned] = SeverityAdvisory

	return m
}

func (c *config) severity(k Kind) Severity {
	if c.strict || k == KindRowCount {
		return SeverityFatal
	}

	return c.severities[k]
}

type validator struct {
	cfg    *config
	root   *metadata.Root
	report *Report
}

// Validate checks root and the feature id sets attached to it.
//
// The pass covers, in order: the schema (component types, enum references,
// normalization, duplicate enum entries), every property table column (row
// count, array offsets, string offsets, required properties), property
// textures and attributes, and the feature id sets. It never stops at the
// first problem; each one becomes an Issue with the severity configured for
// its Kind.
//
// Parameters:
//   - root: Metadata root to check
//   - features: Feature id sets of the mesh primitives referencing root
//   - opts: Logger, metrics and severity options
//
// Returns:
//   - *Report: Every issue found; Report.OK is true when none is fatal
//   - error: errs.ErrInvalidOption when an option is invalid, in which case
//     nothing is checked
func Validate(root *metadata.Root, features []*featureid.MeshFeatures, opts ...Option) (*Report, error) {
	cfg := &config{
		logger:     zerolog.Nop(),
		severities: defaultSeverities(),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	v := &validator{cfg: cfg, root: root, report: &Report{}}

	v.checkSchema()
	for i, t := range root.PropertyTables() {
		v.checkTable(fmt.Sprintf("propertyTables[%d]", i), t)
	}
	for i, t := range root.PropertyTextures() {
		v.checkTexture(fmt.Sprintf("propertyTextures[%d]", i), t)
	}
	for i, a := range root.PropertyAttributes() {
		v.checkAttribute(fmt.Sprintf("propertyAttributes[%d]", i), a)
	}
	for i, mf := range features {
		v.checkFeatures(fmt.Sprintf("meshFeatures[%d]", i), mf)
	}

	fatal, advisory := len(v.report.Fatal()), len(v.report.Advisory())
	cfg.metrics.RecordValidationRun()
	cfg.logger.Info().
		Int("fatal", fatal).
		Int("advisory", advisory).
		Msg("structural metadata validated")

	return v.report, nil
}

func (v *validator) add(kind Kind, path string, msg string, args ...any) {
	issue := Issue{
		Kind:     kind,
		Severity: v.cfg.severity(kind),
		Path:     path,
		Message:  fmt.Sprintf(msg, args...),
	}
	v.report.Issues = append(v.report.Issues, issue)

	v.cfg.metrics.RecordValidationIssue(kind.String(), issue.Severity.String())

	event := v.cfg.logger.Error()
	if issue.Severity == SeverityAdvisory {
		event = v.cfg.logger.Warn()
	}
	event.
		Str("kind", kind.String()).
		Str("path", path).
		Str("severity", issue.Severity.String()).
		Msg(issue.Message)
}

func (v *validator) checkSchema() {
	s := v.root.Schema()
	if s == nil {
		return
	}

	for _, c := range s.Classes() {
		for _, p := range c.Properties() {
			v.checkClassProperty(fmt.Sprintf("schema.classes.%s.properties.%s", c.ID, p.ID), s, p)
		}
	}

	for _, e := range s.Enums() {
		v.checkEnum("schema.enums."+e.ID, e)
	}
}

func (v *validator) checkClassProperty(path string, s *schema.Schema, p *schema.Property) {
	switch {
	case p.Type == format.ElementEnum:
		if _, ok := s.Enum(p.EnumType); !ok {
			v.add(KindUnresolvedEnum, path, "enum %q is not declared", p.EnumType)
		}
	case p.Type.IsNumeric() && !p.ComponentType.Valid():
		v.add(KindMissingComponentType, path, "%s property has no component type", p.Type)
	case !p.Type.Valid():
		v.add(KindMissingComponentType, path, "property has no element type")
	}

	if !p.Type.IsNumeric() && p.ComponentType != format.ComponentNone {
		v.add(KindUnexpectedComponentType, path, "%s property declares component type %s", p.Type, p.ComponentType)
	}

	if p.Normalized && !p.ComponentType.IsInteger() {
		v.add(KindNormalizedType, path, "normalized requires an integer component type, got %s", p.ComponentType)
	}
}

func (v *validator) checkEnum(path string, e *schema.Enum) {
	names := collision.NewTracker()
	codes := collision.NewTracker()

	for i, value := range e.Values {
		if prev, dup := names.TrackString(value.Name, i); dup {
			v.add(KindDuplicateEnum, path, "name %q is used by values %d and %d", value.Name, prev, i)
		}
		if prev, dup := codes.TrackString(fmt.Sprint(value.Value), i); dup {
			v.add(KindDuplicateEnum, path, "value %d is used by %q and %q", value.Value, e.Values[prev].Name, value.Name)
		}
	}
}

func (v *validator) checkTable(path string, t *metadata.PropertyTable) {
	s := v.root.Schema()
	if s == nil {
		v.add(KindUnknownClass, path, "class %q: root has no schema", t.Class.ID)
	} else if c, ok := s.Class(t.Class.ID); !ok || c != t.Class {
		v.add(KindUnknownClass, path, "class %q is not part of schema %q", t.Class.ID, s.ID)
	}

	for _, tp := range t.Properties() {
		prop := tp.ClassProperty()
		propPath := path + ".properties." + prop.ID

		if cp, ok := t.Class.Property(prop.ID); !ok || cp != prop {
			v.add(KindUnknownProperty, propPath, "property is not defined by class %q", t.Class.ID)
			continue
		}

		if !tp.IsSet() {
			if !prop.Required {
				v.add(KindUnassigned, propPath, "property is used but has no values")
			}
			continue
		}

		v.checkColumn(propPath, t, tp)
	}

	for _, prop := range t.Class.RequiredProperties() {
		if tp, ok := t.Property(prop.ID); !ok || !tp.IsSet() {
			v.add(KindMissingRequired, path+".properties."+prop.ID, "required property has no values")
		}
	}
}

func (v *validator) checkColumn(path string, t *metadata.PropertyTable, tp *metadata.TableProperty) {
	prop := tp.ClassProperty()

	switch rows := tp.RowCount(); {
	case rows < 0:
		v.add(KindRowCount, path, "property %s: buffers of %d bytes do not hold a whole number of rows, table %q declares %d",
			prop.ID, len(tp.Values()), t.Name, t.Count)
	case rows != t.Count:
		v.add(KindRowCount, path, "property %s has %d rows, table %q declares %d", prop.ID, rows, t.Name, t.Count)
	}

	if prop.IsVariableLength() {
		v.checkArrayOffsets(path, tp)
	} else if tp.ArrayOffsets() != nil {
		v.add(KindArrayOffsets, path, "array offsets on a property that is not a variable-length array")
	}

	if prop.Type == format.ElementString {
		v.checkStringOffsets(path, tp)
	} else if tp.StringOffsets() != nil {
		v.add(KindStringOffsets, path, "string offsets on a %s property", prop.Type)
	}
}

func (v *validator) checkArrayOffsets(path string, tp *metadata.TableProperty) {
	if tp.ArrayOffsets() == nil {
		v.add(KindArrayOffsets, path, "variable-length array has no array offsets")
		return
	}

	offsets, err := tp.ArrayOffsetValues()
	if err != nil {
		v.add(KindArrayOffsets, path, "%v", err)
		return
	}

	total, ok, err := v.elementTotal(tp, offsets)
	if err != nil {
		v.add(KindArrayOffsets, path, "%v", err)
		return
	}
	if !ok {
		return
	}
	if err := encoding.CheckOffsets(offsets, total); err != nil {
		v.add(KindArrayOffsets, path, "%v", err)
	}
}

// elementTotal returns the number of elements the values buffer holds, which
// the last array offset must equal. It fails when the values buffer ends in
// a partial element. ok is false when the element size cannot be resolved.
func (v *validator) elementTotal(tp *metadata.TableProperty, offsets []uint64) (uint64, bool, error) {
	prop := tp.ClassProperty()

	switch prop.Type {
	case format.ElementString:
		strOffsets, err := tp.StringOffsetValues()
		if err != nil || len(strOffsets) == 0 {
			return 0, false, nil
		}

		return uint64(len(strOffsets) - 1), true, nil
	case format.ElementBoolean:
		// Packed bits are padded to a whole byte, so the last offset sets the
		// bit count and the buffer must be exactly that many bytes.
		if len(offsets) == 0 {
			return 0, true, nil
		}
		last := offsets[len(offsets)-1]
		if need := (last + 7) / 8; need != uint64(len(tp.Values())) {
			return 0, false, fmt.Errorf("%w: %d bits pack into %d bytes, values hold %d",
				errs.ErrCorruptBuffer, last, need, len(tp.Values()))
		}

		return last, true, nil
	}

	ct, ok := v.valueComponentType(prop)
	if !ok {
		return 0, false, nil
	}

	size, err := encoding.ElementSize(prop.Type, ct)
	if err != nil || size == 0 {
		return 0, false, nil
	}

	n := len(tp.Values())
	if n%size != 0 {
		return 0, false, fmt.Errorf("%w: %d value bytes end in a partial %d-byte element",
			errs.ErrCorruptBuffer, n, size)
	}

	return uint64(n / size), true, nil
}

// valueComponentType returns the component type values of prop are encoded
// with, resolving enums through the schema.
func (v *validator) valueComponentType(prop *schema.Property) (format.ComponentType, bool) {
	if prop.Type != format.ElementEnum {
		return prop.ComponentType, true
	}

	s := v.root.Schema()
	if s == nil {
		return format.ComponentNone, false
	}
	e, ok := s.Enum(prop.EnumType)
	if !ok {
		return format.ComponentNone, false
	}

	return e.ValueType, true
}

func (v *validator) checkStringOffsets(path string, tp *metadata.TableProperty) {
	if tp.StringOffsets() == nil {
		v.add(KindStringOffsets, path, "STRING property has no string offsets")
		return
	}

	offsets, err := tp.StringOffsetValues()
	if err != nil {
		v.add(KindStringOffsets, path, "%v", err)
		return
	}

	if err := encoding.CheckOffsets(offsets, uint64(len(tp.Values()))); err != nil {
		v.add(KindStringOffsets, path, "%v", err)
	}
}

func (v *validator) checkTexture(path string, t *metadata.PropertyTexture) {
	for _, id := range t.PropertyIDs() {
		propPath := path + ".properties." + id
		tp, _ := t.Property(id)

		prop, ok := t.Class.Property(id)
		if !ok {
			v.add(KindTextureProperty, propPath, "property is not defined by class %q", t.Class.ID)
			continue
		}

		if prop.Type == format.ElementString || prop.IsVariableLength() {
			v.add(KindTextureProperty, propPath, "%s cannot be stored in a texture", prop)
			continue
		}

		if problem := checkChannels(tp.Channels); problem != "" {
			v.add(KindTextureProperty, propPath, "%s", problem)
			continue
		}

		if prop.Type == format.ElementBoolean {
			if prop.ElementsPerRow() > 8*len(tp.Channels) {
				v.add(KindTextureProperty, propPath, "%d booleans do not fit %d channels",
					prop.ElementsPerRow(), len(tp.Channels))
			}
			continue
		}

		ct, ok := v.valueComponentType(prop)
		if !ok {
			continue
		}
		size, err := encoding.ElementSize(prop.Type, ct)
		if err != nil {
			continue
		}
		if want := size * prop.ElementsPerRow(); want != len(tp.Channels) {
			v.add(KindTextureProperty, propPath, "%s needs %d channels, got %d", prop, want, len(tp.Channels))
		}
	}
}

func checkChannels(channels []int) string {
	if len(channels) == 0 {
		return "no channels"
	}

	var seen [4]bool
	for _, c := range channels {
		if c < 0 || c > 3 {
			return fmt.Sprintf("channel %d outside 0..3", c)
		}
		if seen[c] {
			return fmt.Sprintf("channel %d listed twice", c)
		}
		seen[c] = true
	}

	return ""
}

func (v *validator) checkAttribute(path string, a *metadata.PropertyAttribute) {
	for _, id := range a.PropertyIDs() {
		propPath := path + ".properties." + id
		name, _ := a.Attribute(id)

		prop, ok := a.Class.Property(id)
		if !ok {
			v.add(KindAttributeProperty, propPath, "property is not defined by class %q", a.Class.ID)
			continue
		}

		if !strings.HasPrefix(name, "_") {
			v.add(KindAttributeProperty, propPath, "attribute %q must start with '_'", name)
		}

		if prop.Type == format.ElementString || prop.Type == format.ElementBoolean || prop.Array {
			v.add(KindAttributeProperty, propPath, "%s cannot be stored in a vertex attribute", prop)
		}
	}
}

func (v *validator) checkFeatures(path string, mf *featureid.MeshFeatures) {
	for i, f := range mf.FeatureIDs() {
		fPath := fmt.Sprintf("%s.featureIds[%d]", path, i)

		if src := f.Source(); src != nil && src.Len() != f.ElementCount() {
			v.add(KindFeatureRange, fPath, "attribute holds %d ids for %d elements", src.Len(), f.ElementCount())
		}

		table := f.Table()
		if table == nil {
			continue
		}

		if v.root.PropertyTableIndex(table) < 0 {
			v.add(KindFeatureRange, fPath, "property table %q is not part of the metadata root", table.Name)
			continue
		}

		if maxID, ok := f.MaxFeatureID(); ok && maxID >= table.Count {
			v.add(KindFeatureRange, fPath, "feature id %d exceeds property table %q of %d rows",
				maxID, table.Name, table.Count)
		}
	}
}
