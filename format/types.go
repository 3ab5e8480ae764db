// Package format defines the type tags shared by the schema, the codec and the
// container layout: component types and element types.
//
// The string forms match the names used by glTF structural metadata
// ("UINT32", "VEC3", ...), so they can be written verbatim by a container
// writer.
package format

import "math"

type (
	ComponentType uint8
	ElementType   uint8
)

const (
	ComponentNone    ComponentType = 0x0 // ComponentNone marks an absent component type (STRING, BOOLEAN).
	ComponentInt8    ComponentType = 0x1 // ComponentInt8 is a signed 8-bit integer.
	ComponentUint8   ComponentType = 0x2 // ComponentUint8 is an unsigned 8-bit integer.
	ComponentInt16   ComponentType = 0x3 // ComponentInt16 is a signed 16-bit integer.
	ComponentUint16  ComponentType = 0x4 // ComponentUint16 is an unsigned 16-bit integer.
	ComponentInt32   ComponentType = 0x5 // ComponentInt32 is a signed 32-bit integer.
	ComponentUint32  ComponentType = 0x6 // ComponentUint32 is an unsigned 32-bit integer.
	ComponentInt64   ComponentType = 0x7 // ComponentInt64 is a signed 64-bit integer.
	ComponentUint64  ComponentType = 0x8 // ComponentUint64 is an unsigned 64-bit integer.
	ComponentFloat32 ComponentType = 0x9 // ComponentFloat32 is an IEEE 754 single precision float.
	ComponentFloat64 ComponentType = 0xA // ComponentFloat64 is an IEEE 754 double precision float.
)

const (
	ElementScalar  ElementType = 0x1
	ElementVec2    ElementType = 0x2
	ElementVec3    ElementType = 0x3
	ElementVec4    ElementType = 0x4
	ElementMat2    ElementType = 0x5
	ElementMat3    ElementType = 0x6
	ElementMat4    ElementType = 0x7
	ElementString  ElementType = 0x8
	ElementBoolean ElementType = 0x9
	ElementEnum    ElementType = 0xA
)

// ComponentTypes lists every concrete component type in declaration order.
var ComponentTypes = []ComponentType{
	ComponentInt8, ComponentUint8,
	ComponentInt16, ComponentUint16,
	ComponentInt32, ComponentUint32,
	ComponentInt64, ComponentUint64,
	ComponentFloat32, ComponentFloat64,
}

func (c ComponentType) String() string {
	switch c {
	case ComponentNone:
		return "NONE"
	case ComponentInt8:
		return "INT8"
	case ComponentUint8:
		return "UINT8"
	case ComponentInt16:
		return "INT16"
	case ComponentUint16:
		return "UINT16"
	case ComponentInt32:
		return "INT32"
	case ComponentUint32:
		return "UINT32"
	case ComponentInt64:
		return "INT64"
	case ComponentUint64:
		return "UINT64"
	case ComponentFloat32:
		return "FLOAT32"
	case ComponentFloat64:
		return "FLOAT64"
	default:
		return "UNKNOWN"
	}
}

// Size returns the fixed byte width of one component, or 0 for ComponentNone
// and unknown values.
func (c ComponentType) Size() int {
	switch c {
	case ComponentInt8, ComponentUint8:
		return 1
	case ComponentInt16, ComponentUint16:
		return 2
	case ComponentInt32, ComponentUint32, ComponentFloat32:
		return 4
	case ComponentInt64, ComponentUint64, ComponentFloat64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether c is one of the ten concrete component types.
func (c ComponentType) Valid() bool {
	return c >= ComponentInt8 && c <= ComponentFloat64
}

// IsInteger reports whether c is a signed or unsigned integer type.
func (c ComponentType) IsInteger() bool {
	return c >= ComponentInt8 && c <= ComponentUint64
}

// IsUnsigned reports whether c is an unsigned integer type.
func (c ComponentType) IsUnsigned() bool {
	switch c {
	case ComponentUint8, ComponentUint16, ComponentUint32, ComponentUint64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether c is FLOAT32 or FLOAT64.
func (c ComponentType) IsFloat() bool {
	return c == ComponentFloat32 || c == ComponentFloat64
}

// MaxUint returns the largest value an unsigned component type can hold, or 0
// for any other type.
func (c ComponentType) MaxUint() uint64 {
	switch c {
	case ComponentUint8:
		return math.MaxUint8
	case ComponentUint16:
		return math.MaxUint16
	case ComponentUint32:
		return math.MaxUint32
	case ComponentUint64:
		return math.MaxUint64
	default:
		return 0
	}
}

// ParseComponentType returns the component type named s ("UINT32", ...).
func ParseComponentType(s string) (ComponentType, bool) {
	for _, c := range ComponentTypes {
		if c.String() == s {
			return c, true
		}
	}

	return ComponentNone, false
}

func (e ElementType) String() string {
	switch e {
	case ElementScalar:
		return "SCALAR"
	case ElementVec2:
		return "VEC2"
	case ElementVec3:
		return "VEC3"
	case ElementVec4:
		return "VEC4"
	case ElementMat2:
		return "MAT2"
	case ElementMat3:
		return "MAT3"
	case ElementMat4:
		return "MAT4"
	case ElementString:
		return "STRING"
	case ElementBoolean:
		return "BOOLEAN"
	case ElementEnum:
		return "ENUM"
	default:
		return "UNKNOWN"
	}
}

// ComponentCount returns the number of components in one element.
// STRING, BOOLEAN and ENUM count as a single component.
func (e ElementType) ComponentCount() int {
	switch e {
	case ElementVec2:
		return 2
	case ElementVec3:
		return 3
	case ElementVec4, ElementMat2:
		return 4
	case ElementMat3:
		return 9
	case ElementMat4:
		return 16
	case ElementScalar, ElementString, ElementBoolean, ElementEnum:
		return 1
	default:
		return 0
	}
}

// IsNumeric reports whether e is SCALAR, VECn or MATn.
func (e ElementType) IsNumeric() bool {
	return e >= ElementScalar && e <= ElementMat4
}

// Valid reports whether e is a known element type.
func (e ElementType) Valid() bool {
	return e >= ElementScalar && e <= ElementEnum
}

// ParseElementType returns the element type named s ("VEC3", ...).
func ParseElementType(s string) (ElementType, bool) {
	for e := ElementScalar; e <= ElementEnum; e++ {
		if e.String() == s {
			return e, true
		}
	}

	return 0, false
}
