//go:build windows
// +build windows

package mapi

import "fmt"

// PropTag packs a property identifier (high word) with a property type code
// (low word). Construction never fails: any uint32 is a structurally valid
// tag, even when the type code is one this layer does not recognize.
type PropTag uint32

// PropTagFor builds a tag from a type code and a property identifier.
func PropTagFor(t PropType, id uint16) PropTag {
	return PropTag(uint32(id)<<16 | uint32(t))
}

// PropType returns the type code in the low word.
func (tag PropTag) PropType() PropType {
	return PropType(tag & 0xFFFF)
}

// PropID returns the property identifier in the high word.
func (tag PropTag) PropID() uint16 {
	return uint16(tag >> 16)
}

// ChangePropType keeps the identifier and swaps the type code. Used to
// request the same property as a different representation, e.g. PT_UNICODE
// instead of PT_STRING8.
func (tag PropTag) ChangePropType(t PropType) PropTag {
	return PropTagFor(t, tag.PropID())
}

func (tag PropTag) String() string {
	return fmt.Sprintf("0x%08X", uint32(tag))
}

// PropType is a 16-bit property type code. The raw value is preserved as is;
// classification into the known set goes through Kind, which is total and
// never rejects a code.
type PropType uint16

// IsMultiValue reports the MV_FLAG bit.
func (t PropType) IsMultiValue() bool {
	return t&MV_FLAG != 0
}

// Base strips the MV_FLAG and MV_INSTANCE bits, leaving the element type.
func (t PropType) Base() PropType {
	return t &^ MVI_FLAG
}

func (t PropType) String() string {
	k := t.Kind()
	if k == KindUnknown {
		return fmt.Sprintf("PT(0x%04X)", uint16(t))
	}
	if t.IsMultiValue() {
		return "MV " + k.String()
	}
	return k.String()
}

// PropKind classifies a property type's element kind. Every PropType maps to
// exactly one PropKind; codes outside the known set map to KindUnknown while
// the PropType keeps the raw code.
type PropKind uint8

const (
	KindUnknown PropKind = iota
	KindUnspecified
	KindNull
	KindShort
	KindLong
	KindFloat
	KindDouble
	KindCurrency
	KindAppTime
	KindError
	KindBoolean
	KindObject
	KindLargeInteger
	KindAnsiString
	KindUnicode
	KindSysTime
	KindGuid
	KindBinary
	KindPointer
)

var propKindNames = [...]string{
	KindUnknown:      "unknown",
	KindUnspecified:  "unspecified",
	KindNull:         "null",
	KindShort:        "short",
	KindLong:         "long",
	KindFloat:        "float",
	KindDouble:       "double",
	KindCurrency:     "currency",
	KindAppTime:      "apptime",
	KindError:        "error",
	KindBoolean:      "boolean",
	KindObject:       "object",
	KindLargeInteger: "largeint",
	KindAnsiString:   "string8",
	KindUnicode:      "unicode",
	KindSysTime:      "systime",
	KindGuid:         "guid",
	KindBinary:       "binary",
	KindPointer:      "pointer",
}

func (k PropKind) String() string {
	if int(k) < len(propKindNames) {
		return propKindNames[k]
	}
	return "unknown"
}

// Kind classifies the element type, ignoring the MV bits. PT_NULL and
// PT_OBJECT are distinct kinds. Unrecognized codes classify as KindUnknown.
func (t PropType) Kind() PropKind {
	switch t.Base() {
	case PT_UNSPECIFIED:
		return KindUnspecified
	case PT_NULL:
		return KindNull
	case PT_I2:
		return KindShort
	case PT_LONG:
		return KindLong
	case PT_R4:
		return KindFloat
	case PT_DOUBLE:
		return KindDouble
	case PT_CURRENCY:
		return KindCurrency
	case PT_APPTIME:
		return KindAppTime
	case PT_ERROR:
		return KindError
	case PT_BOOLEAN:
		return KindBoolean
	case PT_OBJECT:
		return KindObject
	case PT_I8:
		return KindLargeInteger
	case PT_STRING8:
		return KindAnsiString
	case PT_UNICODE:
		return KindUnicode
	case PT_SYSTIME:
		return KindSysTime
	case PT_CLSID:
		return KindGuid
	case PT_BINARY:
		return KindBinary
	case PT_PTR:
		return KindPointer
	default:
		return KindUnknown
	}
}
