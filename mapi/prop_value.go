//go:build windows

package mapi

import (
	"bytes"
	"fmt"
	"slices"
	"unsafe"

	"golang.org/x/sys/windows"
)

// PropValue is a decoded property: the tag plus one concrete data variant.
// Decoding is total over all 2^16 type codes; values this layer does not
// recognize come back as PropUnknown rather than an error.
//
// Pointer-bearing variants (strings, binaries, the aliased arrays) point
// into the allocation that owns the SPropValue. They stay valid only while
// that allocation is alive and must never be freed on their own.
type PropValue struct {
	Tag  PropTag
	Data PropValueData
}

// PropValueData is the closed set of property data variants.
type PropValueData interface {
	isPropValueData()
}

type (
	// PropNull is a PT_NULL placeholder value.
	PropNull struct{}
	// PropShort is a PT_I2 value.
	PropShort int16
	// PropLong is a PT_LONG value.
	PropLong int32
	// PropPointer is a PT_PTR / PT_FILE_HANDLE value.
	PropPointer uintptr
	// PropFloat is a PT_R4 value.
	PropFloat float32
	// PropDouble is a PT_DOUBLE value.
	PropDouble float64
	// PropBoolean is a PT_BOOLEAN value. The wire carries a 16-bit word and
	// nonzero values other than 1 occur in the wild, so the raw word is kept.
	PropBoolean uint16
	// PropCurrency is a PT_CURRENCY value in 1/10000 units.
	PropCurrency int64
	// PropAppTime is a PT_APPTIME value (OLE automation date).
	PropAppTime float64
	// PropSysTime is a PT_SYSTIME value.
	PropSysTime FileTime
	// PropAnsiString aliases a null terminated ANSI string in the owning
	// allocation.
	PropAnsiString struct{ p *byte }
	// PropUnicode aliases a null terminated UTF-16 string in the owning
	// allocation.
	PropUnicode struct{ p *uint16 }
	// PropBinary aliases the counted bytes of a PT_BINARY value.
	PropBinary []byte
	// PropGuid is a PT_CLSID value, copied out of the allocation.
	PropGuid GUID
	// PropLargeInteger is a PT_I8 value.
	PropLargeInteger int64
	// PropError is a PT_ERROR status code, e.g. a column the provider could
	// not return. It is data about the property, never a failure of decoding.
	PropError HResult
	// PropObject is a PT_OBJECT marker value. Distinct from PropNull: it
	// means the property must be opened as a COM object.
	PropObject int32

	// Multi-value variants. Short/long/float/binary/string arrays alias the
	// owning allocation; the 8-byte element arrays are copied out because
	// MAPI only guarantees 4-byte alignment for them.

	// PropShortArray aliases a PT_MV_I2 array.
	PropShortArray []int16
	// PropLongArray aliases a PT_MV_LONG array.
	PropLongArray []int32
	// PropFloatArray aliases a PT_MV_R4 array.
	PropFloatArray []float32
	// PropDoubleArray is a PT_MV_DOUBLE array, copied.
	PropDoubleArray []float64
	// PropCurrencyArray is a PT_MV_CURRENCY array, copied.
	PropCurrencyArray []int64
	// PropAppTimeArray is a PT_MV_APPTIME array, copied.
	PropAppTimeArray []float64
	// PropSysTimeArray is a PT_MV_SYSTIME array, copied.
	PropSysTimeArray []FileTime
	// PropBinaryArray aliases the counted buffers of a PT_MV_BINARY array.
	PropBinaryArray []PropBinary
	// PropAnsiStringArray aliases the strings of a PT_MV_STRING8 array.
	PropAnsiStringArray []PropAnsiString
	// PropUnicodeArray aliases the strings of a PT_MV_UNICODE array.
	PropUnicodeArray []PropUnicode
	// PropGuidArray is a PT_MV_CLSID array, copied.
	PropGuidArray []GUID
	// PropLargeIntegerArray is a PT_MV_I8 array, copied.
	PropLargeIntegerArray []int64

	// PropUnknown preserves a type code outside the known set together with
	// the raw union bytes, so nothing is lost on a round trip.
	PropUnknown struct {
		Type PropType
		Raw  [16]byte
	}
)

func (PropNull) isPropValueData()              {}
func (PropShort) isPropValueData()             {}
func (PropLong) isPropValueData()              {}
func (PropPointer) isPropValueData()           {}
func (PropFloat) isPropValueData()             {}
func (PropDouble) isPropValueData()            {}
func (PropBoolean) isPropValueData()           {}
func (PropCurrency) isPropValueData()          {}
func (PropAppTime) isPropValueData()           {}
func (PropSysTime) isPropValueData()           {}
func (PropAnsiString) isPropValueData()        {}
func (PropUnicode) isPropValueData()           {}
func (PropBinary) isPropValueData()            {}
func (PropGuid) isPropValueData()              {}
func (PropLargeInteger) isPropValueData()      {}
func (PropError) isPropValueData()             {}
func (PropObject) isPropValueData()            {}
func (PropShortArray) isPropValueData()        {}
func (PropLongArray) isPropValueData()         {}
func (PropFloatArray) isPropValueData()        {}
func (PropDoubleArray) isPropValueData()       {}
func (PropCurrencyArray) isPropValueData()     {}
func (PropAppTimeArray) isPropValueData()      {}
func (PropSysTimeArray) isPropValueData()      {}
func (PropBinaryArray) isPropValueData()       {}
func (PropAnsiStringArray) isPropValueData()   {}
func (PropUnicodeArray) isPropValueData()      {}
func (PropGuidArray) isPropValueData()         {}
func (PropLargeIntegerArray) isPropValueData() {}
func (PropUnknown) isPropValueData()           {}

// NewPropAnsiString wraps a null terminated ANSI pointer.
func NewPropAnsiString(p *byte) PropAnsiString { return PropAnsiString{p} }

// NewPropUnicode wraps a null terminated UTF-16 pointer.
func NewPropUnicode(p *uint16) PropUnicode { return PropUnicode{p} }

// Ptr returns the raw string pointer.
func (s PropAnsiString) Ptr() *byte { return s.p }

// String copies the ANSI bytes into a Go string.
func (s PropAnsiString) String() string {
	return ansiPtrToString(s.p)
}

// Ptr returns the raw string pointer.
func (s PropUnicode) Ptr() *uint16 { return s.p }

// String converts the UTF-16 data into a Go string.
func (s PropUnicode) String() string {
	return windows.UTF16PtrToString(s.p)
}

// mvView is the common {cValues, lp} head shared by all multi-value union
// members.
type mvView struct {
	cValues uint32
	lp      unsafe.Pointer
}

// malformed builds the per-tag decode error.
func malformed(tag PropTag) error {
	return fmt.Errorf("%w: tag %v carries a null pointer", ErrMalformedProperty, tag)
}

// PropValue decodes the union according to the tag's type code.
//
// A null pointer inside a pointer-bearing variant is a malformed property:
// the decode fails with ErrMalformedProperty and the caller may skip just
// that property. An unrecognized type code is NOT an error; it decodes to
// PropUnknown.
func (v *SPropValue) PropValue() (PropValue, error) {
	tag := PropTag(v.ULPropTag)
	u := v.union()

	var data PropValueData
	switch tag.PropType() &^ MV_INSTANCE {
	case PT_NULL:
		data = PropNull{}
	case PT_I2:
		data = PropShort(*(*int16)(u))
	case PT_LONG:
		data = PropLong(*(*int32)(u))
	case PT_PTR:
		data = PropPointer(*(*uintptr)(u))
	case PT_R4:
		data = PropFloat(*(*float32)(u))
	case PT_DOUBLE:
		data = PropDouble(*(*float64)(u))
	case PT_BOOLEAN:
		data = PropBoolean(*(*uint16)(u))
	case PT_CURRENCY:
		data = PropCurrency(*(*int64)(u))
	case PT_APPTIME:
		data = PropAppTime(*(*float64)(u))
	case PT_SYSTIME:
		data = PropSysTime(*(*FileTime)(u))
	case PT_I8:
		data = PropLargeInteger(*(*int64)(u))
	case PT_ERROR:
		data = PropError(HResult(*(*uint32)(u)))
	case PT_OBJECT:
		data = PropObject(*(*int32)(u))
	case PT_STRING8:
		p := *(**byte)(u)
		if p == nil {
			return PropValue{}, malformed(tag)
		}
		data = PropAnsiString{p}
	case PT_UNICODE:
		p := *(**uint16)(u)
		if p == nil {
			return PropValue{}, malformed(tag)
		}
		data = PropUnicode{p}
	case PT_CLSID:
		p := *(**GUID)(u)
		if p == nil {
			return PropValue{}, malformed(tag)
		}
		data = PropGuid(*p)
	case PT_BINARY:
		b := (*SBinary)(u)
		if b.Lpb == nil {
			return PropValue{}, malformed(tag)
		}
		data = PropBinary(unsafe.Slice(b.Lpb, b.Cb))

	case PT_MV_I2:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		data = PropShortArray(unsafe.Slice((*int16)(mv.lp), mv.cValues))
	case PT_MV_LONG:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		data = PropLongArray(unsafe.Slice((*int32)(mv.lp), mv.cValues))
	case PT_MV_R4:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		data = PropFloatArray(unsafe.Slice((*float32)(mv.lp), mv.cValues))
	case PT_MV_DOUBLE:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		data = PropDoubleArray(copyMV[float64](mv))
	case PT_MV_CURRENCY:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		data = PropCurrencyArray(copyMV[int64](mv))
	case PT_MV_APPTIME:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		data = PropAppTimeArray(copyMV[float64](mv))
	case PT_MV_SYSTIME:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		data = PropSysTimeArray(copyMV[FileTime](mv))
	case PT_MV_CLSID:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		data = PropGuidArray(copyMV[GUID](mv))
	case PT_MV_I8:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		data = PropLargeIntegerArray(copyMV[int64](mv))
	case PT_MV_BINARY:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		bins := unsafe.Slice((*SBinary)(mv.lp), mv.cValues)
		out := make(PropBinaryArray, len(bins))
		for i := range bins {
			if bins[i].Lpb == nil {
				return PropValue{}, malformed(tag)
			}
			out[i] = PropBinary(unsafe.Slice(bins[i].Lpb, bins[i].Cb))
		}
		data = out
	case PT_MV_STRING8:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		ptrs := unsafe.Slice((**byte)(mv.lp), mv.cValues)
		out := make(PropAnsiStringArray, len(ptrs))
		for i, p := range ptrs {
			if p == nil {
				return PropValue{}, malformed(tag)
			}
			out[i] = PropAnsiString{p}
		}
		data = out
	case PT_MV_UNICODE:
		mv, err := v.mv(tag)
		if err != nil {
			return PropValue{}, err
		}
		ptrs := unsafe.Slice((**uint16)(mv.lp), mv.cValues)
		out := make(PropUnicodeArray, len(ptrs))
		for i, p := range ptrs {
			if p == nil {
				return PropValue{}, malformed(tag)
			}
			out[i] = PropUnicode{p}
		}
		data = out

	default:
		unk := PropUnknown{Type: tag.PropType()}
		copy(unk.Raw[:], unsafe.Slice((*byte)(u), unsafe.Sizeof(v.Value)))
		data = unk
	}

	return PropValue{Tag: tag, Data: data}, nil
}

// mv reads the multi-value head, rejecting a null element pointer.
func (v *SPropValue) mv(tag PropTag) (*mvView, error) {
	mv := (*mvView)(v.union())
	if mv.lp == nil {
		return nil, malformed(tag)
	}
	return mv, nil
}

// copyMV copies an 8-byte-element array out of the allocation.
func copyMV[T any](mv *mvView) []T {
	out := make([]T, mv.cValues)
	copy(out, unsafe.Slice((*T)(mv.lp), mv.cValues))
	return out
}

// Encode writes the value back into an SPropValue. Aliased variants store
// their original pointers, so a decode/encode round trip reproduces the
// source union for every aliasing kind. The copied array kinds would need a
// fresh chained allocation to re-encode and are rejected.
func (pv PropValue) Encode(dst *SPropValue) error {
	dst.ULPropTag = uint32(pv.Tag)
	dst.DwAlignPad = 0
	dst.Value = [2]uintptr{}
	u := dst.union()

	switch d := pv.Data.(type) {
	case PropNull:
		// Union stays zero.
	case PropShort:
		*(*int16)(u) = int16(d)
	case PropLong:
		*(*int32)(u) = int32(d)
	case PropPointer:
		*(*uintptr)(u) = uintptr(d)
	case PropFloat:
		*(*float32)(u) = float32(d)
	case PropDouble:
		*(*float64)(u) = float64(d)
	case PropBoolean:
		*(*uint16)(u) = uint16(d)
	case PropCurrency:
		*(*int64)(u) = int64(d)
	case PropAppTime:
		*(*float64)(u) = float64(d)
	case PropSysTime:
		*(*FileTime)(u) = FileTime(d)
	case PropLargeInteger:
		*(*int64)(u) = int64(d)
	case PropError:
		*(*uint32)(u) = uint32(d)
	case PropObject:
		*(*int32)(u) = int32(d)
	case PropAnsiString:
		if d.p == nil {
			return malformed(pv.Tag)
		}
		*(**byte)(u) = d.p
	case PropUnicode:
		if d.p == nil {
			return malformed(pv.Tag)
		}
		*(**uint16)(u) = d.p
	case PropBinary:
		if d == nil {
			return malformed(pv.Tag)
		}
		b := (*SBinary)(u)
		b.Cb = uint32(len(d))
		b.Lpb = unsafe.SliceData(d)
	case PropShortArray:
		encodeMV(u, d)
	case PropLongArray:
		encodeMV(u, d)
	case PropFloatArray:
		encodeMV(u, d)
	case PropUnknown:
		copy(unsafe.Slice((*byte)(u), unsafe.Sizeof(dst.Value)), d.Raw[:])
	default:
		return fmt.Errorf("mapi: cannot re-encode %T without a chained allocation", pv.Data)
	}
	return nil
}

// encodeMV stores an aliased multi-value head pointing at the slice data.
func encodeMV[T any](u unsafe.Pointer, s []T) {
	mv := (*mvView)(u)
	mv.cValues = uint32(len(s))
	mv.lp = unsafe.Pointer(unsafe.SliceData(s))
}

// Equal compares two values structurally. String variants compare their
// decoded text, binaries their bytes, copied arrays their elements. Aliased
// pointer identity does not matter.
func (pv PropValue) Equal(other PropValue) bool {
	if pv.Tag != other.Tag {
		return false
	}
	switch a := pv.Data.(type) {
	case PropAnsiString:
		b, ok := other.Data.(PropAnsiString)
		return ok && a.String() == b.String()
	case PropUnicode:
		b, ok := other.Data.(PropUnicode)
		return ok && a.String() == b.String()
	case PropBinary:
		b, ok := other.Data.(PropBinary)
		return ok && bytes.Equal(a, b)
	case PropShortArray:
		b, ok := other.Data.(PropShortArray)
		return ok && slices.Equal(a, b)
	case PropLongArray:
		b, ok := other.Data.(PropLongArray)
		return ok && slices.Equal(a, b)
	case PropFloatArray:
		b, ok := other.Data.(PropFloatArray)
		return ok && slices.Equal(a, b)
	case PropDoubleArray:
		b, ok := other.Data.(PropDoubleArray)
		return ok && slices.Equal(a, b)
	case PropCurrencyArray:
		b, ok := other.Data.(PropCurrencyArray)
		return ok && slices.Equal(a, b)
	case PropAppTimeArray:
		b, ok := other.Data.(PropAppTimeArray)
		return ok && slices.Equal(a, b)
	case PropSysTimeArray:
		b, ok := other.Data.(PropSysTimeArray)
		return ok && slices.Equal(a, b)
	case PropGuidArray:
		b, ok := other.Data.(PropGuidArray)
		return ok && slices.Equal(a, b)
	case PropLargeIntegerArray:
		b, ok := other.Data.(PropLargeIntegerArray)
		return ok && slices.Equal(a, b)
	case PropBinaryArray:
		b, ok := other.Data.(PropBinaryArray)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !bytes.Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case PropAnsiStringArray:
		b, ok := other.Data.(PropAnsiStringArray)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i].String() != b[i].String() {
				return false
			}
		}
		return true
	case PropUnicodeArray:
		b, ok := other.Data.(PropUnicodeArray)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i].String() != b[i].String() {
				return false
			}
		}
		return true
	default:
		return pv.Data == other.Data
	}
}
