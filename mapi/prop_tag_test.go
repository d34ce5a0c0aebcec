//go:build windows

package mapi

import (
	"fmt"
	"testing"

	"github.com/0xrawsec/toast"
)

func TestPropTagSplit(t *testing.T) {
	t.Parallel()

	tt := toast.FromT(t)

	// PR_SUBJECT_A: id 0x0037, type PT_STRING8
	tag := PropTag(0x0037001E)
	tt.Assert(tag.PropID() == 0x0037)
	tt.Assert(tag.PropType() == PT_STRING8)
	tt.Assert(tag == PR_SUBJECT_A)

	tt.Assert(PropTagFor(PT_STRING8, 0x0037) == tag)
	tt.Assert(tag.ChangePropType(PT_UNICODE) == PR_SUBJECT_W)
	tt.Assert(tag.ChangePropType(PT_UNICODE).PropID() == tag.PropID())

	// Round trip through split and rebuild for a spread of ids and types.
	for _, tag := range []PropTag{0, 1, PR_ENTRYID, PR_DISPLAY_NAME_W, 0xFFFFFFFF} {
		tt.Assert(PropTagFor(tag.PropType(), tag.PropID()) == tag)
	}

	tt.Assert(tag.String() == "0x0037001E")
}

func TestPropTypeMultiValue(t *testing.T) {
	t.Parallel()

	tt := toast.FromT(t)

	tt.Assert(!PropType(PT_LONG).IsMultiValue())
	tt.Assert(PropType(PT_MV_LONG).IsMultiValue())
	tt.Assert(PropType(PT_MV_LONG).Base() == PT_LONG)
	tt.Assert(PropType(PT_MV_LONG).Kind() == KindLong)
	tt.Assert(PropType(PT_LONG|MV_INSTANCE).Base() == PT_LONG)
}

func TestPropTypeKindTotal(t *testing.T) {
	t.Parallel()

	tt := toast.FromT(t)

	// Classification must be total: every possible code maps to a kind and
	// unknown codes keep their raw value.
	known := 0
	for code := 0; code <= 0xFFFF; code++ {
		pt := PropType(code)
		k := pt.Kind()
		tt.Assert(k.String() != "")
		if k != KindUnknown {
			known++
			continue
		}
		// The raw code survives classification.
		tt.Assert(uint16(pt) == uint16(code))
	}
	// 18 base kinds (excluding unknown), each in plain, MV, MVI and
	// MV_INSTANCE-only spellings.
	tt.Assert(known == 18*4, fmt.Sprintf("classified %d codes as known", known))
}

func TestPropTypeNullVsObject(t *testing.T) {
	t.Parallel()

	tt := toast.FromT(t)

	tt.Assert(PropType(PT_NULL).Kind() == KindNull)
	tt.Assert(PropType(PT_OBJECT).Kind() == KindObject)
	tt.Assert(PropType(PT_NULL).Kind() != PropType(PT_OBJECT).Kind())

	// PT_PTR aliases PT_FILE_HANDLE and is its own kind.
	tt.Assert(PropType(PT_PTR).Kind() == KindPointer)
	tt.Assert(PT_PTR == PT_FILE_HANDLE)
}

func TestPropTypeUnknownPreserved(t *testing.T) {
	t.Parallel()

	tt := toast.FromT(t)

	pt := PropType(0x01FE)
	tt.Assert(pt.Kind() == KindUnknown)
	tt.Assert(uint16(pt) == 0x01FE)
	tt.Assert(pt.String() == "PT(0x01FE)")
}
