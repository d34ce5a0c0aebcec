//go:build windows

package mapi

import (
	"testing"
	"unsafe"

	"github.com/0xrawsec/toast"
)

func TestCbNewSizes(t *testing.T) {
	t.Parallel()

	tt := toast.FromT(t)

	// Growth per element matches the C element sizes on any platform.
	tt.Assert(CbNewSPropTagArray(3) == CbNewSPropTagArray(0)+3*4)
	tt.Assert(CbNewSSortOrderSet(2) == CbNewSSortOrderSet(0)+2*uint32(unsafe.Sizeof(SSortOrder{})))
	tt.Assert(CbNewSRowSet(2) == CbNewSRowSet(0)+2*uint32(unsafe.Sizeof(SRow{})))
	tt.Assert(CbNewENTRYID(16) == CbNewENTRYID(0)+16)

	// The one-element declarations cover the one-element sizes.
	tt.Assert(uintptr(CbNewSPropTagArray(1)) == unsafe.Sizeof(SPropTagArray{}))
	tt.Assert(uintptr(CbNewSSortOrderSet(1)) == unsafe.Sizeof(SSortOrderSet{}))
}

func TestNewPropTagArray(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	tags, err := NewPropTagArray(PR_ENTRYID, PR_DISPLAY_NAME_W)
	tt.CheckErr(err)

	arr := tags.Ptr()
	tt.Assert(arr.CValues == 2)
	got := arr.Tags()
	tt.Assert(got[0] == PR_ENTRYID)
	tt.Assert(got[1] == PR_DISPLAY_NAME_W)

	tt.CheckErr(tags.Free())
	tt.Assert(a.live() == 0)
}

func TestNewSortOrderSet(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	sort, err := NewSortOrderSet(0, 0, SSortOrder{
		UlPropTag: uint32(PR_DISPLAY_NAME_W),
		UlOrder:   TABLE_SORT_ASCEND,
	})
	tt.CheckErr(err)

	set := sort.Ptr()
	tt.Assert(set.CSorts == 1)
	tt.Assert(set.CCategories == 0)
	tt.Assert(set.ASort[0].UlPropTag == uint32(PR_DISPLAY_NAME_W))

	tt.CheckErr(sort.Free())
	tt.Assert(a.live() == 0)

	// Categorized-sort counts must be consistent.
	_, err = NewSortOrderSet(2, 0)
	tt.ExpectErr(err, MAPI_E_TOO_COMPLEX)
	_, err = NewSortOrderSet(1, 2, SSortOrder{})
	tt.ExpectErr(err, MAPI_E_TOO_COMPLEX)
}
