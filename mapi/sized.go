//go:build windows

package mapi

import (
	"fmt"
	"unsafe"
)

// Several MAPI structs end in a variable-length array declared with one
// element. Their real size is the offset of that array plus count elements;
// the CbNew helpers compute it and the builders allocate the struct through
// the MAPI allocator so it can be handed to calls that keep it.

// CbNewSPropTagArray returns the allocation size for count tags.
func CbNewSPropTagArray(count int) uint32 {
	return uint32(unsafe.Offsetof(SPropTagArray{}.AulPropTag) +
		uintptr(count)*unsafe.Sizeof(uint32(0)))
}

// CbNewSSortOrderSet returns the allocation size for count sort orders.
func CbNewSSortOrderSet(count int) uint32 {
	return uint32(unsafe.Offsetof(SSortOrderSet{}.ASort) +
		uintptr(count)*unsafe.Sizeof(SSortOrder{}))
}

// CbNewSRowSet returns the allocation size for count rows.
func CbNewSRowSet(count int) uint32 {
	return uint32(unsafe.Offsetof(SRowSet{}.ARow) +
		uintptr(count)*unsafe.Sizeof(SRow{}))
}

// CbNewENTRYID returns the allocation size for count identifier bytes.
func CbNewENTRYID(count int) uint32 {
	return uint32(unsafe.Offsetof(ENTRYID{}.Ab) + uintptr(count))
}

// PropTagArrayBuffer is a MAPI-allocated SPropTagArray.
type PropTagArrayBuffer struct {
	buf *RawBuffer
	arr *SPropTagArray
}

// NewPropTagArray allocates and fills a tag array for a column request.
func NewPropTagArray(tags ...PropTag) (*PropTagArrayBuffer, error) {
	buf, err := AllocBuffer(CbNewSPropTagArray(len(tags)))
	if err != nil {
		return nil, fmt.Errorf("mapi: tag array: %w", err)
	}
	arr := (*SPropTagArray)(buf.Ptr())
	arr.CValues = uint32(len(tags))
	if len(tags) > 0 {
		dst := unsafe.Slice((*PropTag)(unsafe.Pointer(&arr.AulPropTag[0])), len(tags))
		copy(dst, tags)
	}
	return &PropTagArrayBuffer{buf: buf, arr: arr}, nil
}

// Ptr returns the array for passing to a MAPI call.
func (p *PropTagArrayBuffer) Ptr() *SPropTagArray {
	return p.arr
}

// Free releases the allocation.
func (p *PropTagArrayBuffer) Free() error {
	return p.buf.Free()
}

// SortOrderSetBuffer is a MAPI-allocated SSortOrderSet.
type SortOrderSetBuffer struct {
	buf *RawBuffer
	set *SSortOrderSet
}

// NewSortOrderSet allocates and fills a sort specification. categories and
// expanded follow the MAPI categorized-sort rules and are usually 0.
func NewSortOrderSet(categories, expanded uint32, orders ...SSortOrder) (*SortOrderSetBuffer, error) {
	if expanded > categories || int(categories) > len(orders) {
		return nil, fmt.Errorf("mapi: sort order set: %w", MAPI_E_TOO_COMPLEX)
	}
	buf, err := AllocBuffer(CbNewSSortOrderSet(len(orders)))
	if err != nil {
		return nil, fmt.Errorf("mapi: sort order set: %w", err)
	}
	set := (*SSortOrderSet)(buf.Ptr())
	set.CSorts = uint32(len(orders))
	set.CCategories = categories
	set.CExpanded = expanded
	if len(orders) > 0 {
		dst := unsafe.Slice(&set.ASort[0], len(orders))
		copy(dst, orders)
	}
	return &SortOrderSetBuffer{buf: buf, set: set}, nil
}

// Ptr returns the set for passing to a MAPI call.
func (s *SortOrderSetBuffer) Ptr() *SSortOrderSet {
	return s.set
}

// Free releases the allocation.
func (s *SortOrderSetBuffer) Free() error {
	return s.buf.Free()
}
