//go:build windows

package mapi

import (
	"fmt"
	"unsafe"
)

// Row owns the property array of one table row after it was taken out of
// its RowSet. The SPropValue array is a single MAPI allocation; Free
// releases it exactly once.
type Row struct {
	count int
	props *SPropValue
	freed bool
}

// takeRow steals the property array out of an SRow so FreeProws will not
// release it with the rest of the set.
func takeRow(r *SRow) Row {
	row := Row{count: int(r.CValues), props: r.LpProps}
	r.CValues = 0
	r.LpProps = nil
	return row
}

// Len returns the number of properties in the row.
func (r *Row) Len() int {
	if r.freed {
		return 0
	}
	return r.count
}

// IsEmpty reports whether the row carries no properties.
func (r *Row) IsEmpty() bool {
	return r.Len() == 0
}

// propAt returns the i-th SPropValue of the row's array.
func (r *Row) propAt(i int) *SPropValue {
	return (*SPropValue)(unsafe.Pointer(
		uintptr(unsafe.Pointer(r.props)) + uintptr(i)*unsafe.Sizeof(SPropValue{})))
}

// ValueAt decodes the i-th property. A malformed property fails with
// ErrMalformedProperty; the caller can skip it and read the others.
func (r *Row) ValueAt(i int) (PropValue, error) {
	if r.freed || i < 0 || i >= r.count {
		return PropValue{}, fmt.Errorf("mapi: row property %d out of range", i)
	}
	return r.propAt(i).PropValue()
}

// Values decodes every property of the row. Malformed properties are left
// out of the result and reported through the returned error; the slice is
// still usable when err != nil.
func (r *Row) Values() ([]PropValue, error) {
	return r.ValuesMatching(nil)
}

// ValuesMatching decodes the properties whose tags pass the filter. A nil
// filter keeps everything.
func (r *Row) ValuesMatching(f *TagFilter) ([]PropValue, error) {
	if r.freed {
		return nil, nil
	}
	var firstErr error
	out := make([]PropValue, 0, r.count)
	for i := 0; i < r.count; i++ {
		pv, err := r.propAt(i).PropValue()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if f.Match(pv.Tag) {
			out = append(out, pv)
		}
	}
	return out, firstErr
}

// Free releases the row's property allocation. Idempotent; decoded values
// aliasing the allocation become invalid.
func (r *Row) Free() error {
	if r.freed {
		return nil
	}
	r.freed = true
	if r.props == nil {
		return nil
	}
	p := unsafe.Pointer(r.props)
	r.props = nil
	if err := mapiFreeBuffer(p); err != nil {
		logTeardownFailure("MAPIFreeBuffer", err)
		return fmt.Errorf("mapi: free row: %w", err)
	}
	return nil
}
