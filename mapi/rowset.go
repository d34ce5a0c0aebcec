//go:build windows

package mapi

import "fmt"

// RowSet owns the SRowSet allocation a table query fills in. Rows can be
// taken out one by one, transferring ownership of their property arrays to
// the caller; Free releases the set and every row still in it through
// FreeProws.
type RowSet struct {
	rows *SRowSet
}

// Out returns the out-param location for HrQueryAllRows. Filling it a
// second time without freeing first would leak, so the set must be empty.
func (rs *RowSet) Out() **SRowSet {
	if rs.rows != nil {
		panic("mapi: row set already holds rows")
	}
	return &rs.rows
}

// Len returns the number of rows remaining in the set.
func (rs *RowSet) Len() int {
	if rs.rows == nil {
		return 0
	}
	return int(rs.rows.CRows)
}

// IsEmpty reports whether the set holds no rows.
func (rs *RowSet) IsEmpty() bool {
	return rs.Len() == 0
}

// Take transfers the i-th row's property array out of the set. The returned
// Row must be freed by the caller; the slot left behind is empty and
// FreeProws skips it.
func (rs *RowSet) Take(i int) (Row, error) {
	if rs.rows == nil || i < 0 || i >= int(rs.rows.CRows) {
		return Row{}, fmt.Errorf("mapi: row %d out of range", i)
	}
	return takeRow(&rs.rows.rows()[i]), nil
}

// TakeAll drains the set into caller-owned rows.
func (rs *RowSet) TakeAll() []Row {
	if rs.rows == nil {
		return nil
	}
	src := rs.rows.rows()
	out := make([]Row, len(src))
	for i := range src {
		out[i] = takeRow(&src[i])
	}
	return out
}

// Free releases the set and the property arrays of all rows not taken.
// Idempotent.
func (rs *RowSet) Free() error {
	if rs.rows == nil {
		return nil
	}
	p := rs.rows
	rs.rows = nil
	if err := freeProws(p); err != nil {
		logTeardownFailure("FreeProws", err)
		return fmt.Errorf("mapi: free row set: %w", err)
	}
	return nil
}
