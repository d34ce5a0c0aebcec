//go:build windows

package mapi

import (
	"sync"

	"github.com/0xrawsec/golang-utils/datastructs"
)

// TagFilter restricts which properties a row decode keeps, keyed by the
// property identifier (the type word is ignored so PT_STRING8/PT_UNICODE
// variants of the same property match together).
//
// An empty or nil filter matches everything.
type TagFilter struct {
	sync.RWMutex
	ids *datastructs.Set
}

// NewTagFilter builds a filter from the identifiers of the given tags.
func NewTagFilter(tags ...PropTag) *TagFilter {
	f := &TagFilter{}
	f.ids = datastructs.NewInitSet(tagIDs(tags)...)
	return f
}

// Update replaces the filter's identifier set.
func (f *TagFilter) Update(tags ...PropTag) {
	f.Lock()
	defer f.Unlock()
	f.ids = datastructs.NewInitSet(tagIDs(tags)...)
}

// Match reports whether the tag's property identifier passes the filter.
func (f *TagFilter) Match(tag PropTag) bool {
	if f == nil {
		return true
	}
	f.RLock()
	defer f.RUnlock()

	if f.ids == nil || f.ids.Len() == 0 {
		return true
	}
	return f.ids.Contains(tag.PropID())
}

// Len returns the number of identifiers in the filter.
func (f *TagFilter) Len() int {
	if f == nil {
		return 0
	}
	f.RLock()
	defer f.RUnlock()
	if f.ids == nil {
		return 0
	}
	return f.ids.Len()
}

func tagIDs(tags []PropTag) []interface{} {
	ids := make([]uint16, len(tags))
	for i, t := range tags {
		ids[i] = t.PropID()
	}
	return datastructs.ToInterfaceSlice(ids)
}
