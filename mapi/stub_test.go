//go:build windows

package mapi

import (
	"testing"
	"unsafe"
)

// stubAllocator backs the MAPI allocator with Go memory so ownership
// semantics can be tested without a MAPI install, counting every call.
//
// Tests that install it must not run in parallel: the allocator functions
// are package-level variables.
type stubAllocator struct {
	allocs  map[uintptr][]byte  // live allocations, keeps Go memory reachable
	chained map[uintptr]uintptr // chained allocation -> its root

	allocCalls int
	moreCalls  int
	freeCalls  int

	failNext error // next allocate/allocateMore fails with this
}

func installStubAllocator(t *testing.T) *stubAllocator {
	t.Helper()
	a := &stubAllocator{
		allocs:  make(map[uintptr][]byte),
		chained: make(map[uintptr]uintptr),
	}
	prevAlloc := mapiAllocateBuffer
	prevMore := mapiAllocateMore
	prevFree := mapiFreeBuffer
	mapiAllocateBuffer = a.allocate
	mapiAllocateMore = a.allocateMore
	mapiFreeBuffer = a.free
	t.Cleanup(func() {
		mapiAllocateBuffer = prevAlloc
		mapiAllocateMore = prevMore
		mapiFreeBuffer = prevFree
	})
	return a
}

// live returns the number of allocations not yet freed.
func (a *stubAllocator) live() int {
	return len(a.allocs)
}

func (a *stubAllocator) fail() error {
	err := a.failNext
	a.failNext = nil
	return err
}

func (a *stubAllocator) allocate(cb uint32, out *unsafe.Pointer) error {
	if err := a.fail(); err != nil {
		return err
	}
	a.allocCalls++
	buf := make([]byte, max(cb, 8))
	p := unsafe.Pointer(unsafe.SliceData(buf))
	a.allocs[uintptr(p)] = buf
	*out = p
	return nil
}

func (a *stubAllocator) allocateMore(cb uint32, obj unsafe.Pointer, out *unsafe.Pointer) error {
	if err := a.fail(); err != nil {
		return err
	}
	if _, ok := a.allocs[uintptr(obj)]; !ok {
		return E_INVALIDARG
	}
	a.moreCalls++
	buf := make([]byte, max(cb, 8))
	p := unsafe.Pointer(unsafe.SliceData(buf))
	a.allocs[uintptr(p)] = buf
	a.chained[uintptr(p)] = uintptr(obj)
	*out = p
	return nil
}

func (a *stubAllocator) free(p unsafe.Pointer) error {
	a.freeCalls++
	if p == nil {
		return nil
	}
	if _, ok := a.allocs[uintptr(p)]; !ok {
		return E_INVALIDARG
	}
	if _, ok := a.chained[uintptr(p)]; ok {
		// Chained memory is only released through its root.
		return E_INVALIDARG
	}
	for child, root := range a.chained {
		if root == uintptr(p) {
			delete(a.allocs, child)
			delete(a.chained, child)
		}
	}
	delete(a.allocs, uintptr(p))
	return nil
}
