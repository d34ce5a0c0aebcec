//go:build windows

package mapi

import (
	"testing"
	"unsafe"

	"github.com/0xrawsec/toast"
)

func TestAllocBufferFreeOnce(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	b, err := AllocBuffer(64)
	tt.CheckErr(err)
	tt.Assert(!b.IsChild())
	tt.Assert(b.Size() == 64)
	tt.Assert(len(b.Bytes()) == 64)

	b.Bytes()[0] = 0xAB
	tt.Assert(*(*byte)(b.Ptr()) == 0xAB)

	tt.CheckErr(b.Free())
	tt.Assert(a.freeCalls == 1)
	tt.Assert(a.live() == 0)
	tt.Assert(b.Ptr() == nil)

	// Second free must not reach the allocator again.
	tt.CheckErr(b.Free())
	tt.Assert(a.freeCalls == 1)
}

func TestDeferredFreeAfterExplicitFree(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	func() {
		b, err := AllocBuffer(16)
		tt.CheckErr(err)
		defer b.Free()
		tt.CheckErr(b.Free())
	}()
	tt.Assert(a.freeCalls == 1)
	tt.Assert(a.live() == 0)
}

func TestAllocMoreChained(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	root, err := AllocBuffer(32)
	tt.CheckErr(err)

	child, err := root.AllocMore(16)
	tt.CheckErr(err)
	tt.Assert(child.IsChild())
	tt.Assert(a.moreCalls == 1)

	// Grandchild chains to the same root allocation.
	grandchild, err := child.AllocMore(8)
	tt.CheckErr(err)
	tt.Assert(grandchild.IsChild())
	tt.Assert(a.live() == 3)

	// Child frees only invalidate the handle.
	tt.CheckErr(child.Free())
	tt.CheckErr(grandchild.Free())
	tt.Assert(a.freeCalls == 0)
	tt.Assert(child.Ptr() == nil)

	// The root free releases the whole chain.
	tt.CheckErr(root.Free())
	tt.Assert(a.freeCalls == 1)
	tt.Assert(a.live() == 0)
}

func TestAllocMoreAfterFree(t *testing.T) {
	tt := toast.FromT(t)
	installStubAllocator(t)

	root, err := AllocBuffer(32)
	tt.CheckErr(err)
	tt.CheckErr(root.Free())

	_, err = root.AllocMore(16)
	tt.ExpectErr(err, ErrInvalidBuffer)
}

func TestAllocBufferFailure(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)
	a.failNext = E_OUTOFMEMORY

	_, err := AllocBuffer(1 << 20)
	tt.ExpectErr(err, E_OUTOFMEMORY)
	tt.Assert(a.live() == 0)
}

func TestTakeBuffer(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	_, err := TakeBuffer(nil)
	tt.ExpectErr(err, ErrInvalidBuffer)

	// Simulate a call handing out an allocation.
	var p unsafe.Pointer
	tt.CheckErr(mapiAllocateBuffer(24, &p))

	b, err := TakeBuffer(p)
	tt.CheckErr(err)
	tt.Assert(!b.IsChild())
	tt.Assert(b.Size() == 0) // length unknown

	tt.CheckErr(b.Free())
	tt.Assert(a.live() == 0)
}

func TestChildAt(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	root, err := AllocBuffer(32)
	tt.CheckErr(err)

	inner := unsafe.Pointer(uintptr(root.Ptr()) + 8)
	child, err := root.ChildAt(inner)
	tt.CheckErr(err)
	tt.Assert(child.IsChild())

	tt.CheckErr(child.Free())
	tt.Assert(a.freeCalls == 0)

	_, err = root.ChildAt(nil)
	tt.ExpectErr(err, ErrInvalidBuffer)

	outside := unsafe.Pointer(uintptr(root.Ptr()) + 64)
	_, err = root.ChildAt(outside)
	tt.ExpectErr(err, ErrInvalidBuffer)

	tt.CheckErr(root.Free())
}

func TestTypedBuffer(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	buf, err := NewTypedBuffer[uint32](4)
	tt.CheckErr(err)
	tt.Assert(buf.Count() == 4)

	s := buf.Slice()
	tt.Assert(len(s) == 4)
	for i := range s {
		s[i] = uint32(i) * 10
	}

	v, ok := buf.Get(3)
	tt.Assert(ok)
	tt.Assert(*v == 30)

	_, ok = buf.Get(4)
	tt.Assert(!ok)
	_, ok = buf.Get(-1)
	tt.Assert(!ok)

	tt.CheckErr(buf.Free())
	_, ok = buf.Get(0)
	tt.Assert(!ok)
	tt.Assert(a.live() == 0)
}

func TestTypedBufferZeroCount(t *testing.T) {
	tt := toast.FromT(t)
	installStubAllocator(t)

	buf, err := NewTypedBuffer[uint64](0)
	tt.CheckErr(err)
	tt.Assert(buf.Count() == 0)
	tt.Assert(buf.Slice() == nil)

	_, ok := buf.Get(0)
	tt.Assert(!ok)
	tt.CheckErr(buf.Free())
}

func TestAsTypedOverflowPanics(t *testing.T) {
	tt := toast.FromT(t)
	installStubAllocator(t)

	b, err := AllocBuffer(8)
	tt.CheckErr(err)
	defer b.Free()

	tt.ShouldPanic(func() { AsTyped[uint64](b, 2) })
}

func TestAsTypedConsumed(t *testing.T) {
	tt := toast.FromT(t)
	installStubAllocator(t)

	b, err := AllocBuffer(16)
	tt.CheckErr(err)
	defer b.Free()

	AsTyped[uint32](b, 4)
	tt.ShouldPanic(func() { AsTyped[uint16](b, 8) })
}

func TestAsTypedFreedPanics(t *testing.T) {
	tt := toast.FromT(t)
	installStubAllocator(t)

	b, err := AllocBuffer(16)
	tt.CheckErr(err)
	tt.CheckErr(b.Free())

	tt.ShouldPanic(func() { AsTyped[uint32](b, 1) })
}

func TestAsTypedUnknownLength(t *testing.T) {
	tt := toast.FromT(t)
	installStubAllocator(t)

	var p unsafe.Pointer
	tt.CheckErr(mapiAllocateBuffer(64, &p))
	b, err := TakeBuffer(p)
	tt.CheckErr(err)

	// No known length, so no bounds check is possible.
	buf := AsTyped[uint32](b, 16)
	tt.Assert(buf.Count() == 16)
	tt.CheckErr(buf.Free())
}

func TestOutBuffer(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	var o OutBuffer
	tt.Assert(o.IsNull())

	_, err := o.Take()
	tt.ExpectErr(err, ErrInvalidBuffer)

	// Simulate the call filling the out-param.
	tt.CheckErr(mapiAllocateBuffer(24, o.Out()))
	tt.Assert(!o.IsNull())

	b, err := o.Take()
	tt.CheckErr(err)
	tt.Assert(o.IsNull())

	// Freeing the out holder after Take must not touch the allocation.
	tt.CheckErr(o.Free())
	tt.Assert(a.live() == 1)

	tt.CheckErr(b.Free())
	tt.Assert(a.live() == 0)
}

func TestOutBufferFreeUntaken(t *testing.T) {
	tt := toast.FromT(t)
	a := installStubAllocator(t)

	var o OutBuffer
	tt.CheckErr(mapiAllocateBuffer(24, o.Out()))
	tt.CheckErr(o.Free())
	tt.Assert(o.IsNull())
	tt.Assert(a.live() == 0)

	// Idempotent once drained.
	tt.CheckErr(o.Free())
	tt.Assert(a.freeCalls == 1)
}
