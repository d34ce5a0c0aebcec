//go:build windows

package mapi

import (
	"fmt"
	"unsafe"
)

// RawBuffer wraps one MAPI allocation and tracks who is responsible for
// freeing it. A root buffer (AllocBuffer, TakeBuffer) owns its memory and
// must be freed exactly once. A child buffer (AllocMore, ChildAt) borrows
// memory that the allocator releases together with the root, so Free on a
// child only invalidates the handle.
//
// Free is idempotent, which makes `defer b.Free()` safe on every exit path
// even when the buffer was already released explicitly.
//
// Buffers are not safe for concurrent use; they belong to the goroutine
// driving the MAPI calls.
type RawBuffer struct {
	ptr     unsafe.Pointer
	size    uintptr // 0 when the allocation length is unknown
	root    unsafe.Pointer
	owned   bool
	freed   bool
	retyped bool
}

// AllocBuffer allocates byteCount bytes from the MAPI allocator and returns
// an owning root buffer.
func AllocBuffer(byteCount uint32) (*RawBuffer, error) {
	var p unsafe.Pointer
	if err := mapiAllocateBuffer(byteCount, &p); err != nil {
		return nil, fmt.Errorf("mapi: allocate %d bytes: %w", byteCount, err)
	}
	if p == nil {
		return nil, ErrInvalidBuffer
	}
	return &RawBuffer{ptr: p, size: uintptr(byteCount), root: p, owned: true}, nil
}

// TakeBuffer adopts an allocation handed out by a MAPI call. The adopted
// buffer is a root: the caller now owns it and must Free it. The allocation
// length is unknown, so typed views over it cannot be bounds checked.
func TakeBuffer(ptr unsafe.Pointer) (*RawBuffer, error) {
	if ptr == nil {
		return nil, ErrInvalidBuffer
	}
	return &RawBuffer{ptr: ptr, root: ptr, owned: true}, nil
}

// TakeBufferN is TakeBuffer for out-params whose length the call also
// reported, which keeps bounds checks on typed views.
func TakeBufferN(ptr unsafe.Pointer, byteCount uintptr) (*RawBuffer, error) {
	b, err := TakeBuffer(ptr)
	if err != nil {
		return nil, err
	}
	b.size = byteCount
	return b, nil
}

// AllocMore allocates byteCount bytes chained to this buffer's root. The
// child lives exactly as long as the root and its Free is a no-op.
func (b *RawBuffer) AllocMore(byteCount uint32) (*RawBuffer, error) {
	if b.freed {
		return nil, ErrInvalidBuffer
	}
	var p unsafe.Pointer
	if err := mapiAllocateMore(byteCount, b.root, &p); err != nil {
		return nil, fmt.Errorf("mapi: allocate %d chained bytes: %w", byteCount, err)
	}
	if p == nil {
		return nil, ErrInvalidBuffer
	}
	return &RawBuffer{ptr: p, size: uintptr(byteCount), root: b.root}, nil
}

// ChildAt wraps a pointer into this buffer's allocation as a non-owning
// child, e.g. an embedded pointer inside a decoded struct. When the parent's
// length is known the pointer must fall inside it.
func (b *RawBuffer) ChildAt(ptr unsafe.Pointer) (*RawBuffer, error) {
	if b.freed || ptr == nil {
		return nil, ErrInvalidBuffer
	}
	if b.size != 0 {
		off := uintptr(ptr) - uintptr(b.ptr)
		if off >= b.size {
			return nil, ErrInvalidBuffer
		}
	}
	return &RawBuffer{ptr: ptr, root: b.root}, nil
}

// Ptr returns the start of the allocation, nil once freed.
func (b *RawBuffer) Ptr() unsafe.Pointer {
	if b.freed {
		return nil
	}
	return b.ptr
}

// Size returns the allocation length in bytes, 0 when unknown.
func (b *RawBuffer) Size() uintptr {
	return b.size
}

// IsChild reports whether Free only invalidates the handle.
func (b *RawBuffer) IsChild() bool {
	return !b.owned
}

// Bytes returns the allocation as a byte slice aliasing the MAPI memory.
// Only valid while the root is alive and only when the length is known.
func (b *RawBuffer) Bytes() []byte {
	if b.freed || b.size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.size)
}

// Free releases the allocation. The underlying memory is freed exactly once
// no matter how many times Free runs, and never through a child. An
// allocator error is reported but the buffer still counts as released;
// retrying a free is worse than leaking.
func (b *RawBuffer) Free() error {
	if b.freed {
		return nil
	}
	b.freed = true
	if !b.owned {
		return nil
	}
	if err := mapiFreeBuffer(b.ptr); err != nil {
		logTeardownFailure("MAPIFreeBuffer", err)
		return fmt.Errorf("mapi: free buffer: %w", err)
	}
	return nil
}

// TypedBuffer is a typed view over a raw allocation: count elements of T
// starting at the allocation base.
type TypedBuffer[T any] struct {
	raw   *RawBuffer
	count int
}

// AsTyped reinterprets a raw buffer as count elements of T, consuming the
// raw handle: further casts of the same buffer panic. Misuse is a
// programming error, so a count that overflows a known allocation length,
// a misaligned base pointer, or a consumed/freed buffer all panic rather
// than limp along over memory they do not own.
func AsTyped[T any](b *RawBuffer, count int) *TypedBuffer[T] {
	if b.freed {
		panic("mapi: typed view of a freed buffer")
	}
	if b.retyped {
		panic("mapi: buffer already cast to a typed view")
	}
	if count < 0 {
		panic("mapi: negative element count")
	}
	var zero T
	esize := unsafe.Sizeof(zero)
	if b.size != 0 && esize > 0 && uintptr(count) > b.size/esize {
		panic(fmt.Sprintf("mapi: %d elements of %d bytes exceed %d byte allocation",
			count, esize, b.size))
	}
	if align := unsafe.Alignof(zero); align > 1 && uintptr(b.ptr)%align != 0 {
		panic("mapi: buffer misaligned for element type")
	}
	b.retyped = true
	return &TypedBuffer[T]{raw: b, count: count}
}

// NewTypedBuffer allocates a root buffer sized for count elements of T.
func NewTypedBuffer[T any](count int) (*TypedBuffer[T], error) {
	if count < 0 {
		return nil, fmt.Errorf("mapi: negative element count %d", count)
	}
	var zero T
	b, err := AllocBuffer(uint32(uintptr(count) * unsafe.Sizeof(zero)))
	if err != nil {
		return nil, err
	}
	return AsTyped[T](b, count), nil
}

// Get returns the i-th element, ok=false out of range or after Free.
func (t *TypedBuffer[T]) Get(i int) (*T, bool) {
	if t.raw.freed || i < 0 || i >= t.count {
		return nil, false
	}
	var zero T
	p := unsafe.Pointer(uintptr(t.raw.ptr) + uintptr(i)*unsafe.Sizeof(zero))
	return (*T)(p), true
}

// Slice returns all elements aliasing the MAPI allocation. Valid only while
// the buffer is alive.
func (t *TypedBuffer[T]) Slice() []T {
	if t.raw.freed || t.count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(t.raw.ptr), t.count)
}

// Count returns the number of elements in the view.
func (t *TypedBuffer[T]) Count() int {
	return t.count
}

// Raw returns the underlying buffer, e.g. to chain AllocMore allocations.
func (t *TypedBuffer[T]) Raw() *RawBuffer {
	return t.raw
}

// Free releases the underlying buffer with root/child semantics.
func (t *TypedBuffer[T]) Free() error {
	return t.raw.Free()
}

// OutBuffer receives an allocation through an out-param. The call fills the
// pointer; Take converts it into an owned RawBuffer. Freeing an OutBuffer
// that was never taken releases whatever the call left behind.
type OutBuffer struct {
	ptr unsafe.Pointer
}

// Out returns the location to pass as the call's out-param.
func (o *OutBuffer) Out() *unsafe.Pointer {
	return &o.ptr
}

// IsNull reports whether the call produced an allocation.
func (o *OutBuffer) IsNull() bool {
	return o.ptr == nil
}

// Take transfers the received allocation to an owning RawBuffer and clears
// the out slot. ErrInvalidBuffer when the call produced nothing.
func (o *OutBuffer) Take() (*RawBuffer, error) {
	b, err := TakeBuffer(o.ptr)
	if err != nil {
		return nil, err
	}
	o.ptr = nil
	return b, nil
}

// Free releases an untaken allocation, no-op when empty or already taken.
func (o *OutBuffer) Free() error {
	if o.ptr == nil {
		return nil
	}
	p := o.ptr
	o.ptr = nil
	if err := mapiFreeBuffer(p); err != nil {
		logTeardownFailure("MAPIFreeBuffer", err)
		return fmt.Errorf("mapi: free out buffer: %w", err)
	}
	return nil
}
