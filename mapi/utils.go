//go:build windows

package mapi

import "unsafe"

// ansiLen walks a null terminated ANSI string and returns its byte length.
func ansiLen(p *byte) int {
	if p == nil {
		return 0
	}
	n := 0
	for *(*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + uintptr(n))) != 0 {
		n++
	}
	return n
}

// ansiPtrToString copies a null terminated ANSI string into a Go string.
func ansiPtrToString(p *byte) string {
	n := ansiLen(p)
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice(p, n))
}

// ansiBytes returns s as a null terminated byte slice.
func ansiBytes(s string) []byte {
	return append([]byte(s), 0)
}
