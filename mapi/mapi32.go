//go:build windows

package mapi

import (
	"syscall"
	"unsafe"
)

// https://learn.microsoft.com/en-us/office/client-developer/outlook/mapi/mapiinitialize
/*
MAPIInitialize API wrapper generated from prototype
HRESULT __stdcall MAPIInitialize(
	 LPVOID lpMapiInit );

Tested: OK
*/

// Prepares the MAPI subsystem for use by this process.
func MAPIInitialize(lpMapiInit *MAPIINIT) error {
	r1, _, _ := syscall.SyscallN(procMAPIInitialize.Addr(),
		uintptr(unsafe.Pointer(lpMapiInit)))
	return hrToErr(r1)
}

// https://learn.microsoft.com/en-us/office/client-developer/outlook/mapi/mapiuninitialize
/*
MAPIUninitialize API wrapper generated from prototype
void __stdcall MAPIUninitialize( void );

Tested: OK
*/

// Releases the subsystem resources acquired by MAPIInitialize.
func MAPIUninitialize() {
	syscall.SyscallN(procMAPIUninitialize.Addr())
}

// https://learn.microsoft.com/en-us/office/client-developer/outlook/mapi/mapilogonex
/*
MAPILogonEx API wrapper generated from prototype
HRESULT __stdcall MAPILogonEx(
	 ULONG_PTR ulUIParam,
	 LPTSTR lpszProfileName,
	 LPTSTR lpszPassword,
	 FLAGS flFlags,
	 LPMAPISESSION *lppSession );

Tested: OK
*/

// Logs on to a profile and returns a session object. With MAPI_UNICODE the
// profile and password point at UTF-16 strings, otherwise at ANSI strings.
func MAPILogonEx(
	ulUIParam uintptr,
	lpszProfileName *byte,
	lpszPassword *byte,
	flFlags uint32,
	lppSession **IMAPISession) error {
	r1, _, _ := syscall.SyscallN(procMAPILogonEx.Addr(),
		ulUIParam,
		uintptr(unsafe.Pointer(lpszProfileName)),
		uintptr(unsafe.Pointer(lpszPassword)),
		uintptr(flFlags),
		uintptr(unsafe.Pointer(lppSession)))
	return hrToErr(r1)
}

// https://learn.microsoft.com/en-us/office/client-developer/outlook/mapi/mapiallocatebuffer
/*
MAPIAllocateBuffer API wrapper generated from prototype
SCODE __stdcall MAPIAllocateBuffer(
	 ULONG cbSize,
	 LPVOID *lppBuffer );

Tested: OK
*/

// Allocates a root buffer owned by the MAPI allocator.
func MAPIAllocateBuffer(cbSize uint32, lppBuffer *unsafe.Pointer) error {
	r1, _, _ := syscall.SyscallN(procMAPIAllocateBuffer.Addr(),
		uintptr(cbSize),
		uintptr(unsafe.Pointer(lppBuffer)))
	return hrToErr(r1)
}

// https://learn.microsoft.com/en-us/office/client-developer/outlook/mapi/mapiallocatemore
/*
MAPIAllocateMore API wrapper generated from prototype
SCODE __stdcall MAPIAllocateMore(
	 ULONG cbSize,
	 LPVOID lpObject,
	 LPVOID *lppBuffer );

Tested: OK
*/

// Allocates a buffer chained to an existing root allocation. The chained
// memory is released together with the root by MAPIFreeBuffer.
func MAPIAllocateMore(cbSize uint32, lpObject unsafe.Pointer, lppBuffer *unsafe.Pointer) error {
	r1, _, _ := syscall.SyscallN(procMAPIAllocateMore.Addr(),
		uintptr(cbSize),
		uintptr(lpObject),
		uintptr(unsafe.Pointer(lppBuffer)))
	return hrToErr(r1)
}

// https://learn.microsoft.com/en-us/office/client-developer/outlook/mapi/mapifreebuffer
/*
MAPIFreeBuffer API wrapper generated from prototype
ULONG __stdcall MAPIFreeBuffer(
	 LPVOID lpBuffer );

Tested: OK
*/

// Frees a root allocation and everything chained to it. Null is a no-op.
func MAPIFreeBuffer(lpBuffer unsafe.Pointer) error {
	r1, _, _ := syscall.SyscallN(procMAPIFreeBuffer.Addr(),
		uintptr(lpBuffer))
	if r1 == 0 {
		return nil
	}
	return syscall.Errno(r1)
}

// https://learn.microsoft.com/en-us/office/client-developer/outlook/mapi/freeprows
/*
FreeProws API wrapper generated from prototype
SCODE __stdcall FreeProws(
	 LPSRowSet prows );

Tested: OK
*/

// Frees a row set including the property arrays of every row still in it.
func FreeProws(prows *SRowSet) error {
	r1, _, _ := syscall.SyscallN(procFreeProws.Addr(),
		uintptr(unsafe.Pointer(prows)))
	return hrToErr(r1)
}

// https://learn.microsoft.com/en-us/office/client-developer/outlook/mapi/hrqueryallrows
/*
HrQueryAllRows API wrapper generated from prototype
HRESULT __stdcall HrQueryAllRows(
	 LPMAPITABLE ptable,
	 LPSPropTagArray ptaga,
	 LPSRestriction pres,
	 LPSSortOrderSet psos,
	 LONG crowsMax,
	 LPSRowSet *pprows );

Tested: OK
*/

// Retrieves all rows of a table in one call, up to crowsMax rows. The
// returned row set is owned by the caller and must go through FreeProws.
func HrQueryAllRows(
	ptable *IMAPITable,
	ptaga *SPropTagArray,
	pres unsafe.Pointer,
	psos *SSortOrderSet,
	crowsMax int32,
	pprows **SRowSet) error {
	r1, _, _ := syscall.SyscallN(procHrQueryAllRows.Addr(),
		uintptr(unsafe.Pointer(ptable)),
		uintptr(unsafe.Pointer(ptaga)),
		uintptr(pres),
		uintptr(unsafe.Pointer(psos)),
		uintptr(crowsMax),
		uintptr(unsafe.Pointer(pprows)))
	return hrToErr(r1)
}

// Subsystem calls made by the wrapper types go through these variables so
// tests can install counting doubles without touching a real MAPI install.
var (
	mapiInitialize     = MAPIInitialize
	mapiUninitialize   = MAPIUninitialize
	mapiLogonEx        = MAPILogonEx
	mapiAllocateBuffer = MAPIAllocateBuffer
	mapiAllocateMore   = MAPIAllocateMore
	mapiFreeBuffer     = MAPIFreeBuffer
	freeProws          = FreeProws
	hrQueryAllRows     = HrQueryAllRows
)
