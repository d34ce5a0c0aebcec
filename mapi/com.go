//go:build windows

package mapi

import (
	"syscall"
	"unsafe"
)

// Raw COM dispatch for the interfaces this layer calls into. Only the vtable
// slots actually used get a Go wrapper; the rest exist to keep the slot
// offsets correct.

// IUnknownVtbl is the first three slots of every COM vtable.
type IUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

// IUnknown is the base COM object layout: a single pointer to the vtable.
type IUnknown struct {
	LpVtbl *IUnknownVtbl
}

// AddRef increments the object's reference count.
func (u *IUnknown) AddRef() uint32 {
	r1, _, _ := syscall.SyscallN(u.LpVtbl.AddRef,
		uintptr(unsafe.Pointer(u)))
	return uint32(r1)
}

// Release decrements the reference count and returns the new count.
func (u *IUnknown) Release() uint32 {
	r1, _, _ := syscall.SyscallN(u.LpVtbl.Release,
		uintptr(unsafe.Pointer(u)))
	return uint32(r1)
}

// IMAPISessionVtbl lists the session vtable in declaration order. Slot order
// matters and must match the C interface exactly.
type IMAPISessionVtbl struct {
	IUnknownVtbl
	GetLastError           uintptr
	GetMsgStoresTable      uintptr
	OpenMsgStore           uintptr
	OpenAddressBook        uintptr
	OpenProfileSection     uintptr
	GetStatusTable         uintptr
	OpenEntry              uintptr
	CompareEntryIDs        uintptr
	Advise                 uintptr
	Unadvise               uintptr
	MessageOptions         uintptr
	QueryDefaultMessageOpt uintptr
	EnumAdrTypes           uintptr
	QueryIdentity          uintptr
	Logoff                 uintptr
	SetDefaultStore        uintptr
	AdminServices          uintptr
	ShowForm               uintptr
	PrepareForm            uintptr
}

// IMAPISession is the logon session object returned by MAPILogonEx.
type IMAPISession struct {
	LpVtbl *IMAPISessionVtbl
}

// AddRef increments the session's reference count.
func (s *IMAPISession) AddRef() uint32 {
	return (*IUnknown)(unsafe.Pointer(s)).AddRef()
}

// Release decrements the session's reference count.
func (s *IMAPISession) Release() uint32 {
	return (*IUnknown)(unsafe.Pointer(s)).Release()
}

/*
HRESULT GetMsgStoresTable(
	 ULONG ulFlags,
	 LPMAPITABLE *lppTable );
*/

// GetMsgStoresTable returns the table of message stores in the profile.
func (s *IMAPISession) GetMsgStoresTable(ulFlags uint32, lppTable **IMAPITable) error {
	r1, _, _ := syscall.SyscallN(s.LpVtbl.GetMsgStoresTable,
		uintptr(unsafe.Pointer(s)),
		uintptr(ulFlags),
		uintptr(unsafe.Pointer(lppTable)))
	return hrToErr(r1)
}

/*
HRESULT OpenMsgStore(
	 ULONG_PTR ulUIParam,
	 ULONG cbEntryID,
	 LPENTRYID lpEntryID,
	 LPCIID lpInterface,
	 ULONG ulFlags,
	 LPMDB *lppMDB );
*/

// OpenMsgStore opens the store identified by an entry identifier.
func (s *IMAPISession) OpenMsgStore(
	ulUIParam uintptr,
	cbEntryID uint32,
	lpEntryID *byte,
	lpInterface *GUID,
	ulFlags uint32,
	lppMDB **IMsgStore) error {
	r1, _, _ := syscall.SyscallN(s.LpVtbl.OpenMsgStore,
		uintptr(unsafe.Pointer(s)),
		ulUIParam,
		uintptr(cbEntryID),
		uintptr(unsafe.Pointer(lpEntryID)),
		uintptr(unsafe.Pointer(lpInterface)),
		uintptr(ulFlags),
		uintptr(unsafe.Pointer(lppMDB)))
	return hrToErr(r1)
}

/*
HRESULT OpenAddressBook(
	 ULONG_PTR ulUIParam,
	 LPCIID lpInterface,
	 ULONG ulFlags,
	 LPADRBOOK *lppAdrBook );
*/

// OpenAddressBook opens the session's integrated address book.
func (s *IMAPISession) OpenAddressBook(
	ulUIParam uintptr,
	lpInterface *GUID,
	ulFlags uint32,
	lppAdrBook **IAddrBook) error {
	r1, _, _ := syscall.SyscallN(s.LpVtbl.OpenAddressBook,
		uintptr(unsafe.Pointer(s)),
		ulUIParam,
		uintptr(unsafe.Pointer(lpInterface)),
		uintptr(ulFlags),
		uintptr(unsafe.Pointer(lppAdrBook)))
	return hrToErr(r1)
}

/*
HRESULT Logoff(
	 ULONG_PTR ulUIParam,
	 ULONG ulFlags,
	 ULONG ulReserved );
*/

// Logoff ends the logon session. The object still needs a Release after.
func (s *IMAPISession) Logoff(ulUIParam uintptr, ulFlags uint32, ulReserved uint32) error {
	r1, _, _ := syscall.SyscallN(s.LpVtbl.Logoff,
		uintptr(unsafe.Pointer(s)),
		ulUIParam,
		uintptr(ulFlags),
		uintptr(ulReserved))
	return hrToErr(r1)
}

// IMAPITable is an opaque table object. This layer only hands it to
// HrQueryAllRows and releases it.
type IMAPITable struct {
	LpVtbl *IUnknownVtbl
}

// Release decrements the table's reference count.
func (t *IMAPITable) Release() uint32 {
	return (*IUnknown)(unsafe.Pointer(t)).Release()
}

// IMsgStore is an opaque message store object.
type IMsgStore struct {
	LpVtbl *IUnknownVtbl
}

// Release decrements the store's reference count.
func (m *IMsgStore) Release() uint32 {
	return (*IUnknown)(unsafe.Pointer(m)).Release()
}

// IAddrBook is an opaque address book object.
type IAddrBook struct {
	LpVtbl *IUnknownVtbl
}

// Release decrements the address book's reference count.
func (a *IAddrBook) Release() uint32 {
	return (*IUnknown)(unsafe.Pointer(a)).Release()
}
