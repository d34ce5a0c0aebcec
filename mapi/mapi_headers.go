//go:build windows
// +build windows

package mapi

import "unsafe"

// Property type codes (low word of a property tag).
// https://learn.microsoft.com/en-us/office/client-developer/outlook/mapi/property-types
const (
	PT_UNSPECIFIED = 0x0000
	PT_NULL        = 0x0001
	PT_I2          = 0x0002
	PT_SHORT       = PT_I2
	PT_LONG        = 0x0003
	PT_I4          = PT_LONG
	PT_R4          = 0x0004
	PT_FLOAT       = PT_R4
	PT_DOUBLE      = 0x0005
	PT_R8          = PT_DOUBLE
	PT_CURRENCY    = 0x0006
	PT_APPTIME     = 0x0007
	PT_ERROR       = 0x000A
	PT_BOOLEAN     = 0x000B
	PT_OBJECT      = 0x000D
	PT_I8          = 0x0014
	PT_LONGLONG    = PT_I8
	PT_STRING8     = 0x001E
	PT_UNICODE     = 0x001F
	PT_SYSTIME     = 0x0040
	PT_CLSID       = 0x0048
	PT_BINARY      = 0x0102
	PT_FILE_HANDLE = 0x0103
	PT_PTR         = PT_FILE_HANDLE

	// Multi-value bit and the transient per-row instance bit.
	MV_FLAG     = 0x1000
	MV_INSTANCE = 0x2000
	MVI_FLAG    = MV_FLAG | MV_INSTANCE

	PT_MV_I2       = MV_FLAG | PT_I2
	PT_MV_SHORT    = PT_MV_I2
	PT_MV_LONG     = MV_FLAG | PT_LONG
	PT_MV_R4       = MV_FLAG | PT_R4
	PT_MV_FLOAT    = PT_MV_R4
	PT_MV_DOUBLE   = MV_FLAG | PT_DOUBLE
	PT_MV_CURRENCY = MV_FLAG | PT_CURRENCY
	PT_MV_APPTIME  = MV_FLAG | PT_APPTIME
	PT_MV_I8       = MV_FLAG | PT_I8
	PT_MV_LONGLONG = PT_MV_I8
	PT_MV_STRING8  = MV_FLAG | PT_STRING8
	PT_MV_UNICODE  = MV_FLAG | PT_UNICODE
	PT_MV_SYSTIME  = MV_FLAG | PT_SYSTIME
	PT_MV_CLSID    = MV_FLAG | PT_CLSID
	PT_MV_BINARY   = MV_FLAG | PT_BINARY
)

// Well known property tags used by this layer and its example.
const (
	PR_NULL                      = PropTag(PT_NULL)
	PR_ENTRYID                   = PropTag(0x0FFF<<16 | PT_BINARY)
	PR_INSTANCE_KEY              = PropTag(0x0FF6<<16 | PT_BINARY)
	PR_RECORD_KEY                = PropTag(0x0FF9<<16 | PT_BINARY)
	PR_OBJECT_TYPE               = PropTag(0x0FFE<<16 | PT_LONG)
	PR_DISPLAY_NAME_A            = PropTag(0x3001<<16 | PT_STRING8)
	PR_DISPLAY_NAME_W            = PropTag(0x3001<<16 | PT_UNICODE)
	PR_SUBJECT_A                 = PropTag(0x0037<<16 | PT_STRING8)
	PR_SUBJECT_W                 = PropTag(0x0037<<16 | PT_UNICODE)
	PR_CONVERSATION_TOPIC_W      = PropTag(0x0070<<16 | PT_UNICODE)
	PR_MESSAGE_DELIVERY_TIME     = PropTag(0x0E06<<16 | PT_SYSTIME)
	PR_MESSAGE_SIZE              = PropTag(0x0E08<<16 | PT_LONG)
	PR_DEFAULT_STORE             = PropTag(0x3400<<16 | PT_BOOLEAN)
	PR_MDB_PROVIDER              = PropTag(0x3414<<16 | PT_BINARY)
	PR_RESOURCE_FLAGS            = PropTag(0x3009<<16 | PT_LONG)
	PR_EMAIL_ADDRESS_W           = PropTag(0x3003<<16 | PT_UNICODE)
	PR_SEARCH_KEY                = PropTag(0x300B<<16 | PT_BINARY)
	PR_STORE_SUPPORT_MASK        = PropTag(0x340D<<16 | PT_LONG)
	PR_IPM_SUBTREE_ENTRYID       = PropTag(0x35E0<<16 | PT_BINARY)
	PR_IPM_WASTEBASKET_ENTRYID   = PropTag(0x35E3<<16 | PT_BINARY)
	PR_CONTENT_COUNT             = PropTag(0x3602<<16 | PT_LONG)
	PR_CONTENT_UNREAD            = PropTag(0x3603<<16 | PT_LONG)
)

// MAPIInitialize flags.
const (
	MAPI_INIT_VERSION              = 0
	MAPI_MULTITHREAD_NOTIFICATIONS = 0x00000001
	MAPI_NT_SERVICE                = 0x00010000
	MAPI_NO_COINIT                 = 0x00000008
)

// MAPILogonEx flags.
const (
	MAPI_LOGON_UI          = 0x00000001
	MAPI_NEW_SESSION       = 0x00000002
	MAPI_ALLOW_OTHERS      = 0x00000008
	MAPI_EXPLICIT_PROFILE  = 0x00000010
	MAPI_EXTENDED          = 0x00000020
	MAPI_USE_DEFAULT       = 0x00000040
	MAPI_FORCE_DOWNLOAD    = 0x00001000
	MAPI_SERVICE_UI_ALWAYS = 0x00002000
	MAPI_NO_MAIL           = 0x00008000
	MAPI_PASSWORD_UI       = 0x00020000
	MAPI_TIMEOUT_SHORT     = 0x00100000
	MAPI_BG_SESSION        = 0x00200000
	MAPI_UNICODE           = 0x80000000
)

// Table and OpenMsgStore flags.
const (
	TABLE_SORT_ASCEND  = 0x00000000
	TABLE_SORT_DESCEND = 0x00000001

	MAPI_MODIFY          = 0x00000001
	MAPI_DEFERRED_ERRORS = 0x00000008
	MAPI_BEST_ACCESS     = 0x00000010
	MDB_NO_DIALOG        = 0x00000001
	MDB_WRITE            = 0x00000004
	MDB_TEMPORARY        = 0x00000020
	MDB_NO_MAIL          = 0x00008000
)

// COM and MAPI status codes. MAPI follows the HRESULT convention: high bit
// set on failure, facility ITF (0x0004) for MAPI specific codes.
const (
	S_OK                   = HResult(0x00000000)
	MAPI_W_ERRORS_RETURNED = HResult(0x00040380)

	E_FAIL         = HResult(0x80004005)
	E_POINTER      = HResult(0x80004003)
	E_NOINTERFACE  = HResult(0x80004002)
	E_OUTOFMEMORY  = HResult(0x8007000E)
	E_INVALIDARG   = HResult(0x80070057)
	E_ACCESSDENIED = HResult(0x80070005)

	MAPI_E_CALL_FAILED             = E_FAIL
	MAPI_E_NOT_ENOUGH_MEMORY       = E_OUTOFMEMORY
	MAPI_E_INVALID_PARAMETER       = E_INVALIDARG
	MAPI_E_INTERFACE_NOT_SUPPORTED = E_NOINTERFACE
	MAPI_E_NO_ACCESS               = E_ACCESSDENIED

	MAPI_E_NO_SUPPORT           = HResult(0x80040102)
	MAPI_E_BAD_CHARWIDTH        = HResult(0x80040103)
	MAPI_E_STRING_TOO_LONG      = HResult(0x80040105)
	MAPI_E_UNKNOWN_FLAGS        = HResult(0x80040106)
	MAPI_E_INVALID_ENTRYID      = HResult(0x80040107)
	MAPI_E_INVALID_OBJECT       = HResult(0x80040108)
	MAPI_E_OBJECT_CHANGED       = HResult(0x80040109)
	MAPI_E_OBJECT_DELETED       = HResult(0x8004010A)
	MAPI_E_BUSY                 = HResult(0x8004010B)
	MAPI_E_NOT_ENOUGH_DISK      = HResult(0x8004010D)
	MAPI_E_NOT_ENOUGH_RESOURCES = HResult(0x8004010E)
	MAPI_E_NOT_FOUND            = HResult(0x8004010F)
	MAPI_E_VERSION              = HResult(0x80040110)
	MAPI_E_LOGON_FAILED         = HResult(0x80040111)
	MAPI_E_SESSION_LIMIT        = HResult(0x80040112)
	MAPI_E_USER_CANCEL          = HResult(0x80040113)
	MAPI_E_UNABLE_TO_ABORT      = HResult(0x80040114)
	MAPI_E_NETWORK_ERROR        = HResult(0x80040115)
	MAPI_E_DISK_ERROR           = HResult(0x80040116)
	MAPI_E_TOO_COMPLEX          = HResult(0x80040117)
	MAPI_E_BAD_COLUMN           = HResult(0x80040118)
	MAPI_E_EXTENDED_ERROR       = HResult(0x80040119)
	MAPI_E_COMPUTED             = HResult(0x8004011A)
	MAPI_E_CORRUPT_DATA         = HResult(0x8004011B)
	MAPI_E_UNCONFIGURED         = HResult(0x8004011C)
	MAPI_E_FAILONEPROVIDER      = HResult(0x8004011D)
	MAPI_E_UNKNOWN_CPID         = HResult(0x8004011E)
	MAPI_E_UNKNOWN_LCID         = HResult(0x8004011F)
	MAPI_E_TABLE_EMPTY          = HResult(0x80040402)
	MAPI_E_NOT_INITIALIZED      = HResult(0x80040605)
	MAPI_E_NON_STANDARD         = HResult(0x80040606)
)

/*
typedef struct {
	ULONG ulVersion;
	ULONG ulFlags;
} MAPIINIT_0, *LPMAPIINIT_0;
*/

// MAPIINIT is the optional argument to MAPIInitialize.
type MAPIINIT struct {
	Version uint32
	Flags   uint32
}

/*
typedef struct _SPropValue {
	ULONG ulPropTag;
	ULONG dwAlignPad;
	union _PV Value;
} SPropValue, *LPSPropValue;
*/

// SPropValue mirrors the C property value layout. The union occupies two
// pointer words; interpretation depends on the tag's property type and goes
// through (*SPropValue).PropValue.
type SPropValue struct {
	ULPropTag  uint32
	DwAlignPad uint32
	Value      [2]uintptr
}

// union returns the address of the union storage.
func (v *SPropValue) union() unsafe.Pointer {
	return unsafe.Pointer(&v.Value[0])
}

/*
typedef struct _SBinary {
	ULONG cb;
	LPBYTE lpb;
} SBinary, *LPSBinary;
*/

// SBinary is a counted byte buffer.
type SBinary struct {
	Cb  uint32
	Lpb *byte
}

// FileTime is the Windows FILETIME: 100ns intervals since 1601-01-01 UTC.
type FileTime struct {
	LowDateTime  uint32
	HighDateTime uint32
}

/*
typedef struct _SRow {
	ULONG ulAdrEntryPad;
	ULONG cValues;
	LPSPropValue lpProps;
} SRow, *LPSRow;
*/

// SRow is one table row. lpProps points at a separate MAPI allocation that
// must be freed with MAPIFreeBuffer once the row leaves its row set.
type SRow struct {
	UlAdrEntryPad uint32
	CValues       uint32
	LpProps       *SPropValue
}

/*
typedef struct _SRowSet {
	ULONG cRows;
	SRow aRow[MAPI_DIM];
} SRowSet, *LPSRowSet;
*/

// SRowSet is the variable-length row array returned by table queries. Only
// the first element is declared; the allocation carries cRows of them.
type SRowSet struct {
	CRows uint32
	ARow  [1]SRow
}

// rows returns the full row slice backed by the MAPI allocation.
func (rs *SRowSet) rows() []SRow {
	return unsafe.Slice(&rs.ARow[0], rs.CRows)
}

/*
typedef struct _SPropTagArray {
	ULONG cValues;
	ULONG aulPropTag[MAPI_DIM];
} SPropTagArray, *LPSPropTagArray;
*/

// SPropTagArray is a counted property tag array (variable length).
type SPropTagArray struct {
	CValues    uint32
	AulPropTag [1]uint32
}

// Tags returns the tag slice backed by the allocation.
func (a *SPropTagArray) Tags() []PropTag {
	return unsafe.Slice((*PropTag)(unsafe.Pointer(&a.AulPropTag[0])), a.CValues)
}

/*
typedef struct _SSortOrder {
	ULONG ulPropTag;
	ULONG ulOrder;
} SSortOrder, *LPSSortOrder;
*/

// SSortOrder names one sort column and direction.
type SSortOrder struct {
	UlPropTag uint32
	UlOrder   uint32
}

/*
typedef struct _SSortOrderSet {
	ULONG cSorts;
	ULONG cCategories;
	ULONG cExpanded;
	SSortOrder aSort[MAPI_DIM];
} SSortOrderSet, *LPSSortOrderSet;
*/

// SSortOrderSet is the variable-length sort specification for table queries.
type SSortOrderSet struct {
	CSorts      uint32
	CCategories uint32
	CExpanded   uint32
	ASort       [1]SSortOrder
}

/*
typedef struct {
	BYTE abFlags[4];
	BYTE ab[MAPI_DIM];
} ENTRYID, *LPENTRYID;
*/

// ENTRYID is an opaque, variable-length object identifier.
type ENTRYID struct {
	AbFlags [4]byte
	Ab      [1]byte
}
