//go:build windows

package mapi

import (
	"errors"
	"syscall"
	"testing"
	"unsafe"

	"github.com/olkit/golang-mapi/internal/test"
)

type subsystemStub struct {
	initCalls   int
	uninitCalls int
	logonCalls  int
	initErr     error
	logonErr    error
	logonFlags  uint32
	session     *IMAPISession
}

func installSubsystemStub(t *testing.T) *subsystemStub {
	t.Helper()
	s := &subsystemStub{}
	prevInit := mapiInitialize
	prevUninit := mapiUninitialize
	prevLogon := mapiLogonEx
	mapiInitialize = func(mi *MAPIINIT) error {
		s.initCalls++
		return s.initErr
	}
	mapiUninitialize = func() {
		s.uninitCalls++
	}
	mapiLogonEx = func(ui uintptr, profile, password *byte, flags uint32, out **IMAPISession) error {
		s.logonCalls++
		s.logonFlags = flags
		if s.logonErr != nil {
			return s.logonErr
		}
		*out = s.session
		return nil
	}
	t.Cleanup(func() {
		mapiInitialize = prevInit
		mapiUninitialize = prevUninit
		mapiLogonEx = prevLogon
	})
	return s
}

// fakeSession is a COM session object implemented with Go callbacks, enough
// for the vtable slots this layer dispatches to.
type fakeSession struct {
	com          IMAPISession
	vtbl         IMAPISessionVtbl
	logoffCalls  int
	releaseCalls int
	storesTable  *IMAPITable
}

func newFakeSession() *fakeSession {
	f := &fakeSession{}
	f.vtbl.Release = syscall.NewCallback(func(self uintptr) uintptr {
		f.releaseCalls++
		return 0
	})
	f.vtbl.AddRef = syscall.NewCallback(func(self uintptr) uintptr {
		return 1
	})
	f.vtbl.Logoff = syscall.NewCallback(func(self, ui, flags, reserved uintptr) uintptr {
		f.logoffCalls++
		return 0
	})
	f.vtbl.GetMsgStoresTable = syscall.NewCallback(func(self, flags, out uintptr) uintptr {
		*(**IMAPITable)(unsafe.Pointer(out)) = f.storesTable
		return 0
	})
	f.com.LpVtbl = &f.vtbl
	return f
}

func TestInitializeLifecycle(t *testing.T) {
	tt := test.FromT(t)
	s := installSubsystemStub(t)

	g, err := Initialize(InitFlags{})
	tt.CheckErr(err)
	test.Eq(tt, s.initCalls, 1)

	// Only one live guard per process.
	_, err = Initialize(InitFlags{NoCoInit: true})
	tt.ExpectErr(err, ErrAlreadyInitialized)
	test.Eq(tt, s.initCalls, 1)

	tt.CheckErr(g.Uninitialize())
	test.Eq(tt, s.uninitCalls, 1)

	// Idempotent teardown.
	tt.CheckErr(g.Uninitialize())
	test.Eq(tt, s.uninitCalls, 1)

	// After teardown a fresh guard may start.
	g2, err := Initialize(InitFlags{})
	tt.CheckErr(err)
	test.Eq(tt, s.initCalls, 2)
	tt.CheckErr(g2.Uninitialize())
}

func TestInitializeFailure(t *testing.T) {
	tt := test.FromT(t)
	s := installSubsystemStub(t)
	s.initErr = MAPI_E_VERSION

	_, err := Initialize(InitFlags{})
	tt.ExpectErr(err, MAPI_E_VERSION)

	// The failed attempt must not leave a live guard behind.
	s.initErr = nil
	g, err := Initialize(InitFlags{})
	tt.CheckErr(err)
	tt.CheckErr(g.Uninitialize())
}

func TestInitFlagMask(t *testing.T) {
	tt := test.FromT(t)

	test.Eq(tt, InitFlags{}.mask(), uint32(0))
	test.Eq(tt,
		InitFlags{MultithreadNotifications: true, NTService: true}.mask(),
		uint32(MAPI_MULTITHREAD_NOTIFICATIONS|MAPI_NT_SERVICE))
	tt.Assert(LogonFlags{Extended: true, Unicode: true, UseDefault: true}.mask() ==
		MAPI_EXTENDED|MAPI_UNICODE|MAPI_USE_DEFAULT)
}

func TestLogonTeardownOrder(t *testing.T) {
	tt := test.FromT(t)
	s := installSubsystemStub(t)
	fake := newFakeSession()
	s.session = &fake.com

	g, err := Initialize(InitFlags{})
	tt.CheckErr(err)

	sess, err := g.Logon("Outlook", "", LogonFlags{Extended: true, Unicode: true})
	tt.CheckErr(err)
	test.Eq(tt, s.logonCalls, 1)
	test.Eq(tt, s.logonFlags, uint32(MAPI_EXTENDED|MAPI_UNICODE))

	// The subsystem cannot go down under a live session.
	tt.ExpectErr(g.Uninitialize(), ErrSessionsOpen)
	test.Eq(tt, s.uninitCalls, 0)

	tt.CheckErr(sess.Logoff())
	test.Eq(tt, fake.logoffCalls, 1)
	test.Eq(tt, fake.releaseCalls, 1)

	// Logoff is idempotent and releases exactly once.
	tt.CheckErr(sess.Logoff())
	test.Eq(tt, fake.logoffCalls, 1)
	test.Eq(tt, fake.releaseCalls, 1)

	tt.CheckErr(g.Uninitialize())
	test.Eq(tt, s.uninitCalls, 1)
}

func TestLogonOnClosedGuard(t *testing.T) {
	tt := test.FromT(t)
	s := installSubsystemStub(t)
	fake := newFakeSession()
	s.session = &fake.com

	g, err := Initialize(InitFlags{})
	tt.CheckErr(err)
	tt.CheckErr(g.Uninitialize())

	_, err = g.Logon("", "", LogonFlags{UseDefault: true})
	tt.ExpectErr(err, ErrNotInitialized)
	test.Eq(tt, s.logonCalls, 0)

	var nilGuard *Initialized
	_, err = nilGuard.Logon("", "", LogonFlags{})
	tt.ExpectErr(err, ErrNotInitialized)
}

func TestLogonRejected(t *testing.T) {
	tt := test.FromT(t)
	s := installSubsystemStub(t)
	s.logonErr = MAPI_E_LOGON_FAILED

	g, err := Initialize(InitFlags{})
	tt.CheckErr(err)
	defer g.Uninitialize()

	_, err = g.Logon("Broken", "", LogonFlags{Extended: true})
	var logonErr *LogonError
	tt.Assert(errors.As(err, &logonErr))
	test.Eq(tt, logonErr.Code, MAPI_E_LOGON_FAILED)
	tt.ExpectErr(err, MAPI_E_LOGON_FAILED)

	// A rejected logon holds no session, teardown must work right away.
	tt.CheckErr(g.Uninitialize())
}

func TestDeferredTeardown(t *testing.T) {
	tt := test.FromT(t)
	s := installSubsystemStub(t)
	fake := newFakeSession()
	s.session = &fake.com

	// The usual defer pattern: Logoff runs before Uninitialize and both
	// succeed without retries.
	func() {
		g, err := Initialize(InitFlags{})
		tt.CheckErr(err)
		defer g.Uninitialize()

		sess, err := g.Logon("", "", LogonFlags{UseDefault: true})
		tt.CheckErr(err)
		defer sess.Logoff()
	}()

	test.Eq(tt, fake.logoffCalls, 1)
	test.Eq(tt, fake.releaseCalls, 1)
	test.Eq(tt, s.uninitCalls, 1)
}

func TestSessionMsgStoresTable(t *testing.T) {
	tt := test.FromT(t)
	s := installSubsystemStub(t)
	fake := newFakeSession()
	s.session = &fake.com

	fakeTableVtbl := &IUnknownVtbl{
		Release: syscall.NewCallback(func(self uintptr) uintptr { return 0 }),
	}
	fake.storesTable = &IMAPITable{LpVtbl: fakeTableVtbl}

	g, err := Initialize(InitFlags{})
	tt.CheckErr(err)
	defer g.Uninitialize()

	sess, err := g.Logon("", "", LogonFlags{UseDefault: true})
	tt.CheckErr(err)
	defer sess.Logoff()

	table, err := sess.MsgStoresTable(0)
	tt.CheckErr(err)
	tt.Assert(table == fake.storesTable)

	// Closed sessions refuse further calls.
	tt.CheckErr(sess.Logoff())
	_, err = sess.MsgStoresTable(0)
	tt.ExpectErr(err, ErrNotInitialized)
}

func TestSessionQueryAllRows(t *testing.T) {
	tt := test.FromT(t)
	a := installStubAllocator(t)
	installStubFreeProws(t, a)
	s := installSubsystemStub(t)
	fake := newFakeSession()
	s.session = &fake.com

	prevQuery := hrQueryAllRows
	hrQueryAllRows = func(table *IMAPITable, tags *SPropTagArray, pres unsafe.Pointer, sort *SSortOrderSet, maxRows int32, out **SRowSet) error {
		*out = allocRowSet(t, storeRow([]byte{1, 2, 3}))
		return nil
	}
	t.Cleanup(func() { hrQueryAllRows = prevQuery })

	g, err := Initialize(InitFlags{})
	tt.CheckErr(err)
	defer g.Uninitialize()

	sess, err := g.Logon("", "", LogonFlags{UseDefault: true})
	tt.CheckErr(err)
	defer sess.Logoff()

	rows, err := sess.QueryAllRows(nil, nil, nil, 50)
	tt.CheckErr(err)
	defer rows.Free()
	test.Eq(tt, rows.Len(), 1)

	row, err := rows.Take(0)
	tt.CheckErr(err)
	defer row.Free()
	values, err := row.Values()
	tt.CheckErr(err)
	test.Eq(tt, len(values), 2)
}
