//go:build windows

package mapi

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

// InitFlags selects MAPIInitialize behavior. The zero value is the plain
// single threaded initialization.
type InitFlags struct {
	// MultithreadNotifications asks for notifications on a dedicated thread.
	MultithreadNotifications bool
	// NTService must be set when running without an interactive user.
	NTService bool
	// NoCoInit skips COM initialization, for callers that already did it.
	NoCoInit bool
}

func (f InitFlags) mask() uint32 {
	var m uint32
	if f.MultithreadNotifications {
		m |= MAPI_MULTITHREAD_NOTIFICATIONS
	}
	if f.NTService {
		m |= MAPI_NT_SERVICE
	}
	if f.NoCoInit {
		m |= MAPI_NO_COINIT
	}
	return m
}

// LogonFlags selects MAPILogonEx behavior.
type LogonFlags struct {
	// LogonUI lets the subsystem show a profile chooser when needed.
	LogonUI bool
	// NewSession forces a new session instead of joining a shared one.
	NewSession bool
	// AllowOthers makes the session available for other clients to share.
	AllowOthers bool
	// ExplicitProfile requires the named profile, no default fallback.
	ExplicitProfile bool
	// Extended requests an extended MAPI session. This layer always wants it.
	Extended bool
	// ForceDownload fetches new mail before returning.
	ForceDownload bool
	// ServiceUIAlways shows provider configuration UI even when unneeded.
	ServiceUIAlways bool
	// NoMail hides the session from the spooler.
	NoMail bool
	// PasswordUI allows prompting for credentials.
	PasswordUI bool
	// NTService must match the InitFlags setting.
	NTService bool
	// TimeoutShort gives up quickly when the session cannot be shared.
	TimeoutShort bool
	// BGSession logs on as a background session.
	BGSession bool
	// UseDefault logs on to the default profile without asking.
	UseDefault bool
	// Unicode passes profile name and password as UTF-16.
	Unicode bool
}

func (f LogonFlags) mask() uint32 {
	var m uint32
	if f.LogonUI {
		m |= MAPI_LOGON_UI
	}
	if f.NewSession {
		m |= MAPI_NEW_SESSION
	}
	if f.AllowOthers {
		m |= MAPI_ALLOW_OTHERS
	}
	if f.ExplicitProfile {
		m |= MAPI_EXPLICIT_PROFILE
	}
	if f.Extended {
		m |= MAPI_EXTENDED
	}
	if f.ForceDownload {
		m |= MAPI_FORCE_DOWNLOAD
	}
	if f.ServiceUIAlways {
		m |= MAPI_SERVICE_UI_ALWAYS
	}
	if f.NoMail {
		m |= MAPI_NO_MAIL
	}
	if f.PasswordUI {
		m |= MAPI_PASSWORD_UI
	}
	if f.NTService {
		m |= MAPI_NT_SERVICE
	}
	if f.TimeoutShort {
		m |= MAPI_TIMEOUT_SHORT
	}
	if f.BGSession {
		m |= MAPI_BG_SESSION
	}
	if f.UseDefault {
		m |= MAPI_USE_DEFAULT
	}
	if f.Unicode {
		m |= MAPI_UNICODE
	}
	return m
}

// Process-wide initialization registry. MAPIInitialize/MAPIUninitialize are
// strictly paired per process, so at most one guard is live at a time.
var (
	initMu   sync.Mutex
	initLive *Initialized
)

// Initialized guards the initialized state of the subsystem. Sessions are
// created from it and must all be logged off before Uninitialize.
//
// The subsystem binds to the thread model chosen at Initialize; keep the
// guard and its sessions on the goroutine (locked to an OS thread if using
// notifications) that created them.
type Initialized struct {
	sessions atomic.Int32
	closed   bool // guarded by initMu
}

// Initialize prepares the MAPI subsystem and returns the teardown guard.
// A second call while a guard is live fails with ErrAlreadyInitialized; a
// subsystem rejection surfaces the HRESULT.
func Initialize(flags InitFlags) (*Initialized, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if initLive != nil {
		return nil, ErrAlreadyInitialized
	}

	mi := MAPIINIT{Version: MAPI_INIT_VERSION, Flags: flags.mask()}
	if err := mapiInitialize(&mi); err != nil {
		return nil, fmt.Errorf("mapi: initialize: %w", err)
	}

	g := &Initialized{}
	initLive = g
	LogTrace("mapi subsystem initialized", "flags", mi.Flags)
	return g, nil
}

// Uninitialize tears the subsystem down. It refuses with ErrSessionsOpen
// while sessions created from this guard are still logged on, enforcing the
// sessions-then-subsystem teardown order. Idempotent.
func (g *Initialized) Uninitialize() error {
	if g == nil {
		return ErrNotInitialized
	}

	initMu.Lock()
	defer initMu.Unlock()

	if g.closed {
		return nil
	}
	if n := g.sessions.Load(); n > 0 {
		return fmt.Errorf("%w: %d open", ErrSessionsOpen, n)
	}

	g.closed = true
	if initLive == g {
		initLive = nil
	}
	mapiUninitialize()
	LogTrace("mapi subsystem uninitialized")
	return nil
}

// Logon logs on to a profile and returns the session. Both strings may be
// empty together with UseDefault. A closed or nil guard fails with
// ErrNotInitialized; a subsystem rejection comes back as *LogonError
// carrying the status code.
func (g *Initialized) Logon(profile, password string, flags LogonFlags) (*Session, error) {
	if g == nil {
		return nil, ErrNotInitialized
	}
	initMu.Lock()
	closed := g.closed
	initMu.Unlock()
	if closed {
		return nil, ErrNotInitialized
	}

	pProfile, pPassword, err := logonStrings(profile, password, flags.Unicode)
	if err != nil {
		return nil, fmt.Errorf("mapi: logon: %w", err)
	}

	var com *IMAPISession
	if err := mapiLogonEx(0, pProfile, pPassword, flags.mask(), &com); err != nil {
		return nil, &LogonError{Code: asHResult(err)}
	}
	if com == nil {
		// Succeeded without producing a session object.
		return nil, &LogonError{Code: E_FAIL}
	}

	g.sessions.Add(1)
	LogTrace("mapi logon", "profile", profile)
	return &Session{com: com, guard: g}, nil
}

// logonStrings encodes the profile and password for the chosen width. Empty
// strings become null pointers, which selects the default behavior.
func logonStrings(profile, password string, unicode bool) (*byte, *byte, error) {
	encode := func(s string) (*byte, error) {
		if s == "" {
			return nil, nil
		}
		if unicode {
			w, err := windows.UTF16PtrFromString(s)
			if err != nil {
				return nil, err
			}
			return (*byte)(unsafe.Pointer(w)), nil
		}
		return unsafe.SliceData(ansiBytes(s)), nil
	}

	pProfile, err := encode(profile)
	if err != nil {
		return nil, nil, err
	}
	pPassword, err := encode(password)
	if err != nil {
		return nil, nil, err
	}
	return pProfile, pPassword, nil
}

// Session is one MAPI logon. It keeps its guard alive in the type system
// sense: the guard refuses to uninitialize while the session is logged on.
type Session struct {
	com    *IMAPISession
	guard  *Initialized
	closed bool
}

// Com exposes the raw session object for calls this layer does not wrap.
// The reference stays owned by the Session.
func (s *Session) Com() *IMAPISession {
	if s.closed {
		return nil
	}
	return s.com
}

// Logoff ends the logon and releases the session object. Idempotent, so it
// can sit in a defer next to an explicit call. A Logoff failure is logged
// and the session still counts as closed.
func (s *Session) Logoff() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true

	if s.com != nil {
		if err := s.com.Logoff(0, 0, 0); err != nil {
			logTeardownFailure("IMAPISession::Logoff", err)
		}
		s.com.Release()
		s.com = nil
	}
	s.guard.sessions.Add(-1)
	LogTrace("mapi logoff")
	return nil
}

// MsgStoresTable returns the table of message stores in the profile. The
// caller releases the table.
func (s *Session) MsgStoresTable(flags uint32) (*IMAPITable, error) {
	if s == nil || s.closed {
		return nil, ErrNotInitialized
	}
	var table *IMAPITable
	if err := s.com.GetMsgStoresTable(flags, &table); err != nil {
		return nil, fmt.Errorf("mapi: message stores table: %w", err)
	}
	if table == nil {
		return nil, fmt.Errorf("mapi: message stores table: %w", E_FAIL)
	}
	return table, nil
}

// OpenMsgStore opens the store identified by entryID. The caller releases
// the store.
func (s *Session) OpenMsgStore(entryID []byte, flags uint32) (*IMsgStore, error) {
	if s == nil || s.closed {
		return nil, ErrNotInitialized
	}
	if len(entryID) == 0 {
		return nil, fmt.Errorf("mapi: open store: %w", MAPI_E_INVALID_ENTRYID)
	}
	var store *IMsgStore
	err := s.com.OpenMsgStore(0,
		uint32(len(entryID)), unsafe.SliceData(entryID),
		&IID_IMsgStore, flags, &store)
	if err != nil {
		return nil, fmt.Errorf("mapi: open store: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("mapi: open store: %w", E_FAIL)
	}
	return store, nil
}

// AddressBook opens the session's address book. The caller releases it.
func (s *Session) AddressBook(flags uint32) (*IAddrBook, error) {
	if s == nil || s.closed {
		return nil, ErrNotInitialized
	}
	var ab *IAddrBook
	if err := s.com.OpenAddressBook(0, nil, flags, &ab); err != nil {
		return nil, fmt.Errorf("mapi: open address book: %w", err)
	}
	if ab == nil {
		return nil, fmt.Errorf("mapi: open address book: %w", E_FAIL)
	}
	return ab, nil
}

// QueryAllRows pulls up to maxRows rows of a table in one call and hands
// them over as an owned RowSet. tags and sort may be nil for the table's
// current column set and order.
func (s *Session) QueryAllRows(table *IMAPITable, tags *SPropTagArray, sort *SSortOrderSet, maxRows int32) (*RowSet, error) {
	if s == nil || s.closed {
		return nil, ErrNotInitialized
	}
	var rs RowSet
	if err := hrQueryAllRows(table, tags, nil, sort, maxRows, rs.Out()); err != nil {
		return nil, fmt.Errorf("mapi: query rows: %w", err)
	}
	return &rs, nil
}
