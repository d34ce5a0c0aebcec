//go:build windows
// +build windows

package mapi

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by this package. All of them wrap cleanly with
// errors.Is.
var (
	// ErrAlreadyInitialized is returned by Initialize while another guard is
	// still live in this process.
	ErrAlreadyInitialized = errors.New("mapi: subsystem already initialized")

	// ErrNotInitialized is returned when an operation needs a live
	// initialization guard and there is none.
	ErrNotInitialized = errors.New("mapi: subsystem not initialized")

	// ErrSessionsOpen is returned by Uninitialize while sessions created from
	// the guard are still logged on.
	ErrSessionsOpen = errors.New("mapi: sessions still logged on")

	// ErrInvalidBuffer is returned when adopting a null or unusable pointer.
	ErrInvalidBuffer = errors.New("mapi: null or invalid buffer pointer")

	// ErrMalformedProperty is returned when an SPropValue cannot be decoded,
	// typically because a pointer-bearing kind carries a null pointer. The
	// error is recoverable: callers may skip the property and keep going.
	ErrMalformedProperty = errors.New("mapi: malformed property value")
)

// HResult is a Windows HRESULT status code. It implements error so MAPI
// failures can travel through normal Go error plumbing; the zero value (S_OK)
// is never returned as an error.
type HResult uint32

// Failed reports whether the code is a failure HRESULT.
func (hr HResult) Failed() bool {
	return hr&0x80000000 != 0
}

func (hr HResult) Error() string {
	if name, ok := hresultNames[hr]; ok {
		return fmt.Sprintf("%s (0x%08X)", name, uint32(hr))
	}
	return fmt.Sprintf("hresult 0x%08X", uint32(hr))
}

// hrToErr converts a call result to a Go error, nil on success.
func hrToErr(hr uintptr) error {
	code := HResult(uint32(hr))
	if !code.Failed() {
		return nil
	}
	return code
}

var hresultNames = map[HResult]string{
	E_FAIL:                 "E_FAIL",
	E_POINTER:              "E_POINTER",
	E_NOINTERFACE:          "E_NOINTERFACE",
	E_OUTOFMEMORY:          "E_OUTOFMEMORY",
	E_INVALIDARG:           "E_INVALIDARG",
	E_ACCESSDENIED:         "E_ACCESSDENIED",
	MAPI_E_NO_SUPPORT:      "MAPI_E_NO_SUPPORT",
	MAPI_E_NOT_FOUND:       "MAPI_E_NOT_FOUND",
	MAPI_E_LOGON_FAILED:    "MAPI_E_LOGON_FAILED",
	MAPI_E_SESSION_LIMIT:   "MAPI_E_SESSION_LIMIT",
	MAPI_E_USER_CANCEL:     "MAPI_E_USER_CANCEL",
	MAPI_E_NETWORK_ERROR:   "MAPI_E_NETWORK_ERROR",
	MAPI_E_UNCONFIGURED:    "MAPI_E_UNCONFIGURED",
	MAPI_E_NOT_INITIALIZED: "MAPI_E_NOT_INITIALIZED",
	MAPI_E_VERSION:         "MAPI_E_VERSION",
	MAPI_E_TABLE_EMPTY:     "MAPI_E_TABLE_EMPTY",
	MAPI_E_CORRUPT_DATA:    "MAPI_E_CORRUPT_DATA",
	MAPI_E_INVALID_ENTRYID: "MAPI_E_INVALID_ENTRYID",
}

// LogonError reports a rejected MAPILogonEx call together with the subsystem
// status code.
type LogonError struct {
	Code HResult
}

func (e *LogonError) Error() string {
	return fmt.Sprintf("mapi: logon failed: %v", e.Code)
}

// Unwrap exposes the HResult so errors.Is(err, MAPI_E_LOGON_FAILED) works.
func (e *LogonError) Unwrap() error {
	return e.Code
}

// asHResult extracts an HResult from an error chain, E_FAIL if none.
func asHResult(err error) HResult {
	var hr HResult
	if errors.As(err, &hr) {
		return hr
	}
	return E_FAIL
}
