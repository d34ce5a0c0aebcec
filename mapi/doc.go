// Package mapi provides a safe ownership layer over the Windows Messaging
// API (MAPI) without requiring CGO.
//
// It wraps the allocator (MAPIAllocateBuffer family) behind buffers that are
// freed exactly once, decodes SPropValue unions into a closed tagged value
// set, and pairs MAPIInitialize/MAPILogonEx with guard objects that enforce
// the sessions-then-subsystem teardown order.
//
// Basic usage:
//
//	guard, err := mapi.Initialize(mapi.InitFlags{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer guard.Uninitialize()
//
//	session, err := guard.Logon("", "", mapi.LogonFlags{
//	    Extended: true, Unicode: true, UseDefault: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Logoff()
package mapi
