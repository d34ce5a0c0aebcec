//go:build windows

package mapi

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// The MAPI surface is provided by whichever messaging client is installed,
// so the DLL must be located before anything can be called. Resolution order:
//
//  1. DLLPathEx of the default mail client in the registry.
//  2. MSI qualified-component lookup for olmapi32.dll against the known
//     Office core component categories.
//  3. The mapi32.dll stub on the system path, which forwards to the
//     registered provider.

const olmapi32DLL = "olmapi32.dll"

const mailClientKey = `SOFTWARE\Clients\Mail\Microsoft Outlook`

// Core Office retail component categories, newest first.
var outlookQualifiedComponents = []string{
	"{5812C571-53F0-4467-BEFA-0A4F47A9437C}", // Office 16
	"{E83B4360-C208-4325-9504-0D23003A74A5}", // Office 15
	"{1E77DE88-BCAB-4C37-B9E5-073AF52DFD7A}", // Office 14
	"{24AAE126-0911-478F-A019-07B875EB9996}", // Office 12
	"{BC174BAD-2F53-4855-A1D5-0D575C19B1EA}", // Office 11
	"{BC174BAD-2F53-4855-A1D5-1D575C19B1EA}", // Office 11 debug
}

// Other Office applications whose install dir carries the MAPI DLL. Used
// only when the Outlook qualifier resolves nothing.
var officeQualifiers = []string{
	"excel.exe",
	"winword.exe",
	"powerpnt.exe",
	"msaccess.exe",
	"onenote.exe",
	"mspub.exe",
}

func outlookQualifier() string {
	if runtime.GOARCH == "amd64" {
		return "outlook.x64.exe"
	}
	return "outlook.exe"
}

const (
	installModeDefault  = 0
	installModeExisting = 0xFFFFFFFF
)

func loadMAPIModule() (*windows.DLL, error) {
	if path, err := defaultClientDLLPath(); err == nil {
		if dll, err := windows.LoadDLL(path); err == nil {
			return dll, nil
		}
	}

	for _, category := range outlookQualifiedComponents {
		if path, err := officeComponentPath(category, outlookQualifier(), installModeDefault); err == nil {
			if dll, err := windows.LoadDLL(path); err == nil {
				return dll, nil
			}
		}
	}

	// Other Office apps ship the same MAPI DLL next to their executable.
	// Existing installs only, never trigger an MSI install from here.
	for _, category := range outlookQualifiedComponents {
		for _, qualifier := range officeQualifiers {
			if path, err := officeComponentPath(category, qualifier, installModeExisting); err == nil {
				if dll, err := windows.LoadDLL(path); err == nil {
					return dll, nil
				}
			}
		}
	}

	return windows.LoadDLL("mapi32.dll")
}

// defaultClientDLLPath reads the DLLPathEx value registered by the default
// mail client.
func defaultClientDLLPath() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, mailClientKey, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("opening mail client key: %w", err)
	}
	defer key.Close()

	path, _, err := key.GetStringValue("DLLPathEx")
	if err != nil {
		return "", fmt.Errorf("reading DLLPathEx: %w", err)
	}
	if path == "" {
		return "", fmt.Errorf("empty DLLPathEx")
	}
	return path, nil
}

// officeComponentPath resolves the install path of an Office executable via
// the MSI qualified-component database and returns the olmapi32.dll path in
// the same directory.
func officeComponentPath(category, qualifier string, installMode uint32) (string, error) {
	pCategory, err := windows.UTF16PtrFromString(category)
	if err != nil {
		return "", err
	}
	pQualifier, err := windows.UTF16PtrFromString(qualifier)
	if err != nil {
		return "", err
	}

	var size uint32
	r1, _, _ := procMsiProvideQualifiedComponentW.Call(
		uintptr(unsafe.Pointer(pCategory)),
		uintptr(unsafe.Pointer(pQualifier)),
		uintptr(installMode),
		0,
		uintptr(unsafe.Pointer(&size)))
	if r1 != 0 {
		return "", fmt.Errorf("component %s/%s not installed", category, qualifier)
	}

	size++
	buf := make([]uint16, size)
	r1, _, _ = procMsiProvideQualifiedComponentW.Call(
		uintptr(unsafe.Pointer(pCategory)),
		uintptr(unsafe.Pointer(pQualifier)),
		uintptr(installMode),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&size)))
	if r1 != 0 {
		return "", fmt.Errorf("component %s/%s not resolvable", category, qualifier)
	}

	exePath := windows.UTF16ToString(buf)
	dllPath := filepath.Join(filepath.Dir(exePath), olmapi32DLL)
	if _, err := os.Stat(dllPath); err != nil {
		return "", fmt.Errorf("no %s next to %s", olmapi32DLL, exePath)
	}
	return dllPath, nil
}
