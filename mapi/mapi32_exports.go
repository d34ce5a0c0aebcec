//go:build windows

//lint:file-ignore U1000 exports

package mapi

import (
	"fmt"
	"sync"

	"golang.org/x/sys/windows"
)

// Unlike most system DLLs the MAPI implementation is not a fixed name: the
// installed client decides which DLL provides the surface (see load_mapi.go).
// Procs therefore resolve lazily against the module picked at first use,
// mirroring what syscall.NewLazyDLL does for fixed names.
//
// Some of the classic entry points export stdcall-decorated names on 32-bit
// builds ("FreeProws@4"), so a proc may carry alternate spellings.

var loadModule = sync.OnceValues(loadMAPIModule)

type mapiProc struct {
	names []string
	once  sync.Once
	addr  uintptr
	err   error
}

func newMapiProc(names ...string) *mapiProc {
	return &mapiProc{names: names}
}

func (p *mapiProc) find() error {
	p.once.Do(func() {
		dll, err := loadModule()
		if err != nil {
			p.err = fmt.Errorf("mapi: loading implementation dll: %w", err)
			return
		}
		for _, name := range p.names {
			proc, err := dll.FindProc(name)
			if err == nil {
				p.addr = proc.Addr()
				return
			}
		}
		p.err = fmt.Errorf("mapi: %s not exported by %s", p.names[0], dll.Name)
	})
	return p.err
}

// Addr panics when the proc cannot be resolved, like syscall.LazyProc.Addr.
func (p *mapiProc) Addr() uintptr {
	if err := p.find(); err != nil {
		panic(err)
	}
	return p.addr
}

var (
	procMAPIInitialize     = newMapiProc("MAPIInitialize")
	procMAPIUninitialize   = newMapiProc("MAPIUninitialize")
	procMAPILogonEx        = newMapiProc("MAPILogonEx")
	procMAPIAllocateBuffer = newMapiProc("MAPIAllocateBuffer")
	procMAPIAllocateMore   = newMapiProc("MAPIAllocateMore")
	procMAPIFreeBuffer     = newMapiProc("MAPIFreeBuffer")
	procFreeProws          = newMapiProc("FreeProws", "FreeProws@4")
	procHrQueryAllRows     = newMapiProc("HrQueryAllRows", "HrQueryAllRows@24")

	msi                               = windows.NewLazySystemDLL("msi.dll")
	procMsiProvideQualifiedComponentW = msi.NewProc("MsiProvideQualifiedComponentW")
)
