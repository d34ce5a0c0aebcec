//go:build windows

package mapi

import (
	"fmt"
	"strings"
	"testing"

	"github.com/0xrawsec/toast"
)

func TestGUID(t *testing.T) {
	t.Parallel()

	var g *GUID
	var err error

	tt := toast.FromT(t)

	// with curly brackets
	guid := "{00020329-0000-0000-c000-000000000046}"
	g, err = ParseGUID(guid)
	tt.CheckErr(err)
	tt.Assert(!g.IsZero())
	tt.Assert(strings.EqualFold(guid, g.String()))
	tt.Assert(g.Equals(&PS_PUBLIC_STRINGS))

	guid = "5812c571-53f0-4467-befa-0a4f47a9437c"
	g, err = ParseGUID(guid)
	tt.CheckErr(err)
	tt.Assert(!g.IsZero())
	tt.Assert(strings.EqualFold(fmt.Sprintf("{%s}", guid), g.String()))

	guid = "00000000-0000-0000-0000-000000000000"
	g, err = ParseGUID(guid)
	tt.CheckErr(err)
	tt.Assert(g.IsZero())
	tt.Assert(g.String() == nullGUIDStr)

	_, err = ParseGUID("not-a-guid")
	tt.Assert(err != nil)

	tt.ShouldPanic(func() { MustParseGUID("not-a-guid") })
}

func TestGUIDEquality(t *testing.T) {
	t.Parallel()

	tt := toast.FromT(t)
	g1 := IID_IMsgStore
	g2 := IID_IMsgStore

	tt.Assert(g1.Equals(&g2))

	// testing Data1
	g2.Data1++
	tt.Assert(!g1.Equals(&g2))

	// testing Data2
	g2 = IID_IMsgStore
	g2.Data2++
	tt.Assert(!g1.Equals(&g2))

	// testing Data3
	g2 = IID_IMsgStore
	g2.Data3++
	tt.Assert(!g1.Equals(&g2))

	// testing Data4
	for i := 0; i < 8; i++ {
		g2 = IID_IMsgStore
		g2.Data4[i]++
		tt.Assert(!g1.Equals(&g2))
	}
}

func TestGUIDRoundTrip(t *testing.T) {
	t.Parallel()

	tt := toast.FromT(t)

	for _, src := range []GUID{PS_PUBLIC_STRINGS, IID_IMsgStore, {Data1: 0xDEADBEEF, Data2: 0x1234}} {
		parsed, err := ParseGUID(src.String())
		tt.CheckErr(err)
		tt.Assert(parsed.Equals(&src))
	}
}
