//go:build windows
// +build windows

package mapi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	nullGUIDStr = "{00000000-0000-0000-0000-000000000000}"
)

var (
	nullGUID = GUID{}
)

/*
typedef struct _GUID {
	DWORD Data1;
	WORD Data2;
	WORD Data3;
	BYTE Data4[8];
} GUID;
*/

// GUID structure
// Example: {00020328-0000-0000-C000-000000000046} =
// GUID(0x00020328, 0x0000, 0x0000, [8]byte{0xc0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46})
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// Named property set and interface identifiers this layer works with.
var (
	// PS_PUBLIC_STRINGS is the property set for user defined named properties.
	PS_PUBLIC_STRINGS = GUID{0x00020329, 0x0000, 0x0000, [8]byte{0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}}

	// IID_IMsgStore identifies the message store interface for OpenMsgStore.
	IID_IMsgStore = GUID{0x00020306, 0x0000, 0x0000, [8]byte{0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}}
)

// IsZero checks if GUID is all zeros
func (g *GUID) IsZero() bool {
	return g.Equals(&nullGUID)
}

const hexUpper = "0123456789ABCDEF"

// UPPERCASE String representation of the GUID
func (g *GUID) String() string {
	var b [38]byte
	b[0] = '{'
	b[37] = '}'

	// Avoid slice allocations
	var raw [16]byte
	raw[0] = byte(g.Data1 >> 24)
	raw[1] = byte(g.Data1 >> 16)
	raw[2] = byte(g.Data1 >> 8)
	raw[3] = byte(g.Data1)
	raw[4] = byte(g.Data2 >> 8)
	raw[5] = byte(g.Data2)
	raw[6] = byte(g.Data3 >> 8)
	raw[7] = byte(g.Data3)
	copy(raw[8:], g.Data4[:])

	dst := 1
	for i, c := range raw {
		b[dst] = hexUpper[c>>4]
		b[dst+1] = hexUpper[c&0x0F]
		dst += 2
		switch i {
		case 3, 5, 7, 9:
			b[dst] = '-'
			dst++
		}
	}

	return string(b[:])
}

func (g *GUID) Equals(other *GUID) bool {
	return g.Data1 == other.Data1 &&
		g.Data2 == other.Data2 &&
		g.Data3 == other.Data3 &&
		g.Data4 == other.Data4
}

var (
	guidRE = regexp.MustCompile(`^\{?[A-F0-9]{8}-[A-F0-9]{4}-[A-F0-9]{4}-[A-F0-9]{4}-[A-F0-9]{12}\}?$`)
)

// MustParseGUID parses a guid string into a GUID struct or panics
func MustParseGUID(sguid string) (guid *GUID) {
	var err error
	if guid, err = ParseGUID(sguid); err != nil {
		panic(err)
	}
	return
}

// ParseGUID parses a guid string into a GUID structure
func ParseGUID(guid string) (g *GUID, err error) {
	var u uint64

	g = &GUID{}
	guid = strings.ToUpper(guid)
	if !guidRE.MatchString(guid) {
		return nil, fmt.Errorf("bad GUID format")
	}
	guid = strings.Trim(guid, "{}")
	sp := strings.Split(guid, "-")

	if u, err = strconv.ParseUint(sp[0], 16, 32); err != nil {
		return
	}
	g.Data1 = uint32(u)
	if u, err = strconv.ParseUint(sp[1], 16, 16); err != nil {
		return
	}
	g.Data2 = uint16(u)
	if u, err = strconv.ParseUint(sp[2], 16, 16); err != nil {
		return
	}
	g.Data3 = uint16(u)
	if u, err = strconv.ParseUint(sp[3], 16, 16); err != nil {
		return
	}
	g.Data4[0] = uint8(u >> 8)
	g.Data4[1] = uint8(u & 0xff)
	if u, err = strconv.ParseUint(sp[4], 16, 64); err != nil {
		return
	}
	g.Data4[2] = uint8((u >> 40))
	g.Data4[3] = uint8((u >> 32) & 0xff)
	g.Data4[4] = uint8((u >> 24) & 0xff)
	g.Data4[5] = uint8((u >> 16) & 0xff)
	g.Data4[6] = uint8((u >> 8) & 0xff)
	g.Data4[7] = uint8(u & 0xff)

	return
}
