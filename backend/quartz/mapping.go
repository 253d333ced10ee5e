//go:build darwin

package quartz

import "github.com/Danondso/keyweave/keyname"

type keyRow struct {
	code   uint16
	name   string
	keypad bool
}

// keyTable maps macOS virtual keycodes to canonical names. The
// command keys register as "windows" variants so hotkey strings stay
// portable across backends.
var keyTable = []keyRow{
	{0x00, "a", false}, {0x01, "s", false}, {0x02, "d", false},
	{0x03, "f", false}, {0x04, "h", false}, {0x05, "g", false},
	{0x06, "z", false}, {0x07, "x", false}, {0x08, "c", false},
	{0x09, "v", false}, {0x0B, "b", false}, {0x0C, "q", false},
	{0x0D, "w", false}, {0x0E, "e", false}, {0x0F, "r", false},
	{0x10, "y", false}, {0x11, "t", false},
	{0x12, "1", false}, {0x13, "2", false}, {0x14, "3", false},
	{0x15, "4", false}, {0x16, "6", false}, {0x17, "5", false},
	{0x18, "=", false}, {0x19, "9", false}, {0x1A, "7", false},
	{0x1B, "-", false}, {0x1C, "8", false}, {0x1D, "0", false},
	{0x1E, "]", false}, {0x1F, "o", false}, {0x20, "u", false},
	{0x21, "[", false}, {0x22, "i", false}, {0x23, "p", false},
	{0x24, "enter", false},
	{0x25, "l", false}, {0x26, "j", false}, {0x27, "'", false},
	{0x28, "k", false}, {0x29, ";", false}, {0x2A, "\\", false},
	{0x2B, ",", false}, {0x2C, "/", false}, {0x2D, "n", false},
	{0x2E, "m", false}, {0x2F, ".", false},
	{0x30, "tab", false},
	{0x31, "space", false},
	{0x32, "`", false},
	{0x33, "backspace", false},
	{0x35, "esc", false},
	{0x36, "right windows", false},
	{0x37, "left windows", false},
	{0x38, "left shift", false},
	{0x39, "caps lock", false},
	{0x3A, "left alt", false},
	{0x3B, "left ctrl", false},
	{0x3C, "right shift", false},
	{0x3D, "right alt", false},
	{0x3E, "right ctrl", false},
	{0x41, ".", true},
	{0x43, "*", true},
	{0x45, "+", true},
	{0x47, "num lock", true},
	{0x4B, "/", true},
	{0x4C, "enter", true},
	{0x4E, "-", true},
	{0x51, "=", true},
	{0x52, "0", true}, {0x53, "1", true}, {0x54, "2", true},
	{0x55, "3", true}, {0x56, "4", true}, {0x57, "5", true},
	{0x58, "6", true}, {0x59, "7", true}, {0x5B, "8", true},
	{0x5C, "9", true},
	{0x60, "f5", false}, {0x61, "f6", false}, {0x62, "f7", false},
	{0x63, "f3", false}, {0x64, "f8", false}, {0x65, "f9", false},
	{0x67, "f11", false}, {0x69, "f13", false}, {0x6A, "f16", false},
	{0x6B, "f14", false}, {0x6D, "f10", false}, {0x6F, "f12", false},
	{0x71, "f15", false}, {0x72, "insert", false}, {0x73, "home", false},
	{0x74, "page up", false}, {0x75, "delete", false},
	{0x76, "f4", false}, {0x77, "end", false}, {0x78, "f2", false},
	{0x79, "page down", false}, {0x7A, "f1", false},
	{0x7B, "left", false}, {0x7C, "right", false},
	{0x7D, "down", false}, {0x7E, "up", false},
}

func mappingEntries() []keyname.Entry {
	entries := make([]keyname.Entry, 0, len(keyTable))
	for _, row := range keyTable {
		entries = append(entries, keyname.Entry{Code: row.code, Name: row.name, IsKeypad: row.keypad})
	}
	return entries
}

var nameByCode = func() map[uint16]keyRow {
	m := make(map[uint16]keyRow, len(keyTable))
	for _, row := range keyTable {
		if _, seen := m[row.code]; !seen {
			m[row.code] = row
		}
	}
	return m
}()
