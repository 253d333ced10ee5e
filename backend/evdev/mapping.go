//go:build linux

package evdev

import "github.com/Danondso/keyweave/keyname"

// keyRow is one row of the evdev code table.
type keyRow struct {
	code   uint16
	name   string
	keypad bool
}

// keyTable maps evdev key codes to canonical names. Keypad digits
// carry their navigation names too, matching what the kernel reports
// with num lock off.
var keyTable = []keyRow{
	{1, "esc", false},
	{2, "1", false}, {3, "2", false}, {4, "3", false}, {5, "4", false},
	{6, "5", false}, {7, "6", false}, {8, "7", false}, {9, "8", false},
	{10, "9", false}, {11, "0", false},
	{12, "-", false}, {13, "=", false},
	{14, "backspace", false},
	{15, "tab", false},
	{16, "q", false}, {17, "w", false}, {18, "e", false}, {19, "r", false},
	{20, "t", false}, {21, "y", false}, {22, "u", false}, {23, "i", false},
	{24, "o", false}, {25, "p", false},
	{26, "[", false}, {27, "]", false},
	{28, "enter", false},
	{29, "left ctrl", false},
	{30, "a", false}, {31, "s", false}, {32, "d", false}, {33, "f", false},
	{34, "g", false}, {35, "h", false}, {36, "j", false}, {37, "k", false},
	{38, "l", false},
	{39, ";", false}, {40, "'", false}, {41, "`", false},
	{42, "left shift", false},
	{43, "\\", false},
	{44, "z", false}, {45, "x", false}, {46, "c", false}, {47, "v", false},
	{48, "b", false}, {49, "n", false}, {50, "m", false},
	{51, ",", false}, {52, ".", false}, {53, "/", false},
	{54, "right shift", false},
	{55, "*", true},
	{56, "left alt", false},
	{57, "space", false},
	{58, "caps lock", false},
	{59, "f1", false}, {60, "f2", false}, {61, "f3", false}, {62, "f4", false},
	{63, "f5", false}, {64, "f6", false}, {65, "f7", false}, {66, "f8", false},
	{67, "f9", false}, {68, "f10", false},
	{69, "num lock", false},
	{70, "scroll lock", false},
	{71, "7", true}, {72, "8", true}, {73, "9", true},
	{74, "-", true},
	{75, "4", true}, {76, "5", true}, {77, "6", true},
	{78, "+", true},
	{79, "1", true}, {80, "2", true}, {81, "3", true},
	{82, "0", true}, {83, ".", true},
	{87, "f11", false}, {88, "f12", false},
	{96, "enter", true},
	{97, "right ctrl", false},
	{98, "/", true},
	{100, "right alt", false},
	{102, "home", false},
	{103, "up", false},
	{104, "page up", false},
	{105, "left", false},
	{106, "right", false},
	{107, "end", false},
	{108, "down", false},
	{109, "page down", false},
	{110, "insert", false},
	{111, "delete", false},
	{119, "pause", false},
	{125, "left windows", false},
	{126, "right windows", false},
	{127, "menu", false},
	{183, "f13", false}, {184, "f14", false}, {185, "f15", false},
	{186, "f16", false}, {187, "f17", false}, {188, "f18", false},
	{189, "f19", false}, {190, "f20", false}, {191, "f21", false},
	{192, "f22", false}, {193, "f23", false}, {194, "f24", false},
}

// keypadNav adds the navigation aliases keypad keys report with num
// lock off.
var keypadNav = map[uint16]string{
	71: "home",
	73: "page up",
	79: "end",
	81: "page down",
}

func mappingEntries() []keyname.Entry {
	entries := make([]keyname.Entry, 0, len(keyTable)+len(keypadNav))
	for _, row := range keyTable {
		entries = append(entries, keyname.Entry{Code: row.code, Name: row.name, IsKeypad: row.keypad})
		if nav, ok := keypadNav[row.code]; ok && row.keypad {
			entries = append(entries, keyname.Entry{Code: row.code, Name: nav, IsKeypad: true})
		}
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

// letterCodes are the scan codes whose canonical name is a single
// letter; device autodetection requires all of them.
var letterCodes = func() map[uint16]bool {
	m := make(map[uint16]bool)
	for _, row := range keyTable {
		if len(row.name) == 1 && row.name[0] >= 'a' && row.name[0] <= 'z' {
			m[row.code] = true
		}
	}
	return m
}()
