package fake

import "github.com/Danondso/keyweave/keyname"

// standardMapping is a plain US PC keyboard using the common set-1
// scan codes ("esc" is 1, "a" is 30, "space" is 57). Keypad digits
// also carry their navigation names, the way real keyboards report
// them with num lock off.
var standardMapping = []keyname.Entry{
	{Code: 1, Name: "esc"},
	{Code: 2, Name: "1"}, {Code: 3, Name: "2"}, {Code: 4, Name: "3"},
	{Code: 5, Name: "4"}, {Code: 6, Name: "5"}, {Code: 7, Name: "6"},
	{Code: 8, Name: "7"}, {Code: 9, Name: "8"}, {Code: 10, Name: "9"},
	{Code: 11, Name: "0"}, {Code: 12, Name: "-"}, {Code: 13, Name: "="},
	{Code: 14, Name: "backspace"},
	{Code: 15, Name: "tab"},
	{Code: 16, Name: "q"}, {Code: 17, Name: "w"}, {Code: 18, Name: "e"},
	{Code: 19, Name: "r"}, {Code: 20, Name: "t"}, {Code: 21, Name: "y"},
	{Code: 22, Name: "u"}, {Code: 23, Name: "i"}, {Code: 24, Name: "o"},
	{Code: 25, Name: "p"}, {Code: 26, Name: "["}, {Code: 27, Name: "]"},
	{Code: 28, Name: "enter"},
	{Code: 29, Name: "left ctrl"},
	{Code: 30, Name: "a"}, {Code: 31, Name: "s"}, {Code: 32, Name: "d"},
	{Code: 33, Name: "f"}, {Code: 34, Name: "g"}, {Code: 35, Name: "h"},
	{Code: 36, Name: "j"}, {Code: 37, Name: "k"}, {Code: 38, Name: "l"},
	{Code: 39, Name: ";"}, {Code: 40, Name: "'"}, {Code: 41, Name: "`"},
	{Code: 42, Name: "left shift"},
	{Code: 43, Name: "\\"},
	{Code: 44, Name: "z"}, {Code: 45, Name: "x"}, {Code: 46, Name: "c"},
	{Code: 47, Name: "v"}, {Code: 48, Name: "b"}, {Code: 49, Name: "n"},
	{Code: 50, Name: "m"}, {Code: 51, Name: ","}, {Code: 52, Name: "."},
	{Code: 53, Name: "/"},
	{Code: 54, Name: "right shift"},
	{Code: 55, Name: "*", IsKeypad: true},
	{Code: 56, Name: "left alt"},
	{Code: 57, Name: "space"},
	{Code: 58, Name: "caps lock"},
	{Code: 59, Name: "f1"}, {Code: 60, Name: "f2"}, {Code: 61, Name: "f3"},
	{Code: 62, Name: "f4"}, {Code: 63, Name: "f5"}, {Code: 64, Name: "f6"},
	{Code: 65, Name: "f7"}, {Code: 66, Name: "f8"}, {Code: 67, Name: "f9"},
	{Code: 68, Name: "f10"},
	{Code: 69, Name: "num lock"},
	{Code: 70, Name: "scroll lock"},
	{Code: 71, Name: "7", IsKeypad: true}, {Code: 71, Name: "home", IsKeypad: true},
	{Code: 72, Name: "8", IsKeypad: true},
	{Code: 73, Name: "9", IsKeypad: true}, {Code: 73, Name: "page up", IsKeypad: true},
	{Code: 74, Name: "-", IsKeypad: true},
	{Code: 75, Name: "4", IsKeypad: true},
	{Code: 76, Name: "5", IsKeypad: true},
	{Code: 77, Name: "6", IsKeypad: true},
	{Code: 78, Name: "+", IsKeypad: true},
	{Code: 79, Name: "1", IsKeypad: true}, {Code: 79, Name: "end", IsKeypad: true},
	{Code: 80, Name: "2", IsKeypad: true},
	{Code: 81, Name: "3", IsKeypad: true}, {Code: 81, Name: "page down", IsKeypad: true},
	{Code: 82, Name: "0", IsKeypad: true},
	{Code: 83, Name: ".", IsKeypad: true},
	{Code: 87, Name: "f11"}, {Code: 88, Name: "f12"},
	{Code: 96, Name: "enter", IsKeypad: true},
	{Code: 97, Name: "right ctrl"},
	{Code: 98, Name: "/", IsKeypad: true},
	{Code: 100, Name: "right alt"},
	{Code: 102, Name: "home"},
	{Code: 103, Name: "up"},
	{Code: 104, Name: "page up"},
	{Code: 105, Name: "left"},
	{Code: 106, Name: "right"},
	{Code: 107, Name: "end"},
	{Code: 108, Name: "down"},
	{Code: 109, Name: "page down"},
	{Code: 110, Name: "insert"},
	{Code: 111, Name: "delete"},
	{Code: 119, Name: "pause"},
	{Code: 125, Name: "left windows"},
	{Code: 126, Name: "right windows"},
	{Code: 127, Name: "menu"},
}

var (
	codeNames  = map[uint16]string{}
	codeKeypad = map[uint16]bool{}
)

func init() {
	for _, e := range standardMapping {
		if _, seen := codeNames[e.Code]; !seen {
			codeNames[e.Code] = e.Name
		}
		if e.IsKeypad {
			codeKeypad[e.Code] = true
		}
	}
}

func nameOf(code uint16) string { return codeNames[code] }

func keypadOf(code uint16) bool { return codeKeypad[code] }
