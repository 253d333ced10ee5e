package keyname

import "errors"

// ErrUnknownKey reports a key token that resolves to no scan code.
var ErrUnknownKey = errors.New("unknown key")
