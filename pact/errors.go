package pact

import "errors"

// ErrKeyLengthMismatch is returned when a caller supplies a key whose length
// does not match the tree's fixed key width K.
var ErrKeyLengthMismatch = errors.New("pact: key length does not match tree width")
