package trible_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rskv-p/pact/trible"
)

func fill16(b byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func fill32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func TestTrible_FieldAccessorsRoundTrip(t *testing.T) {
	e := fill16(1)
	a := fill16(2)
	v := fill32(3)

	tr := trible.New(e, a, v)
	assert.Equal(t, e, tr.E())
	assert.Equal(t, a, tr.A())
	assert.Equal(t, v, tr.V())
}
