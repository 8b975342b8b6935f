package docnumber

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "FC-001/26", Format("FC", 1, 2026))
	assert.Equal(t, "P-014/26", Format("P", 14, 2026))
	assert.Equal(t, "R-123/99", Format("R", 123, 1999))
	// Sequences past three digits keep growing without truncation.
	assert.Equal(t, "FC-1000/26", Format("FC", 1000, 2026))
}

func TestSuffix(t *testing.T) {
	assert.Equal(t, "/26", Suffix(2026))
	assert.Equal(t, "/05", Suffix(2005))
}

func TestSequence(t *testing.T) {
	cases := []struct {
		number string
		want   int
		ok     bool
	}{
		{"FC-001/26", 1, true},
		{"P-014/26", 14, true},
		{"FC-1000/26", 1000, true},
		{"", 0, false},
		{"FC-abc/26", 0, false},
		{"FC-00126", 0, false},
		{"FC/26", 0, false},
	}
	for _, tc := range cases {
		got, ok := Sequence(tc.number)
		assert.Equal(t, tc.ok, ok, tc.number)
		assert.Equal(t, tc.want, got, tc.number)
	}
}

func TestNext(t *testing.T) {
	assert.Equal(t, "FC-001/26", Next("FC", "", 2026))
	assert.Equal(t, "FC-002/26", Next("FC", "FC-001/26", 2026))
	assert.Equal(t, "P-100/26", Next("P", "P-099/26", 2026))
	// Malformed last numbers restart at 1 instead of failing.
	assert.Equal(t, "R-001/26", Next("R", "garbage", 2026))
}
