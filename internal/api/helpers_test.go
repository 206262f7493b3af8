package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductRef(t *testing.T) {
	cases := []struct {
		in     any
		want   uint
		wantOK bool
	}{
		{nil, 0, false},
		{"", 0, false},
		{"  ", 0, false},
		{"abc", 0, false},
		{"12", 12, true},
		{json.Number("7"), 7, true},
		{json.Number("-3"), 0, false},
		{float64(5), 5, true},
		{"0", 0, false},
	}
	for _, c := range cases {
		got, ok := productRef(c.in)
		assert.Equal(t, c.wantOK, ok, "%#v", c.in)
		assert.Equal(t, c.want, got, "%#v", c.in)
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "", text(nil))
	assert.Equal(t, "", text(false))
	assert.Equal(t, "true", text(true))
	assert.Equal(t, "Ann", text("Ann"))
	assert.Equal(t, "42", text(float64(42)))
	assert.Equal(t, "1.50", text(json.Number("1.50")))
	assert.Equal(t, "", text(map[string]any{"a": 1}))
	assert.Equal(t, "", text(float64(0)))
	assert.Equal(t, "", text(json.Number("0")))
	assert.Equal(t, "", text(json.Number("0.00")))
	assert.Equal(t, "0", text("0"), "a submitted string is kept as typed")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ümlä", truncate("ümläut", 4))
}
