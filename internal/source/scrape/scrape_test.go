package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestDigits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"42x", 42, true},
		{"1,234 plays", 1234, true},
		{" Total: 7x ", 7, true},
		{"12 of 13", 12, true},
		{"none", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := Digits(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFindAndText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div><span class="a badge">one <b>two</b></span><span class="badge">three</span></div>`))
	require.NoError(t, err)

	n := Find(doc, func(n *html.Node) bool {
		return IsElement(n, "span") && HasClass(n, "badge")
	})
	require.NotNil(t, n)
	assert.Equal(t, "one two", Text(n))
	assert.Equal(t, "a badge", Attr(n, "class"))

	assert.Nil(t, Find(doc, func(n *html.Node) bool { return IsElement(n, "table") }))
}
