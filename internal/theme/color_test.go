package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHex(t *testing.T) {
	c, ok := parseHex("#FF8000")
	assert.True(t, ok)
	assert.Equal(t, rgb{r: 255, g: 128, b: 0}, c)

	c, ok = parseHex("00ff00")
	assert.True(t, ok)
	assert.Equal(t, rgb{g: 255}, c)

	for _, bad := range []string{"", "#FFF", "#GGGGGG", "#FF80001"} {
		_, ok := parseHex(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 0.0, Luminance("#000000"), 1e-9)
	assert.InDelta(t, 1.0, Luminance("#FFFFFF"), 1e-9)

	// Green dominates the perceived brightness.
	assert.Greater(t, Luminance("#00FF00"), Luminance("#FF0000"))
	assert.Greater(t, Luminance("#FF0000"), Luminance("#0000FF"))

	// Unparseable counts as dark.
	assert.Equal(t, 0.0, Luminance("not-a-color"))
}
