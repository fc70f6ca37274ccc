package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "a &amp;&amp; b", escapeXML("a && b"))
	assert.Equal(t, "&lt;tag&gt;", escapeXML("<tag>"))
	assert.Equal(t, "plain", escapeXML("plain"))
}

func TestMakeLine_DotPadding(t *testing.T) {
	line := makeLine(390, 50, "OS", "Linux", 58)

	// Key is 2 chars + 4 for ". " and ": ", value is 5, so 47 dots remain.
	expected := fmt.Sprintf(
		`<tspan x="390" y="50" class="cc">. </tspan><tspan class="key">OS</tspan>:<tspan class="cc"> %s </tspan><tspan class="value">Linux</tspan>`,
		strings.Repeat(".", 47))
	assert.Equal(t, expected, line)
}

func TestMakeLine_MinimumDots(t *testing.T) {
	// An oversized value still gets at least two dots of padding.
	line := makeLine(15, 50, "Key", strings.Repeat("x", 80), 58)
	assert.Contains(t, line, "> .. <")
}

func TestMakeDottedLine(t *testing.T) {
	line := makeDottedLine(15, 170, "Languages", "Programming", "Go", 58)
	assert.Contains(t, line, `<tspan class="key">Languages</tspan>.<tspan class="key">Programming</tspan>:`)
	// "Languages.Programming" is 21 chars + 4, value is 2, so 31 dots.
	assert.Contains(t, line, strings.Repeat(".", 31)+" ")
}

func TestMakeDoubleLine(t *testing.T) {
	line := makeDoubleLine(390, 310, "Commits", "1,234", "PRs Opened", "56", 28, 26)
	assert.Contains(t, line, `<tspan class="key">Commits</tspan>`)
	assert.Contains(t, line, `<tspan class="value">1,234</tspan>`)
	assert.Contains(t, line, `<tspan class="cc"> | </tspan>`)
	// Left pair: 28 - (7+4) - 5 = 12 dots. Right pair: 26 - (10+2) - 2 = 12 dots.
	assert.Equal(t, 2, strings.Count(line, strings.Repeat(".", 12)+" "))
}

func TestMakeLOCLine(t *testing.T) {
	line := makeLOCLine(390, 470, "12,345", "20,000", "7,655", 32, 22)
	assert.Contains(t, line, `<tspan class="key">Lines of Code</tspan>`)
	assert.Contains(t, line, `<tspan class="add">20,000++</tspan>`)
	assert.Contains(t, line, `<tspan class="del">7,655--</tspan>`)
	// Right side: "20,000++" and "7,655--" plus ", " leave 5 spaces of padding.
	assert.Contains(t, line, "|"+strings.Repeat(" ", 5)+"<")
}

func TestMakeHeader_FillsToWidth(t *testing.T) {
	header := makeHeader(15, 30, "Contact", 60)

	assert.True(t, strings.HasPrefix(header, `<tspan x="15" y="30">- Contact </tspan>`))
	// Visible text (prefix + dashes + suffix) occupies exactly 60 runes.
	visible := "- Contact " + strings.Repeat("—", 47) + "-—-"
	assert.True(t, strings.HasSuffix(header, strings.Repeat("—", 47)+"-—-"))
	assert.Len(t, []rune(visible), 60)
}
