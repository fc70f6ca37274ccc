package render

import (
	"fmt"
	"strings"
)

// lineWidth is the character budget for dot-padded key/value lines.
const lineWidth = 58

// escapeXML escapes the characters that would break tspan content.
func escapeXML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	return text
}

func dotRun(count int) string {
	if count < 2 {
		count = 2
	}
	return strings.Repeat(".", count) + " "
}

// makeHeader builds a section header padded with em-dashes to totalWidth
// characters, e.g. "- Activity ————————————————-—-".
func makeHeader(x, y int, title string, totalWidth int) string {
	prefix := fmt.Sprintf("- %s ", title)
	suffix := "-—-"
	dashes := totalWidth - len([]rune(prefix)) - len([]rune(suffix))
	if dashes < 1 {
		dashes = 1
	}
	return fmt.Sprintf(`<tspan x="%d" y="%d">%s</tspan>%s%s`, x, y, prefix, strings.Repeat("—", dashes), suffix)
}

// makeLine builds one ". Key: .... Value" line with dot padding sized so the
// line occupies width characters.
func makeLine(x, y int, key, value string, width int) string {
	dots := dotRun(width - (len(key) + 4) - len(value))
	return fmt.Sprintf(`<tspan x="%d" y="%d" class="cc">. </tspan><tspan class="key">%s</tspan>:<tspan class="cc"> %s</tspan><tspan class="value">%s</tspan>`,
		x, y, key, dots, value)
}

// makeDottedLine builds a "Prefix.Suffix: .... Value" line.
func makeDottedLine(x, y int, prefix, suffix, value string, width int) string {
	key := prefix + "." + suffix
	dots := dotRun(width - (len(key) + 4) - len(value))
	return fmt.Sprintf(`<tspan x="%d" y="%d" class="cc">. </tspan><tspan class="key">%s</tspan>.<tspan class="key">%s</tspan>:<tspan class="cc"> %s</tspan><tspan class="value">%s</tspan>`,
		x, y, prefix, suffix, dots, value)
}

// makeDoubleLine builds a line with two key/value pairs separated by "|",
// each padded to its own width.
func makeDoubleLine(x, y int, key1, val1, key2, val2 string, width1, width2 int) string {
	dots1 := dotRun(width1 - (len(key1) + 4) - len(val1))
	dots2 := dotRun(width2 - (len(key2) + 2) - len(val2))
	return fmt.Sprintf(`<tspan x="%d" y="%d" class="cc">. </tspan><tspan class="key">%s</tspan>:<tspan class="cc"> %s</tspan><tspan class="value">%s</tspan><tspan class="cc"> | </tspan><tspan class="key">%s</tspan>:<tspan class="cc"> %s</tspan><tspan class="value">%s</tspan>`,
		x, y, key1, dots1, val1, key2, dots2, val2)
}

// makeLOCLine builds the "Lines of Code" line with the net total on the left
// and space-padded additions/deletions on the right.
func makeLOCLine(x, y int, total, additions, deletions string, width1, width2 int) string {
	const key = "Lines of Code"
	dots := dotRun(width1 - (len(key) + 4) - len(total))

	addStr := additions + "++"
	delStr := deletions + "--"
	spaces := width2 - (len(addStr) + 2 + len(delStr))
	if spaces < 1 {
		spaces = 1
	}
	return fmt.Sprintf(`<tspan x="%d" y="%d" class="cc">. </tspan><tspan class="key">%s</tspan>:<tspan class="cc"> %s</tspan><tspan class="value">%s</tspan><tspan class="cc"> |%s</tspan><tspan class="add">%s</tspan><tspan class="cc">, </tspan><tspan class="del">%s</tspan>`,
		x, y, key, dots, total, strings.Repeat(" ", spaces), addStr, delStr)
}
