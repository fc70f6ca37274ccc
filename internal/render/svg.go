package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tmih06/profile-stats/internal/config"
	"github.com/tmih06/profile-stats/internal/domain"
)

const (
	fullCardWidth  = 985
	infoCardWidth  = 610
	asciiCardWidth = 390

	headerWidth  = 60
	maxASCIIRows = 25
)

// Card bundles everything the SVG cards display.
type Card struct {
	Username string
	Profile  config.Profile
	Stats    domain.UserStats
	Activity domain.ActivitySummary
	Lines    domain.CodeDelta
	Age      string
	ASCII    []string
}

// Height returns the card height in pixels, grown to fit the contact list.
func (c Card) Height() int {
	base := 270 + 20 + len(c.Profile.ContactItems())*20 + 20 + 100 + 80 + 50
	if base < 600 {
		return 600
	}
	return base
}

// Full renders the complete card: ASCII avatar on the left, profile and
// stats sections on the right.
func (c Card) Full(theme Theme) string {
	var b strings.Builder
	height := c.Height()
	writePrelude(&b, fullCardWidth, height, theme, true)
	writeASCIIBlock(&b, 15, c.ASCII, theme)
	fmt.Fprintf(&b, "<text x=\"390\" y=\"30\" fill=\"%s\">\n", theme.Text)
	c.writeInfoBody(&b, 390)
	b.WriteString("</text>\n</svg>")
	return b.String()
}

// ASCIIOnly renders the standalone avatar card. The height is passed in so
// the split cards line up when placed side by side.
func (c Card) ASCIIOnly(height int, theme Theme) string {
	var b strings.Builder
	writePrelude(&b, asciiCardWidth, height, theme, false)
	writeASCIIBlock(&b, 15, c.ASCII, theme)
	b.WriteString("</svg>")
	return b.String()
}

// Info renders the standalone profile/stats card.
func (c Card) Info(theme Theme) string {
	var b strings.Builder
	writePrelude(&b, infoCardWidth, c.Height(), theme, true)
	fmt.Fprintf(&b, "<text x=\"15\" y=\"30\" fill=\"%s\">\n", theme.Text)
	c.writeInfoBody(&b, 15)
	b.WriteString("</text>\n</svg>")
	return b.String()
}

func writePrelude(b *strings.Builder, width, height int, theme Theme, withClasses bool) {
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(b, "<svg xmlns=\"http://www.w3.org/2000/svg\" font-family=\"Consolas,monospace\" width=\"%dpx\" height=\"%dpx\" font-size=\"16px\">\n", width, height)
	b.WriteString("<style>\n")
	if withClasses {
		fmt.Fprintf(b, ".key {fill: %s;}\n", theme.Key)
		fmt.Fprintf(b, ".value {fill: %s;}\n", theme.Value)
		fmt.Fprintf(b, ".cc {fill: %s;}\n", theme.Dot)
		fmt.Fprintf(b, ".add {fill: %s;}\n", theme.Add)
		fmt.Fprintf(b, ".del {fill: %s;}\n", theme.Del)
	}
	b.WriteString("text, tspan {white-space: pre;}\n")
	b.WriteString("</style>\n")
	fmt.Fprintf(b, "<rect width=\"%dpx\" height=\"%dpx\" fill=\"%s\" rx=\"15\"/>\n", width, height, theme.Background)
}

func writeASCIIBlock(b *strings.Builder, x int, lines []string, theme Theme) {
	fmt.Fprintf(b, "<text x=\"%d\" y=\"30\" fill=\"%s\" class=\"ascii\">\n", x, theme.Text)
	for i, line := range lines {
		if i >= maxASCIIRows {
			break
		}
		fmt.Fprintf(b, "<tspan x=\"%d\" y=\"%d\">%s</tspan>\n", x, 30+i*20, escapeXML(line))
	}
	b.WriteString("</text>\n")
}

// writeInfoBody writes the profile, contact, activity and stats sections at
// the given x offset. The full and info cards share this layout.
func (c Card) writeInfoBody(b *strings.Builder, x int) {
	p := c.Profile
	title := p.Title
	if title == "" {
		title = c.Username + "@github"
	}
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	contactItems := p.ContactItems()

	commits := Comma(c.Activity.TotalCommits)
	prsOpened := strconv.Itoa(c.Activity.TotalPRs)
	prsReviewed := strconv.Itoa(c.Activity.TotalPRReviews)
	issues := strconv.Itoa(c.Stats.IssuesOpened)
	currentStreak := fmt.Sprintf("%d days", c.Activity.CurrentStreak)
	longestStreak := fmt.Sprintf("%d days", c.Activity.LongestStreak.Length)
	bestDay := strconv.Itoa(c.Activity.BestDay.Count)
	avgDay := fmt.Sprintf("~%.2f", c.Activity.AveragePerDay)

	repos := strconv.Itoa(c.Stats.Repositories)
	stars := strconv.Itoa(c.Stats.Stargazers)
	contributions := Comma(c.Activity.TotalContributions)
	followers := strconv.Itoa(c.Stats.Followers)

	writeln := func(line string) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	writeln(makeHeader(x, 30, title, headerWidth))
	writeln(makeLine(x, 50, "OS", orDefault(p.OS, "Linux"), lineWidth))
	writeln(makeLine(x, 70, "Uptime", c.Age, lineWidth))
	writeln(makeLine(x, 90, "Host", orDefault(p.Host, "Earth"), lineWidth))
	writeln(makeLine(x, 110, "Kernel", orDefault(p.Kernel, "Developer"), lineWidth))
	writeln(makeLine(x, 130, "IDE", orDefault(p.IDE, "VSCode"), lineWidth))
	writeln(fmt.Sprintf(`<tspan x="%d" y="150" class="cc">. </tspan>`, x))

	writeln(makeDottedLine(x, 170, "Languages", "Programming", orDefault(p.LanguagesProgramming, "Go"), lineWidth))
	writeln(makeDottedLine(x, 190, "Languages", "Real", orDefault(p.LanguagesReal, "English"), lineWidth))
	writeln(fmt.Sprintf(`<tspan x="%d" y="210" class="cc">. </tspan>`, x))

	writeln(makeDottedLine(x, 230, "Hobbies", "Software", orDefault(p.HobbiesSoftware, "Coding"), lineWidth))
	writeln(makeDottedLine(x, 250, "Hobbies", "Hardware", orDefault(p.HobbiesHardware, "Computers"), lineWidth))

	writeln(makeHeader(x, 290, "Contact", headerWidth))
	contactY := 310
	for _, item := range contactItems {
		writeln(makeLine(x, contactY, item.Label, item.Value, lineWidth))
		contactY += 20
	}

	activityY := 290 + 20 + len(contactItems)*20 + 20
	writeln(makeHeader(x, activityY, "Activity", headerWidth))
	writeln(makeDoubleLine(x, activityY+20, "Commits", commits, "PRs Opened", prsOpened, 28, 26))
	writeln(makeDoubleLine(x, activityY+40, "PRs Reviewed", prsReviewed, "Issues", issues, 28, 26))
	writeln(makeDoubleLine(x, activityY+60, "Current Streak", currentStreak, "Longest Streak", longestStreak, 28, 26))
	writeln(makeDoubleLine(x, activityY+80, "Best Day", bestDay+" commits", "Avg", avgDay+"/day", 28, 26))

	statsY := activityY + 120
	writeln(makeHeader(x, statsY, "GitHub Stats", headerWidth))
	writeln(makeDoubleLine(x, statsY+20, "Repos", repos, "Stars", stars, 32, 22))
	writeln(makeDoubleLine(x, statsY+40, "Contributions", contributions, "Followers", followers, 32, 22))
	writeln(makeLOCLine(x, statsY+60, Comma(c.Lines.Net()), Comma(c.Lines.Additions), Comma(c.Lines.Deletions), 32, 22))
}
