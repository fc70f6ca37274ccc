// Package render turns the aggregated profile data into SVG cards.
package render

// Theme holds the color palette for one card variant.
type Theme struct {
	Background string
	Text       string
	Key        string
	Value      string
	Dot        string
	Add        string
	Del        string
}

// Dark is the GitHub dark-mode palette.
var Dark = Theme{
	Background: "#161b22",
	Text:       "#c9d1d9",
	Key:        "#ffa657",
	Value:      "#a5d6ff",
	Dot:        "#616e7f",
	Add:        "#3fb950",
	Del:        "#f85149",
}

// Light is the GitHub light-mode palette.
var Light = Theme{
	Background: "#ffffff",
	Text:       "#1f2328",
	Key:        "#953800",
	Value:      "#0550ae",
	Dot:        "#afb8c1",
	Add:        "#1a7f37",
	Del:        "#cf222e",
}
