package render

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// asciiChars maps luminance to glyphs, darkest first.
const asciiChars = " .:-=+*#%@"

// ImageToASCII converts the avatar image at path into width x height lines
// of ASCII art.
func ImageToASCII(path string, width, height int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open avatar image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode avatar image: %w", err)
	}
	return grayToASCII(scaleGray(src, width, height)), nil
}

// scaleGray converts src to grayscale at the requested cell dimensions.
func scaleGray(src image.Image, width, height int) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(gray, gray.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return gray
}

func grayToASCII(gray *image.Gray) []string {
	bounds := gray.Bounds()
	lines := make([]string, 0, bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		line := make([]byte, 0, bounds.Dx())
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			idx := int(gray.GrayAt(x, y).Y) * len(asciiChars) / 256
			if idx >= len(asciiChars) {
				idx = len(asciiChars) - 1
			}
			line = append(line, asciiChars[idx])
		}
		lines = append(lines, string(line))
	}
	return lines
}
