package export

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"

	"github.com/san-kum/seqsim/internal/bake"
)

// Palette names the path colors in draw order.
var Palette = []string{"deepskyblue", "orchid", "gold", "limegreen", "tomato", "turquoise", "orange", "violet"}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// PathsToSVG draws a top-down view (world X right, world Y up) of every
// entity's baked path, one color each, with a dot at its final position.
// Entities that never move are drawn as a single dot.
func PathsToSVG(result *bake.Result, width, height int) string {
	names := result.Entities()
	sort.Strings(names)

	paths := make(map[string][]mgl64.Vec3, len(names))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, name := range names {
		track := result.Track(name)
		paths[name] = track
		for _, p := range track {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(names) == 0 || math.IsInf(minX, 1) {
		sb.WriteString("</svg>")
		return sb.String()
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(p mgl64.Vec3) (float64, float64) {
		x := (p[0] - minX) / rangeX * float64(width)
		y := float64(height) - (p[1]-minY)/rangeY*float64(height)
		return x, y
	}

	for i, name := range names {
		stroke := hex(colornames.Map[Palette[i%len(Palette)]])
		track := paths[name]
		if len(track) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf(`<g id="%s">
<path fill="none" stroke="%s" stroke-width="1.5" d="M`, name, stroke))
		for j, p := range track {
			x, y := project(p)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		x, y := project(track[len(track)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-size="10" font-family="monospace">%s</text>
</g>
`, x, y, stroke, x+5, y-5, stroke, name))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
