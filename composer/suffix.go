package composer

import (
	"strconv"
	"strings"

	"promptwizard/catalog"
)

// Slider bounds for the stylize and chaos flags.
const (
	MaxStylize = 1000
	MaxChaos   = 100
)

// Flags holds the trailing generation parameters appended to generation
// text. The zero value of Ratio is replaced with the catalogue default.
type Flags struct {
	// Ratio is the aspect ratio, e.g. "16:9". Always emitted.
	Ratio string

	// Stylize is the stylization slider, clamped to [0, 1000].
	Stylize int

	// Chaos is the variety slider, clamped to [0, 100].
	Chaos int

	// Negative is the comma-separated negative prompt terms. Emitted only
	// when non-empty.
	Negative string
}

// Suffix renders the flag string for the given mode. The aspect ratio flag
// is always present; the stylize, chaos and negative flags are emitted only
// for flag-carrying modes (natural-language output must read as prose).
//
// The result is deterministic: identical inputs yield byte-identical output.
func Suffix(mode catalog.Mode, f Flags) string {
	ratio := f.Ratio
	if ratio == "" {
		ratio = catalog.AspectRatios()[0]
	}

	var b strings.Builder
	b.WriteString("--ar ")
	b.WriteString(ratio)

	if mode.AppendFlags {
		b.WriteString(" --s ")
		b.WriteString(strconv.Itoa(clamp(f.Stylize, 0, MaxStylize)))
		b.WriteString(" --c ")
		b.WriteString(strconv.Itoa(clamp(f.Chaos, 0, MaxChaos)))
		if negative := strings.TrimSpace(f.Negative); negative != "" {
			b.WriteString(" --no ")
			b.WriteString(negative)
		}
	}

	return b.String()
}

// RatioSuffix renders only the aspect-ratio flag. Used by flows that carry
// no stylize, chaos or negative inputs, such as image description. An empty
// ratio falls back to the catalogue default.
func RatioSuffix(ratio string) string {
	if ratio == "" {
		ratio = catalog.AspectRatios()[0]
	}
	return "--ar " + ratio
}

// ApplySuffix appends a flag suffix to generation text with a single
// separating space. The generation text is trimmed first so repeated
// application points stay stable.
func ApplySuffix(generation, suffix string) string {
	generation = strings.TrimSpace(generation)
	if suffix == "" {
		return generation
	}
	if generation == "" {
		return suffix
	}
	return generation + " " + suffix
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
