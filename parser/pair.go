package parser

import "strings"

// Prefixes for the single-pair reply format used by the vision flow.
const (
	PairDescPrefix = "DESC:"
	PairGenPrefix  = "GEN:"
)

// ParsePair extracts a single description/generation pair from a vision
// reply in the lightweight "DESC: ... GEN: ..." format.
//
// The DESC prefix must appear before the GEN prefix. A reply missing either
// prefix, or with them reversed, degrades the same way as the dual-plan
// parser: the raw reply becomes the generation text and the description is
// the fixed fallback sentinel. ParsePair never fails.
func ParsePair(reply string) Plan {
	descStart := strings.Index(reply, PairDescPrefix)
	if descStart < 0 {
		return Plan{Description: FallbackDescription, Generation: reply}
	}

	rest := reply[descStart+len(PairDescPrefix):]
	genStart := strings.Index(rest, PairGenPrefix)
	if genStart < 0 {
		return Plan{Description: FallbackDescription, Generation: reply}
	}

	return Plan{
		Description: strings.TrimSpace(rest[:genStart]),
		Generation:  strings.TrimSpace(rest[genStart+len(PairGenPrefix):]),
	}
}
