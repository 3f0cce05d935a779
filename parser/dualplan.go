// Package parser splits free-text model replies into structured plans using
// fixed literal marker tokens.
//
// Parsing is deliberately forgiving: a reply that does not match the
// expected shape degrades to the raw text rather than failing. The caller
// paid for the completion and must always get something renderable back.
package parser

import "strings"

// Marker tokens, expected in a reply in exactly this order. The CN slot
// carries the description in the request language and the EN slot carries
// the generation text; the actual languages are an instruction concern, the
// parser treats them as opaque.
const (
	MarkerPlanADesc = "===PLAN_A_CN==="
	MarkerPlanAGen  = "===PLAN_A_EN==="
	MarkerPlanBDesc = "===PLAN_B_CN==="
	MarkerPlanBGen  = "===PLAN_B_EN==="
)

// FallbackDescription is the fixed sentinel used for plan descriptions when
// a reply cannot be segmented.
const FallbackDescription = "(parse failed - raw reply shown)"

// Plan is one description/generation pair.
type Plan struct {
	// Description summarizes the plan in the request language.
	Description string `json:"description"`

	// Generation is the generation-ready text in the target language.
	Generation string `json:"generation"`
}

// DualPlan holds the two alternative plans produced per request: A is the
// conservative rendering, B the more creative one.
type DualPlan struct {
	A Plan `json:"planA"`
	B Plan `json:"planB"`
}

var allMarkers = []string{MarkerPlanADesc, MarkerPlanAGen, MarkerPlanBDesc, MarkerPlanBGen}

// ParseDualPlan splits a reply into two plans on the marker tokens.
//
// The split keys off the PLAN_A_EN marker: everything before it (with the
// PLAN_A_CN marker stripped) is description A; the remainder is split at
// PLAN_B_CN into generation A and the B half, which is split again at
// PLAN_B_EN. All four segments are whitespace-trimmed.
//
// Any reply that cannot be segmented this way - a missing marker, or
// out-of-order/duplicated markers that leave marker text inside a segment -
// produces the degraded fallback: both generation texts are the raw reply
// verbatim and both descriptions are FallbackDescription. ParseDualPlan
// never fails.
func ParseDualPlan(reply string) DualPlan {
	plan, ok := segment(reply)
	if !ok {
		return fallback(reply)
	}
	return plan
}

func segment(reply string) (DualPlan, bool) {
	genAStart := strings.Index(reply, MarkerPlanAGen)
	if genAStart < 0 {
		return DualPlan{}, false
	}

	prefix := reply[:genAStart]
	descA := strings.Replace(prefix, MarkerPlanADesc, "", 1)

	rest := reply[genAStart+len(MarkerPlanAGen):]
	descBStart := strings.Index(rest, MarkerPlanBDesc)
	if descBStart < 0 {
		return DualPlan{}, false
	}
	genA := rest[:descBStart]

	rest = rest[descBStart+len(MarkerPlanBDesc):]
	genBStart := strings.Index(rest, MarkerPlanBGen)
	if genBStart < 0 {
		return DualPlan{}, false
	}
	descB := rest[:genBStart]
	genB := rest[genBStart+len(MarkerPlanBGen):]

	plan := DualPlan{
		A: Plan{Description: strings.TrimSpace(descA), Generation: strings.TrimSpace(genA)},
		B: Plan{Description: strings.TrimSpace(descB), Generation: strings.TrimSpace(genB)},
	}

	// Duplicated or out-of-order markers leave marker text inside a segment.
	// Treat that the same as a missing marker.
	for _, s := range []string{plan.A.Description, plan.A.Generation, plan.B.Description, plan.B.Generation} {
		if containsMarker(s) {
			return DualPlan{}, false
		}
	}

	return plan, true
}

func containsMarker(s string) bool {
	for _, m := range allMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func fallback(reply string) DualPlan {
	p := Plan{Description: FallbackDescription, Generation: reply}
	return DualPlan{A: p, B: p}
}
