// Package catalog holds the static catalogue of generation modes and style
// option dimensions. Everything here is pure data: no I/O, no side effects.
package catalog

import (
	"strings"
	"unicode"
)

// ModeID identifies a generation mode. Modes are a closed enumeration;
// behavior differences between modes (instruction template, option set,
// whether trailing flags are appended) are carried as data on the Mode
// struct rather than branched on human-readable labels.
type ModeID int

const (
	// ModeStandard is the generic keyword-expansion mode.
	ModeStandard ModeID = iota

	// ModeMinimal produces short comma-separated keyword lists.
	ModeMinimal

	// ModeAnime produces anime-styled keyword prompts.
	ModeAnime

	// ModePhoto produces photorealistic photography prompts.
	ModePhoto

	// ModeRender3D produces 3D-render styled prompts.
	ModeRender3D

	// ModeNatural produces prose descriptions. Natural-language output must
	// read as running text, so trailing tag-style flags (--s, --c, --no) are
	// suppressed for this mode; only the aspect ratio flag is appended.
	ModeNatural

	// ModeArchViz produces architecture visualization prompts.
	ModeArchViz

	// ModeArchConcept produces architecture design-concept prompts.
	ModeArchConcept
)

// Mode describes a single generation mode. The instruction template asks the
// model for the two-plan marker format consumed by the parser package.
type Mode struct {
	// ID is the stable identifier for this mode.
	ID ModeID

	// Label is the human-readable name shown in the UI. Labels have varied
	// across catalogue versions (decorations, emoji), which is why lookup
	// falls back to a leading-token prefix match.
	Label string

	// Instruction is the system message sent with every request in this mode.
	Instruction string

	// Dimensions are the option dimensions selectable in this mode, in
	// display order.
	Dimensions []DimensionID

	// AppendFlags reports whether stylize/chaos/negative flags are appended
	// to the generation text. False for the natural-language family.
	AppendFlags bool
}

// dualPlanFormat is appended to every mode instruction so the model replies
// in the marker format the parser expects: description and generation text
// for a conservative plan A and a more creative plan B.
const dualPlanFormat = "Reply with exactly four sections in this order and nothing else:\n" +
	"===PLAN_A_CN===\n<short description of plan A in the user's language>\n" +
	"===PLAN_A_EN===\n<generation text of plan A in English>\n" +
	"===PLAN_B_CN===\n<short description of plan B in the user's language>\n" +
	"===PLAN_B_EN===\n<generation text of plan B in English>\n" +
	"Plan A is a faithful, conservative rendering of the request. " +
	"Plan B is a bolder, more creative rendering of the same request."

var modes = []Mode{
	{
		ID:    ModeStandard,
		Label: "Standard",
		Instruction: "You are an expert prompt writer for AI image generation. " +
			"Translate the user's description into English and expand it into a rich keyword prompt, " +
			"weaving in any lighting, camera and material requirements. Comma-separated keywords. " + dualPlanFormat,
		Dimensions:  []DimensionID{DimLighting, DimCamera, DimMaterial},
		AppendFlags: true,
	},
	{
		ID:    ModeMinimal,
		Label: "Minimal",
		Instruction: "Translate the user's description to English. Concise style: subject + style + lighting only. " +
			"Comma-separated keywords, no filler words. " + dualPlanFormat,
		Dimensions:  []DimensionID{DimLighting, DimCamera},
		AppendFlags: true,
	},
	{
		ID:    ModeAnime,
		Label: "Anime",
		Instruction: "Translate the user's description to English as an anime illustration prompt: " +
			"cel shading, vibrant colors, studio-quality animation style. Comma-separated keywords. " + dualPlanFormat,
		Dimensions:  []DimensionID{DimLighting, DimCamera},
		AppendFlags: true,
	},
	{
		ID:    ModePhoto,
		Label: "Photography",
		Instruction: "Translate the user's description to English as a photorealistic photography prompt: " +
			"8k, highly detailed, full-frame camera, prime lens, realistic exposure. Comma-separated keywords. " + dualPlanFormat,
		Dimensions:  []DimensionID{DimLighting, DimCamera, DimMaterial},
		AppendFlags: true,
	},
	{
		ID:    ModeRender3D,
		Label: "3D Render",
		Instruction: "Translate the user's description to English as a 3D render prompt: " +
			"octane render, ray tracing, physically based materials, 8k resolution. Comma-separated keywords. " + dualPlanFormat,
		Dimensions:  []DimensionID{DimLighting, DimCamera, DimMaterial},
		AppendFlags: true,
	},
	{
		ID:    ModeNatural,
		Label: "Natural Language",
		Instruction: "Translate the user's description into fluent English prose suitable for a natural-language " +
			"image model. Write complete sentences, no keyword lists, no parameter flags. " + dualPlanFormat,
		Dimensions:  []DimensionID{DimLighting, DimCamera},
		AppendFlags: false,
	},
	{
		ID:    ModeArchViz,
		Label: "Architecture Visualization",
		Instruction: "Translate the user's description to English as an architectural visualization prompt: " +
			"accurate massing, realistic materials, context and entourage, professional archviz rendering. " +
			"Comma-separated keywords. " + dualPlanFormat,
		Dimensions:  []DimensionID{DimLighting, DimCamera, DimMaterial, DimArchStyle},
		AppendFlags: true,
	},
	{
		ID:    ModeArchConcept,
		Label: "Architecture Concept",
		Instruction: "Translate the user's description to English as an early-stage architectural design concept " +
			"prompt: diagrammatic massing, conceptual atmosphere, loose and evocative. Comma-separated keywords. " + dualPlanFormat,
		Dimensions:  []DimensionID{DimLighting, DimMaterial, DimArchStyle},
		AppendFlags: true,
	},
}

// DefaultMode is the mode used when a label cannot be resolved. The fallback
// is required behavior: catalogue versions have renamed labels and a request
// carrying an unknown label must still produce output.
func DefaultMode() Mode {
	return modes[0]
}

// Modes returns all generation modes in display order.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// ModeByID returns the mode with the given ID, or the default mode if the
// ID is out of range.
func ModeByID(id ModeID) Mode {
	for _, m := range modes {
		if m.ID == id {
			return m
		}
	}
	return DefaultMode()
}

// ModeFromLabel resolves a human-readable mode label to a Mode.
//
// Resolution order:
//  1. exact label match
//  2. case-insensitive prefix match on the leading token, with emoji and
//     other decorations stripped ("📷 Photography (Pro)" resolves to
//     "Photography")
//  3. the default mode
func ModeFromLabel(label string) Mode {
	for _, m := range modes {
		if m.Label == label {
			return m
		}
	}

	token := leadingToken(label)
	if token != "" {
		for _, m := range modes {
			if strings.HasPrefix(strings.ToLower(m.Label), token) {
				return m
			}
		}
	}

	return DefaultMode()
}

// leadingToken extracts the first word of a label, lowercased, with any
// leading non-letter decoration (emoji, bullets) removed.
func leadingToken(label string) string {
	trimmed := strings.TrimLeftFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
