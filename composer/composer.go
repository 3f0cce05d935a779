// Package composer builds chat requests from user input and catalogue
// selections, and appends generation flags to parsed generation text.
package composer

import (
	"strings"

	"promptwizard/catalog"
)

// Selection is one resolved option choice: the dimension's display name and
// the tag to embed in the user message. Selections whose tag is the
// unspecified sentinel are dropped during composition.
type Selection struct {
	Dimension string
	Tag       string
}

// Request is the composed pair of messages sent to the chat endpoint.
type Request struct {
	SystemInstruction string
	UserMessage       string
}

// VisionInstruction asks a vision model for a single description/generation
// pair. The vision flow uses the lightweight DESC/GEN format, not the
// four-marker dual-plan format.
const VisionInstruction = "Describe this image for an AI image generator. " +
	"Reply with exactly two lines and nothing else:\n" +
	"DESC: <short description of the image in the user's language>\n" +
	"GEN: <detailed English generation prompt reproducing the image>"

// Compose builds the system instruction and user message for one generation
// request.
//
// The user message is the free text followed by a comma-joined list of
// "Dimension: tag" fragments for every selection that is not unspecified.
// With no usable selections the free text passes through unchanged. Free
// text is not length-capped and marker-like substrings are not escaped; a
// user who types the literal marker tokens can corrupt parsing downstream.
func Compose(mode catalog.Mode, freeText string, selections []Selection) Request {
	fragments := make([]string, 0, len(selections))
	for _, sel := range selections {
		if sel.Tag == catalog.TagUnspecified {
			continue
		}
		fragments = append(fragments, sel.Dimension+": "+sel.Tag)
	}

	message := freeText
	if len(fragments) > 0 {
		message = freeText + ". " + strings.Join(fragments, ", ")
	}

	return Request{
		SystemInstruction: mode.Instruction,
		UserMessage:       message,
	}
}

// SelectionsFromMap resolves a raw dimension->tag map into ordered
// selections, following the mode's dimension order so the composed message
// is deterministic. Custom tags are substituted with their free-text value
// via catalog.ResolveTag; unknown dimensions are ignored.
func SelectionsFromMap(mode catalog.Mode, raw map[string]string, custom map[string]string) []Selection {
	out := make([]Selection, 0, len(mode.Dimensions))
	for _, dim := range catalog.DimensionsForMode(mode) {
		tag, ok := raw[string(dim.ID)]
		if !ok {
			continue
		}
		resolved := catalog.ResolveTag(tag, strings.TrimSpace(custom[string(dim.ID)]))
		out = append(out, Selection{Dimension: dim.Name, Tag: resolved})
	}
	return out
}
