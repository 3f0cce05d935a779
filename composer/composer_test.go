package composer

import (
	"strings"
	"testing"

	"promptwizard/catalog"
)

func TestCompose(t *testing.T) {
	standard := catalog.ModeByID(catalog.ModeStandard)

	tests := []struct {
		name       string
		freeText   string
		selections []Selection
		want       string
	}{
		{
			name:     "single selection",
			freeText: "a red bicycle",
			selections: []Selection{
				{Dimension: "Lighting", Tag: "golden hour"},
				{Dimension: "Camera", Tag: catalog.TagUnspecified},
			},
			want: "a red bicycle. Lighting: golden hour",
		},
		{
			name:     "multiple selections comma joined",
			freeText: "a lighthouse on a cliff",
			selections: []Selection{
				{Dimension: "Lighting", Tag: "neon lighting"},
				{Dimension: "Camera", Tag: "aerial drone view"},
			},
			want: "a lighthouse on a cliff. Lighting: neon lighting, Camera: aerial drone view",
		},
		{
			name:     "all unspecified passes free text through",
			freeText: "a quiet courtyard",
			selections: []Selection{
				{Dimension: "Lighting", Tag: catalog.TagUnspecified},
				{Dimension: "Material", Tag: catalog.TagUnspecified},
			},
			want: "a quiet courtyard",
		},
		{
			name:       "no selections",
			freeText:   "a paper crane",
			selections: nil,
			want:       "a paper crane",
		},
		{
			name:     "empty free text passes through",
			freeText: "",
			selections: []Selection{
				{Dimension: "Lighting", Tag: "golden hour"},
			},
			want: ". Lighting: golden hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(standard, tt.freeText, tt.selections)
			if got.UserMessage != tt.want {
				t.Errorf("Compose() user message = %q, want %q", got.UserMessage, tt.want)
			}
			if got.SystemInstruction != standard.Instruction {
				t.Errorf("Compose() system instruction does not match mode instruction")
			}
		})
	}
}

func TestComposeNeverEmitsUnspecified(t *testing.T) {
	for _, mode := range catalog.Modes() {
		selections := make([]Selection, 0)
		for _, dim := range catalog.DimensionsForMode(mode) {
			selections = append(selections, Selection{Dimension: dim.Name, Tag: catalog.TagUnspecified})
		}
		got := Compose(mode, "subject", selections)
		if got.UserMessage != "subject" {
			t.Errorf("mode %q: unspecified selections leaked into message %q", mode.Label, got.UserMessage)
		}
	}
}

func TestSelectionsFromMap(t *testing.T) {
	mode := catalog.ModeByID(catalog.ModeArchViz)

	raw := map[string]string{
		"lighting":   "golden hour",
		"camera":     catalog.TagUnspecified,
		"material":   catalog.TagCustom,
		"arch_style": "brutalist concrete",
		"bogus":      "ignored",
	}
	custom := map[string]string{
		"material": "weathered copper",
	}

	got := SelectionsFromMap(mode, raw, custom)
	if len(got) != 4 {
		t.Fatalf("got %d selections, want 4", len(got))
	}

	// Order must follow the mode's dimension order.
	wantOrder := []string{"Lighting", "Camera", "Material", "Architecture style"}
	for i, sel := range got {
		if sel.Dimension != wantOrder[i] {
			t.Errorf("selection %d dimension = %q, want %q", i, sel.Dimension, wantOrder[i])
		}
	}

	if got[2].Tag != "weathered copper" {
		t.Errorf("custom selection tag = %q, want substituted free text", got[2].Tag)
	}
	if got[1].Tag != catalog.TagUnspecified {
		t.Errorf("unspecified selection tag = %q, want unspecified", got[1].Tag)
	}
}

func TestSelectionsFromMapEmptyCustomReverts(t *testing.T) {
	mode := catalog.ModeByID(catalog.ModeStandard)
	raw := map[string]string{"lighting": catalog.TagCustom}
	custom := map[string]string{"lighting": "   "}

	got := SelectionsFromMap(mode, raw, custom)
	if len(got) != 1 {
		t.Fatalf("got %d selections, want 1", len(got))
	}
	if got[0].Tag != catalog.TagUnspecified {
		t.Errorf("blank custom text should revert to unspecified, got %q", got[0].Tag)
	}

	msg := Compose(mode, "subject", got)
	if strings.Contains(msg.UserMessage, "Lighting") {
		t.Errorf("reverted custom selection leaked into message %q", msg.UserMessage)
	}
}
