package composer

import (
	"testing"

	"promptwizard/catalog"
)

func TestSuffix(t *testing.T) {
	standard := catalog.ModeByID(catalog.ModeStandard)
	natural := catalog.ModeByID(catalog.ModeNatural)

	tests := []struct {
		name string
		mode catalog.Mode
		f    Flags
		want string
	}{
		{
			name: "full flags",
			mode: standard,
			f:    Flags{Ratio: "16:9", Stylize: 250, Chaos: 0, Negative: "text, watermark"},
			want: "--ar 16:9 --s 250 --c 0 --no text, watermark",
		},
		{
			name: "empty negative omits no flag",
			mode: standard,
			f:    Flags{Ratio: "1:1", Stylize: 100, Chaos: 50},
			want: "--ar 1:1 --s 100 --c 50",
		},
		{
			name: "whitespace negative omits no flag",
			mode: standard,
			f:    Flags{Ratio: "1:1", Negative: "   "},
			want: "--ar 1:1 --s 0 --c 0",
		},
		{
			name: "natural mode keeps ratio only",
			mode: natural,
			f:    Flags{Ratio: "9:16", Stylize: 500, Chaos: 30, Negative: "text"},
			want: "--ar 9:16",
		},
		{
			name: "empty ratio uses default",
			mode: natural,
			f:    Flags{},
			want: "--ar 16:9",
		},
		{
			name: "sliders clamped",
			mode: standard,
			f:    Flags{Ratio: "4:3", Stylize: 5000, Chaos: -7},
			want: "--ar 4:3 --s 1000 --c 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suffix(tt.mode, tt.f)
			if got != tt.want {
				t.Errorf("Suffix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSuffixIdempotent(t *testing.T) {
	mode := catalog.ModeByID(catalog.ModePhoto)
	f := Flags{Ratio: "2:3", Stylize: 750, Chaos: 25, Negative: "blurry, low quality"}

	first := Suffix(mode, f)
	second := Suffix(mode, f)
	if first != second {
		t.Errorf("suffix not byte-stable: %q vs %q", first, second)
	}
}

func TestRatioSuffix(t *testing.T) {
	if got := RatioSuffix("1:1"); got != "--ar 1:1" {
		t.Errorf("RatioSuffix() = %q, want %q", got, "--ar 1:1")
	}
	if got := RatioSuffix(""); got != "--ar 16:9" {
		t.Errorf("RatioSuffix(empty) = %q, want default ratio", got)
	}
}

func TestApplySuffix(t *testing.T) {
	tests := []struct {
		name       string
		generation string
		suffix     string
		want       string
	}{
		{
			name:       "full flags",
			generation: "red bicycle, warm light",
			suffix:     "--ar 16:9 --s 250 --c 0 --no text, watermark",
			want:       "red bicycle, warm light --ar 16:9 --s 250 --c 0 --no text, watermark",
		},
		{
			name:       "trailing whitespace trimmed",
			generation: "red bicycle, warm light \n",
			suffix:     "--ar 16:9",
			want:       "red bicycle, warm light --ar 16:9",
		},
		{
			name:       "empty generation",
			generation: "",
			suffix:     "--ar 1:1",
			want:       "--ar 1:1",
		},
		{
			name:       "empty suffix",
			generation: "a fox",
			suffix:     "",
			want:       "a fox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplySuffix(tt.generation, tt.suffix); got != tt.want {
				t.Errorf("ApplySuffix() = %q, want %q", got, tt.want)
			}
		})
	}
}
