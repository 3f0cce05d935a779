package catalog

// DimensionID identifies an option dimension (lighting, camera angle, ...).
type DimensionID string

const (
	DimLighting  DimensionID = "lighting"
	DimCamera    DimensionID = "camera"
	DimMaterial  DimensionID = "material"
	DimArchStyle DimensionID = "arch_style"
)

// Sentinel tags. TagUnspecified selections are dropped by the composer.
// TagCustom selections require a follow-up free-text value; an empty custom
// value reverts to unspecified.
const (
	TagUnspecified = ""
	TagCustom      = "custom"
)

// Option is a single selectable choice within a dimension.
type Option struct {
	// Label is shown to the user.
	Label string `json:"label"`

	// Tag is the short string passed downstream to the composer.
	Tag string `json:"tag"`
}

// Dimension is an ordered list of options for one style axis.
type Dimension struct {
	ID   DimensionID `json:"id"`
	Name string      `json:"name"`

	// Options in display order, beginning with the unspecified sentinel and
	// ending with the custom sentinel.
	Options []Option `json:"options"`
}

var dimensions = map[DimensionID]Dimension{
	DimLighting: {
		ID:   DimLighting,
		Name: "Lighting",
		Options: withSentinels([]Option{
			{Label: "Cinematic", Tag: "cinematic lighting"},
			{Label: "Soft natural", Tag: "soft natural light"},
			{Label: "Neon", Tag: "neon lighting"},
			{Label: "Rembrandt", Tag: "rembrandt lighting"},
			{Label: "Golden hour", Tag: "golden hour"},
			{Label: "Sunny", Tag: "bright midday sun"},
		}),
	},
	DimCamera: {
		ID:   DimCamera,
		Name: "Camera",
		Options: withSentinels([]Option{
			{Label: "Wide angle", Tag: "wide angle"},
			{Label: "Macro", Tag: "macro close-up"},
			{Label: "Drone view", Tag: "aerial drone view"},
			{Label: "Fisheye", Tag: "fisheye lens"},
			{Label: "Front view", Tag: "front view"},
		}),
	},
	DimMaterial: {
		ID:   DimMaterial,
		Name: "Material",
		Options: withSentinels([]Option{
			{Label: "Unreal Engine 5", Tag: "unreal engine 5"},
			{Label: "Matte", Tag: "matte finish"},
			{Label: "Metallic", Tag: "metallic sheen"},
			{Label: "Film grain", Tag: "film grain"},
			{Label: "Watercolor", Tag: "watercolor"},
		}),
	},
	DimArchStyle: {
		ID:   DimArchStyle,
		Name: "Architecture style",
		Options: withSentinels([]Option{
			{Label: "Minimalist", Tag: "minimalist architecture"},
			{Label: "Brutalist", Tag: "brutalist concrete"},
			{Label: "Traditional East Asian", Tag: "traditional east asian architecture"},
			{Label: "Parametric", Tag: "parametric architecture"},
			{Label: "Mediterranean", Tag: "mediterranean architecture"},
		}),
	},
}

// withSentinels prepends the unspecified entry and appends the custom entry.
func withSentinels(opts []Option) []Option {
	out := make([]Option, 0, len(opts)+2)
	out = append(out, Option{Label: "Unspecified", Tag: TagUnspecified})
	out = append(out, opts...)
	out = append(out, Option{Label: "Custom...", Tag: TagCustom})
	return out
}

// DimensionByID returns the dimension with the given ID. The second return
// is false for unknown IDs.
func DimensionByID(id DimensionID) (Dimension, bool) {
	d, ok := dimensions[id]
	return d, ok
}

// DimensionsForMode returns the dimensions selectable in the given mode, in
// the mode's display order.
func DimensionsForMode(mode Mode) []Dimension {
	out := make([]Dimension, 0, len(mode.Dimensions))
	for _, id := range mode.Dimensions {
		if d, ok := dimensions[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// ResolveTag maps a raw selection to the tag the composer should use.
// The custom sentinel substitutes the user's free-text value; an empty custom
// value reverts to unspecified. Unknown tags pass through unchanged so that
// catalogue additions do not require a code change here.
func ResolveTag(tag, customText string) string {
	if tag == TagCustom {
		return customText
	}
	return tag
}

// AspectRatios returns the supported aspect ratio values, first entry is the
// default.
func AspectRatios() []string {
	return []string{"16:9", "9:16", "1:1", "4:3", "2:3"}
}
