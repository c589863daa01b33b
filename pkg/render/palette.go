package render

// Palette is the ColorBrewer "Paired" qualitative scheme.
var Palette = [12]string{
	"#A6CEE3", "#1F78B4", "#B2DF8A", "#33A02C",
	"#FB9A99", "#E31A1C", "#FDBF6F", "#FF7F00",
	"#CAB2D6", "#6A3D9A", "#FFFF99", "#B15928",
}

// UniformColor is the fill used when no communities are detected.
const UniformColor = "#FDBF6F"

// LabelColor is the fill of vertex labels.
const LabelColor = "#000000"

// ColorFor returns the palette color of community c (1-based). Colors are
// reused cyclically past len(Palette); c < 1 yields UniformColor.
func ColorFor(c int) string {
	if c < 1 {
		return UniformColor
	}
	return Palette[(c-1)%len(Palette)]
}
