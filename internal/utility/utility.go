package utility

// Rand is the random source used for decorative picks. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

var Palette = []string{
	"#FF5252", "#FF4081", "#E040FB", "#7C4DFF", "#536DFE",
	"#448AFF", "#40C4FF", "#18FFFF", "#64FFDA", "#69F0AE",
}

// PaletteColor picks one of the fixed target colors.
func PaletteColor(r Rand) string {
	return Palette[r.Intn(len(Palette))]
}

// Label returns a cosmetic tag in 1..9.
func Label(r Rand) int {
	return 1 + r.Intn(9)
}
