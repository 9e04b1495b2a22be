package export

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// Unknown is written when a media file's size cannot be determined.
const Unknown = "Unknown"

var sizeUnits = []struct {
	name string
	mag  float64
}{
	{"EB", 1 << 60},
	{"PB", 1 << 50},
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// FormatSize renders a byte count in the largest binary unit it reaches,
// with the given number of decimals and thousands separators, e.g. 1536 → "1.50 KB".
func FormatSize(bytes int64, decimals int) string {
	format := "#,###."
	if decimals > 0 {
		format += strings.Repeat("#", decimals)
	}
	if bytes <= 0 {
		return humanize.FormatFloat(format, 0) + " B"
	}
	v := float64(bytes)
	for _, u := range sizeUnits {
		if v >= u.mag {
			return humanize.FormatFloat(format, v/u.mag) + " " + u.name
		}
	}
	return humanize.FormatFloat(format, v) + " B"
}
