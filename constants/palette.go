package constants

// CoursePalette is the fixed set of display colors handed out to imported courses, in order.
var CoursePalette = []string{
	"#3B82F6",
	"#F59E0B",
	"#10B981",
	"#8B5CF6",
	"#EF4444",
	"#14B8A6",
	"#F97316",
}

// ColorAt returns the palette color for the i-th course, cycling through the palette.
func ColorAt(i int) string {
	if i < 0 {
		i = -i
	}
	return CoursePalette[i%len(CoursePalette)]
}
