package grid

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/matzehuels/wallplan/pkg/wall"
)

var labelPattern = regexp.MustCompile(`^C(\d+)$`)

// FormatLabel renders the n-th cabinet label: C001, C002, ...
func FormatLabel(n int) string {
	return fmt.Sprintf("C%03d", n)
}

// NextLabel returns the label for a new cell: one past the highest numeric
// suffix among existing C<digits> labels. Labels in any other form are
// ignored, so hand-named cells never collide with generated ones.
func NextLabel(cells []wall.WallCell) string {
	highest := 0
	for _, c := range cells {
		m := labelPattern.FindStringSubmatch(c.Label)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return FormatLabel(highest + 1)
}
