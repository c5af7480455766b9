package layout

import "github.com/matzehuels/wallplan/pkg/wall"

// occupancy is a row-major bitmap of taken grid units.
type occupancy struct {
	w, h  int
	cells []bool
}

func newOccupancy(w, h int) *occupancy {
	return &occupancy{w: w, h: h, cells: make([]bool, w*h)}
}

func (o *occupancy) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < o.w && y < o.h
}

func (o *occupancy) taken(x, y int) bool {
	return o.inside(x, y) && o.cells[y*o.w+x]
}

func (o *occupancy) collides(r wall.Rect) bool {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if o.taken(x, y) {
				return true
			}
		}
	}
	return false
}

// mark sets every unit of r that lies inside the grid.
func (o *occupancy) mark(r wall.Rect) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if o.inside(x, y) {
				o.cells[y*o.w+x] = true
			}
		}
	}
}

func (o *occupancy) count() int {
	n := 0
	for _, t := range o.cells {
		if t {
			n++
		}
	}
	return n
}
