package dataplan

import (
	"math"

	"github.com/matzehuels/wallplan/pkg/wall"
)

// EstimateHomeRunDistanceMeters returns a coarse estimate of the cable
// length from the processor rack to a wall of the given size in meters.
//
// Side-stage racks reach the wall across its width or up its height;
// upstage-center racks sit behind it; front-of-house runs go out and up.
func EstimateHomeRunDistanceMeters(widthM, heightM float64, loc wall.RackLocation) float64 {
	switch loc {
	case wall.RackUpstageCenter:
		return math.Max(heightM*0.5, widthM*0.25)
	case wall.RackFrontOfHouse:
		return widthM + heightM
	default:
		return math.Max(widthM*0.3, heightM*0.75)
	}
}
