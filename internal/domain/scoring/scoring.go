// Package scoring maps finishing positions to rank points.
//
// The table is a fixed constant of the ranking season. Minor events are
// worth half points, rounded up; earlier seasons only halved positions
// up to 15, which is superseded and not kept here.
package scoring

// Base points by placement threshold.
const (
	pointsFirst     = 25 // position 1
	pointsSecond    = 20 // position 2
	pointsTop4      = 16 // positions 3-4
	pointsTop8      = 10 // positions 5-8
	pointsTop16     = 5  // positions 9-16
	pointsRemainder = 2  // position 17 and below
	minorDivisor    = 2
)

// Points returns the rank points awarded for a 1-indexed finishing
// position. Minor events halve the base value with ceiling division,
// for every position. The function is pure and total; non-positive
// positions earn nothing.
func Points(position int, minor bool) int {
	if position < 1 {
		return 0
	}
	base := basePoints(position)
	if minor {
		return CeilHalf(base)
	}
	return base
}

func basePoints(position int) int {
	switch {
	case position == 1:
		return pointsFirst
	case position == 2:
		return pointsSecond
	case position <= 4:
		return pointsTop4
	case position <= 8:
		return pointsTop8
	case position <= 16:
		return pointsTop16
	default:
		return pointsRemainder
	}
}

// CeilHalf halves n rounding up. Shared with the upset bonus, which is
// subject to the same minor-event reduction.
func CeilHalf(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + minorDivisor - 1) / minorDivisor
}
