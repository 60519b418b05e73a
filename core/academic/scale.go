package academic

// ScaleMax is the upper bound of the grade-point scale.
const ScaleMax = 10.0

// letterPoints maps letter grades to grade points on the 10-point scale.
// A fixed configuration table, not derived from anything.
var letterPoints = map[string]float64{
	"aa": 10,
	"ab": 9,
	"bb": 8,
	"bc": 7,
	"cc": 6,
	"cd": 5,
	"dd": 4,
	"ff": 0,
}

// PointsForLetter maps a letter grade (case-insensitive) to grade points.
func PointsForLetter(letter string) (float64, bool) {
	pts, ok := letterPoints[letter]
	return pts, ok
}
