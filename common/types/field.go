package types

// FieldSpec describes the schematic soccer pitch. All raw dimensions are in
// unscaled field units; world coordinates are obtained through Scaling.
// Length runs along x, width along y, centered on the kick-off point.
type FieldSpec struct {
	Scaling      float64 `json:"scaling"`
	HalfLength   float64 `json:"halfLength"`
	HalfWidth    float64 `json:"halfWidth"`
	GoalWidth    float64 `json:"goalWidth"`
	GoalDepth    float64 `json:"goalDepth"`
	BorderOffset float64 `json:"borderOffset"`

	// Normalized switches the sweep grid (and the matching geometry
	// transform) to the [-1, 1] unit square instead of world units.
	Normalized bool `json:"normalized"`
}

const (
	GoalScaleX    = 39.0 / 45.0
	GoalScaleY    = 22.0 / 60.0
	PenaltyScaleX = 285.0 / 450.0
	PenaltyScaleY = 4.0 / 6.0
	CircleScale   = 75.0 / 450.0
)

func DefaultFieldSpec() FieldSpec {
	return FieldSpec{
		Scaling:      0.6,
		HalfLength:   4.5,
		HalfWidth:    3.0,
		GoalWidth:    1.2,
		GoalDepth:    0.1,
		BorderOffset: 0.5,
	}
}

// FieldLength is the half length of the playable pitch in world units.
func (f FieldSpec) FieldLength() float64 {
	return f.HalfLength * f.Scaling
}

// FieldWidth is the half width of the playable pitch in world units.
func (f FieldSpec) FieldWidth() float64 {
	return f.HalfWidth * f.Scaling
}

func (f FieldSpec) GoalHalfWidth() float64 {
	return f.GoalWidth * f.Scaling
}

// LengthExtent is the half extent of the sweep grid along x, border included.
func (f FieldSpec) LengthExtent() float64 {
	if f.Normalized {
		return 1.0
	}
	return (f.HalfLength + f.BorderOffset) * f.Scaling
}

// WidthExtent is the half extent of the sweep grid along y, border included.
func (f FieldSpec) WidthExtent() float64 {
	if f.Normalized {
		return 1.0
	}
	return (f.HalfWidth + f.BorderOffset) * f.Scaling
}

// GridAxes samples both grid axes symmetrically around the field center.
// The returned slices have length resolution; firsts are the negative
// extents, lasts the positive ones.
func (f FieldSpec) GridAxes(resolution int) (xs []float64, ys []float64) {
	xs = linspace(-f.LengthExtent(), f.LengthExtent(), resolution)
	ys = linspace(-f.WidthExtent(), f.WidthExtent(), resolution)
	return xs, ys
}

func linspace(from float64, to float64, num int) []float64 {
	res := make([]float64, num)
	if num == 1 {
		res[0] = from
		return res
	}

	step := (to - from) / float64(num-1)
	for i := 0; i < num; i++ {
		res[i] = from + float64(i)*step
	}
	// pin the last sample to avoid fp drift at the positive extent
	res[num-1] = to
	return res
}
