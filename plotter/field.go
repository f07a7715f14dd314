package plotter

import (
	"image/color"

	"github.com/superboySB/marladona-isaac-lab/common/types"
)

// Segment is one field marking in world coordinates.
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
	Color  color.RGBA
}

// Circle is the kick-off circle in world coordinates.
type Circle struct {
	X, Y   float64
	Radius float64
	Color  color.RGBA
}

var (
	colorBlue  = color.RGBA{R: 0x20, G: 0x50, B: 0xff, A: 0xff}
	colorRed   = color.RGBA{R: 0xe0, G: 0x30, B: 0x30, A: 0xff}
	colorWhite = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorBlack = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
)

// FieldMarkings builds the static pitch geometry: both goal mouths, the
// outline, halfway line, goal areas and penalty boxes. Blue defends the
// positive-x goal.
func FieldMarkings(field types.FieldSpec) []Segment {
	length := field.FieldLength()
	width := field.FieldWidth()
	goal := field.GoalHalfWidth()
	depth := field.GoalDepth()

	segments := make([]Segment, 0, 23)

	// blue goal mouth
	segments = append(segments,
		Segment{length + depth, -goal, length + depth, goal, colorBlue},
		Segment{length, -goal, length + depth, -goal, colorBlue},
		Segment{length, goal, length + depth, goal, colorBlue},
	)

	// red goal mouth
	segments = append(segments,
		Segment{-length - depth, -goal, -length - depth, goal, colorRed},
		Segment{-length, -goal, -length - depth, -goal, colorRed},
		Segment{-length, goal, -length - depth, goal, colorRed},
	)

	// outline and halfway line
	segments = append(segments,
		Segment{length, -width, length, width, colorWhite},
		Segment{0, -width, 0, width, colorWhite},
		Segment{-length, -width, -length, width, colorWhite},
		Segment{length, width, -length, width, colorWhite},
		Segment{length, -width, -length, -width, colorWhite},
	)

	// goal areas and penalty boxes, mirrored on both halves
	for _, side := range []float64{1, -1} {
		for _, box := range [][2]float64{
			{types.GoalScaleX, types.GoalScaleY},
			{types.PenaltyScaleX, types.PenaltyScaleY},
		} {
			bx := side * length * box[0]
			by := width * box[1]
			gx := side * length

			segments = append(segments,
				Segment{bx, -by, bx, by, colorWhite},
				Segment{gx, -by, bx, -by, colorWhite},
				Segment{gx, by, bx, by, colorWhite},
			)
		}
	}

	return segments
}

func CenterCircle(field types.FieldSpec) Circle {
	return Circle{
		X:      0,
		Y:      0,
		Radius: field.FieldLength() * types.CircleScale,
		Color:  colorWhite,
	}
}

// ProjectToPanel maps a world-unit point into panel pixel space, with
// (0, 0) at the top-left and world y pointing up. In normalized mode the
// panel spans the [-1, 1] unit square, so world coordinates are rescaled
// by the half field extents first, the same way the critic observations
// are.
func ProjectToPanel(field types.FieldSpec, x float64, y float64, width int, height int) (float32, float32) {
	if field.Normalized {
		x /= field.FieldLength()
		y /= field.FieldWidth()
	}

	lext := field.LengthExtent()
	wext := field.WidthExtent()

	px := (x + lext) / (2 * lext) * float64(width)
	py := (wext - y) / (2 * wext) * float64(height)

	return float32(px), float32(py)
}

// PanelLengthScale converts a world-unit distance along x into pixels.
func PanelLengthScale(field types.FieldSpec, width int) float64 {
	scale := float64(width) / (2 * field.LengthExtent())
	if field.Normalized {
		scale /= field.FieldLength()
	}
	return scale
}
