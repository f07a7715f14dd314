package plotter

import (
	"math"
	"testing"

	"github.com/superboySB/marladona-isaac-lab/common/types"
)

func TestFieldMarkingsLayout(t *testing.T) {
	field := types.DefaultFieldSpec()
	segments := FieldMarkings(field)

	if len(segments) != 23 {
		t.Fatalf("%d segments, want 23", len(segments))
	}

	blues, reds, whites := 0, 0, 0
	for _, segment := range segments {
		switch segment.Color {
		case colorBlue:
			blues++
		case colorRed:
			reds++
		case colorWhite:
			whites++
		}
	}

	if blues != 3 || reds != 3 || whites != 17 {
		t.Fatalf("color split %d/%d/%d, want 3 blue, 3 red, 17 white", blues, reds, whites)
	}
}

func TestGoalMouthsSitBeyondTheEndLines(t *testing.T) {
	field := types.DefaultFieldSpec()
	segments := FieldMarkings(field)

	length := field.FieldLength()
	back := segments[0]
	if back.X1 != length+field.GoalDepth || back.X2 != back.X1 {
		t.Fatalf("blue goal back line at x=%f, want %f", back.X1, length+field.GoalDepth)
	}
	if back.Y1 != -field.GoalHalfWidth() || back.Y2 != field.GoalHalfWidth() {
		t.Fatalf("blue goal spans [%f, %f]", back.Y1, back.Y2)
	}

	redBack := segments[3]
	if redBack.X1 != -(length + field.GoalDepth) {
		t.Fatalf("red goal back line at x=%f", redBack.X1)
	}
}

func TestMarkingsStayWithinSweepExtents(t *testing.T) {
	field := types.DefaultFieldSpec()

	for _, segment := range FieldMarkings(field) {
		for _, x := range []float64{segment.X1, segment.X2} {
			if math.Abs(x) > field.LengthExtent()+1e-9 {
				t.Fatalf("segment x=%f outside extent %f", x, field.LengthExtent())
			}
		}
		for _, y := range []float64{segment.Y1, segment.Y2} {
			if math.Abs(y) > field.WidthExtent()+1e-9 {
				t.Fatalf("segment y=%f outside extent %f", y, field.WidthExtent())
			}
		}
	}
}

func TestProjectToPanelMapsCornersAndCenter(t *testing.T) {
	field := types.DefaultFieldSpec()

	cx, cy := ProjectToPanel(field, 0, 0, 420, 252)
	if cx != 210 || cy != 126 {
		t.Fatalf("center projects to (%f, %f)", cx, cy)
	}

	// the positive-x, positive-y sweep corner sits at the top-right pixel
	tx, ty := ProjectToPanel(field, field.LengthExtent(), field.WidthExtent(), 420, 252)
	if tx != 420 || ty != 0 {
		t.Fatalf("top-right corner projects to (%f, %f)", tx, ty)
	}
}

func TestProjectToPanelRescalesInNormalizedMode(t *testing.T) {
	field := types.DefaultFieldSpec()
	field.Normalized = true

	// corner flags in world units land on the panel corners, not outside
	x, y := ProjectToPanel(field, field.FieldLength(), field.FieldWidth(), 420, 420)
	if x != 420 || y != 0 {
		t.Fatalf("corner flag projects to (%f, %f)", x, y)
	}

	// every field marking stays on the panel
	for _, segment := range FieldMarkings(field) {
		x1, y1 := ProjectToPanel(field, segment.X1, segment.Y1, 420, 420)
		x2, y2 := ProjectToPanel(field, segment.X2, segment.Y2, 420, 420)
		for _, v := range []float32{x1, y1, x2, y2} {
			if v < -25 || v > 445 {
				t.Fatalf("segment %+v projects off the panel (%f)", segment, v)
			}
		}
	}
}

func TestPanelLengthScaleMatchesProjection(t *testing.T) {
	for _, normalized := range []bool{false, true} {
		field := types.DefaultFieldSpec()
		field.Normalized = normalized

		x0, _ := ProjectToPanel(field, 0, 0, 420, 420)
		x1, _ := ProjectToPanel(field, 0.5, 0, 420, 420)
		want := float64(x1 - x0)

		got := 0.5 * PanelLengthScale(field, 420)
		if math.Abs(got-want) > 1e-4 {
			t.Fatalf("normalized=%v: scale gives %f pixels, projection gives %f", normalized, got, want)
		}
	}
}

func TestCenterCircleRadius(t *testing.T) {
	field := types.DefaultFieldSpec()
	circle := CenterCircle(field)

	want := field.FieldLength() * types.CircleScale
	if circle.Radius != want {
		t.Fatalf("circle radius %f, want %f", circle.Radius, want)
	}
	if circle.X != 0 || circle.Y != 0 {
		t.Fatal("circle not centered on the kick-off point")
	}
}
