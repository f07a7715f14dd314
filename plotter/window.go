package plotter

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/superboySB/marladona-isaac-lab/common/types"
)

const (
	panelWidth   = 420
	panelMargin  = 12
	ticksPerSec  = 40
	headingReach = 0.1
)

// Window drives the renderer at a fixed tick rate and draws the panel
// grid. Heat textures are only re-uploaded when their panel is dirty;
// the field markings live on a static layer drawn once.
type Window struct {
	renderer *Renderer

	panelHeight int
	cols, rows  int

	heatTextures []*ebiten.Image
	heatBuffers  [][]byte
	fieldLayer   *ebiten.Image
}

func NewWindow(renderer *Renderer) *Window {
	init := renderer.Init()
	field := init.Field

	aspect := field.WidthExtent() / field.LengthExtent()

	win := &Window{
		renderer:    renderer,
		panelHeight: int(float64(panelWidth) * aspect),
		cols:        init.PlayersToVisualize,
		rows:        len(init.Terms),
	}

	res := init.Resolution
	for range renderer.Panels() {
		win.heatTextures = append(win.heatTextures, ebiten.NewImage(res, res))
		win.heatBuffers = append(win.heatBuffers, make([]byte, res*res*4))
	}

	win.fieldLayer = ebiten.NewImage(panelWidth, win.panelHeight)
	win.paintFieldLayer(field)

	return win
}

// Run opens the window and blocks until the stream shuts down or the
// user closes it.
func (win *Window) Run() error {
	ebiten.SetTPS(ticksPerSec)
	ebiten.SetWindowSize(win.layoutWidth(), win.layoutHeight())
	ebiten.SetWindowTitle("value functions")

	err := ebiten.RunGame(win)
	if err == ebiten.Termination {
		return nil
	}

	return err
}

func (win *Window) Update() error {
	if !win.renderer.Tick() {
		return ebiten.Termination
	}

	return nil
}

func (win *Window) Draw(screen *ebiten.Image) {
	blue, red, ball := win.renderer.Poses()

	for i, panel := range win.renderer.Panels() {
		if panel.Dirty {
			win.uploadHeat(i, panel.Heat)
			win.renderer.MarkClean(i)
		}

		col := i % win.cols
		row := i / win.cols
		ox := float64(col * (panelWidth + panelMargin))
		oy := float64(row * (win.panelHeight + panelMargin))

		op := &ebiten.DrawImageOptions{}
		res := win.renderer.Init().Resolution
		op.GeoM.Scale(float64(panelWidth)/float64(res), float64(win.panelHeight)/float64(res))
		op.GeoM.Translate(ox, oy)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(win.heatTextures[i], op)

		layerop := &ebiten.DrawImageOptions{}
		layerop.GeoM.Translate(ox, oy)
		screen.DrawImage(win.fieldLayer, layerop)

		win.drawMarkers(screen, ox, oy, panel.Agent, blue, red, ball)
	}
}

func (win *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return win.layoutWidth(), win.layoutHeight()
}

func (win *Window) layoutWidth() int {
	return win.cols*panelWidth + (win.cols-1)*panelMargin
}

func (win *Window) layoutHeight() int {
	return win.rows*win.panelHeight + (win.rows-1)*panelMargin
}

// uploadHeat repaints one heat texture from its normalized cells. Cells
// are row-major over (x index, y index); the texture row order is
// flipped so positive world y points up on screen.
func (win *Window) uploadHeat(i int, cells []float64) {
	res := win.renderer.Init().Resolution
	buf := win.heatBuffers[i]

	for ix := 0; ix < res; ix++ {
		for iy := 0; iy < res; iy++ {
			c := rdbu(cells[ix*res+iy])
			off := ((res-1-iy)*res + ix) * 4
			buf[off] = c.R
			buf[off+1] = c.G
			buf[off+2] = c.B
			buf[off+3] = c.A
		}
	}

	win.heatTextures[i].WritePixels(buf)
}

func (win *Window) paintFieldLayer(field types.FieldSpec) {
	for _, segment := range FieldMarkings(field) {
		x1, y1 := win.worldToPanel(field, segment.X1, segment.Y1)
		x2, y2 := win.worldToPanel(field, segment.X2, segment.Y2)
		vector.StrokeLine(win.fieldLayer, x1, y1, x2, y2, 2, segment.Color, true)
	}

	circle := CenterCircle(field)
	cx, cy := win.worldToPanel(field, circle.X, circle.Y)
	radius := float32(circle.Radius * PanelLengthScale(field, panelWidth))
	vector.StrokeCircle(win.fieldLayer, cx, cy, radius, 2, circle.Color, true)
}

func (win *Window) drawMarkers(screen *ebiten.Image, ox float64, oy float64, self int, blue []types.AgentPose, red []types.AgentPose, ball [2]float64) {
	field := win.renderer.Init().Field

	at := func(x float64, y float64) (float32, float32) {
		px, py := win.worldToPanel(field, x, y)
		return px + float32(ox), py + float32(oy)
	}

	heading := func(pose types.AgentPose) {
		x1, y1 := at(pose.X, pose.Y)
		x2, y2 := at(pose.X+math.Cos(pose.Heading)*headingReach, pose.Y+math.Sin(pose.Heading)*headingReach)
		vector.StrokeLine(screen, x1, y1, x2, y2, 2, colorWhite, true)
	}

	// highlight ring under the agent this panel belongs to
	if self >= 0 && self < len(blue) {
		x, y := at(blue[self].X, blue[self].Y)
		vector.DrawFilledCircle(screen, x, y, 11, colorBlack, true)
	}

	for _, pose := range blue {
		x, y := at(pose.X, pose.Y)
		vector.DrawFilledCircle(screen, x, y, 7, colorBlue, true)
		heading(pose)
	}

	for _, pose := range red {
		x, y := at(pose.X, pose.Y)
		vector.DrawFilledCircle(screen, x, y, 7, colorRed, true)
		heading(pose)
	}

	bx, by := at(ball[0], ball[1])
	vector.DrawFilledCircle(screen, bx, by, 5, colorWhite, true)
}

func (win *Window) worldToPanel(field types.FieldSpec, x float64, y float64) (float32, float32) {
	return ProjectToPanel(field, x, y, panelWidth, win.panelHeight)
}
