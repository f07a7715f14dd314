package vector

import (
	"math"
)

type Vector2 struct {
	x float64
	y float64
}

func MakeVector2(x float64, y float64) Vector2 {
	return Vector2{x, y}
}

func MakeNullVector2() Vector2 {
	return MakeVector2(0, 0)
}

// Returns the unit vector pointing at the given angle (radians)
func MakeVector2FromHeading(radians float64) Vector2 {
	return MakeVector2(
		math.Cos(radians),
		math.Sin(radians),
	)
}

func (v Vector2) Get() (float64, float64) {
	return v.x, v.y
}

func (v Vector2) GetX() float64 {
	return v.x
}

func (v Vector2) GetY() float64 {
	return v.y
}

func (a Vector2) Add(b Vector2) Vector2 {
	a.x += b.x
	a.y += b.y
	return a
}

func (a Vector2) Sub(b Vector2) Vector2 {
	a.x -= b.x
	a.y -= b.y
	return a
}

func (a Vector2) Scale(scale float64) Vector2 {
	a.x *= scale
	a.y *= scale
	return a
}

func (a Vector2) Mag() float64 {
	return math.Sqrt(a.MagSq())
}

func (a Vector2) MagSq() float64 {
	return (a.x * a.x) + (a.y * a.y)
}

func (a Vector2) Clamp(maxmag float64) Vector2 {
	mag := a.Mag()
	if mag > maxmag && mag > 0 {
		return a.Scale(maxmag / mag)
	}
	return a
}
