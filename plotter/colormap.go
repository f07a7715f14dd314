package plotter

import "image/color"

// rdbu maps a normalized value to a red-white-blue diverging ramp, red
// for low values and blue for high ones.
func rdbu(v float64) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	var from, to [3]float64
	var t float64

	if v < 0.5 {
		from = [3]float64{103, 0, 31}
		to = [3]float64{247, 247, 247}
		t = v / 0.5
	} else {
		from = [3]float64{247, 247, 247}
		to = [3]float64{5, 48, 97}
		t = (v - 0.5) / 0.5
	}

	return color.RGBA{
		R: uint8(from[0] + (to[0]-from[0])*t),
		G: uint8(from[1] + (to[1]-from[1])*t),
		B: uint8(from[2] + (to[2]-from[2])*t),
		A: 0xff,
	}
}
