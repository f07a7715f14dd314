package utils

import (
	"strconv"
	"time"
)

func FloatToStr(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func DurationMs(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1000000.0
}
