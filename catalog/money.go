package catalog

import "math"

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
