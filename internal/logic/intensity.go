package logic

import "time"

// Intensity maps elapsed time onto [0, 1], reaching 1 at AlertThreshold.
func Intensity(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= AlertThreshold {
		return 1
	}
	return float64(elapsed) / float64(AlertThreshold)
}
