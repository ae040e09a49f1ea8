package tts

import (
	"os"
	"strconv"
	"strings"
)

// RatePercent parses "+20%", "-10%" or "15%" into a signed percentage.
// Empty or malformed input yields 0.
func RatePercent(rate string) int {
	clean := strings.TrimSuffix(strings.TrimSpace(rate), "%")
	// Atoi handles a leading '-', but not an explicit '+'.
	clean = strings.TrimPrefix(clean, "+")
	val, err := strconv.Atoi(clean)
	if err != nil {
		return 0
	}
	return val
}

// RateFactor turns a rate modifier into a speed multiplier, 1.0 being normal.
func RateFactor(rate string) float64 {
	return 1.0 + float64(RatePercent(rate))/100.0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// verifyOutput checks that a provider actually left audio behind.
func verifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return ErrEmptyAudio
	}
	return nil
}
