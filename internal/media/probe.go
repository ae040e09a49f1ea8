// Package media inspects synthesized audio with ffprobe.
package media

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration returns the duration of the audio file in seconds.
// It needs ffprobe on PATH.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return ParseDuration(out)
}

// ParseDuration reads format.duration from ffprobe's JSON output.
func ParseDuration(probeJSON string) (float64, error) {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &probe); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe output has no duration")
	}
	return strconv.ParseFloat(probe.Format.Duration, 64)
}
