package sequencer

import "math"

// Mapping constants: a landmark at y=0.2 plays the base pitch, each full
// unit of y spans an octave, and every note is nudged by up to 3 semitones.
const (
	pitchCenterY = 0.2
	pitchSpan    = 12
	pitchJitter  = 3
)

// MapNote turns a normalized landmark height into a pitch. The result is
// clamped to 0-127 before offset is added, so offset can push it out of
// range. y is not validated.
func MapNote(rng Rand, y float64, basePitch, offset int) int {
	pitch := int(math.Round(float64(basePitch)+(y-pitchCenterY)*pitchSpan)) +
		uniform(rng, -pitchJitter, pitchJitter)
	pitch = max(0, min(127, pitch))
	return pitch + offset
}
