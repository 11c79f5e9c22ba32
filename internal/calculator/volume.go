package calculator

import "math"

// VolumeResult holds the 20 day volume average and the ratio of the
// latest volume to that average.
type VolumeResult struct {
	MA20  []float64
	Ratio []float64
}

// ComputeVolume computes the 20 day average volume and the per-bar ratio
// against it.
func ComputeVolume(volumes []float64) VolumeResult {
	ma := SMASeries(volumes, 20)
	ratio := nanSlice(len(volumes))
	for i := range volumes {
		if !math.IsNaN(ma[i]) && ma[i] != 0 {
			ratio[i] = volumes[i] / ma[i]
		}
	}
	return VolumeResult{MA20: ma, Ratio: ratio}
}
