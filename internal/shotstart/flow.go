package shotstart

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Optical-flow estimator tuning.
const (
	// flowWindow is the half-size of the patch around the tracked point.
	flowWindow = 7
	// flowConfidenceDiscount reflects that flow is a coarser start signal
	// than pose activity.
	flowConfidenceDiscount = 0.7
	flowMinFrames          = 6
)

// opticalFlow tracks a single fixed point (the frame centre) across
// consecutive grayscale frames with a Lucas–Kanade solve and finds the first
// frame whose flow magnitude exceeds baseline + stddev.
func (d *Detector) opticalFlow(lumas []Luma) (estimate, bool) {
	limit := scanLimit(len(lumas))
	if limit < flowMinFrames {
		return estimate{}, false
	}

	mags := make([]float64, 0, limit-1)
	for i := 1; i < limit; i++ {
		if !lumas[i-1].Valid() || !lumas[i].Valid() {
			mags = append(mags, 0)
			continue
		}
		vx, vy := pointFlow(lumas[i-1], lumas[i])
		mags = append(mags, math.Hypot(vx, vy))
	}

	third := len(mags) / 3
	if third < 2 {
		third = 2
	}
	mean, std := stat.MeanStdDev(mags[:third], nil)
	if math.IsNaN(std) {
		std = 0
	}
	threshold := mean + std + 0.5

	for i := third; i < len(mags); i++ {
		if mags[i] > threshold {
			// Confidence scales with spike strength, discounted because
			// single-point flow is coarse.
			strength := math.Min(1, mags[i]/(threshold*2))
			return estimate{
				frame:      i + 1, // mags[i] covers the transition into frame i+1
				confidence: flowConfidenceDiscount * strength,
				method:     MethodOpticalFlow,
			}, true
		}
	}
	return estimate{}, false
}

// pointFlow solves the Lucas–Kanade normal equations for the flow of the
// frame-centre point between two planes.
func pointFlow(prev, cur Luma) (float64, float64) {
	cx, cy := prev.Width/2, prev.Height/2

	var a11, a12, a22, b1, b2 float64
	for dy := -flowWindow; dy <= flowWindow; dy++ {
		for dx := -flowWindow; dx <= flowWindow; dx++ {
			x, y := cx+dx, cy+dy
			ix := (prev.at(x+1, y) - prev.at(x-1, y)) / 2
			iy := (prev.at(x, y+1) - prev.at(x, y-1)) / 2
			it := cur.at(x, y) - prev.at(x, y)
			a11 += ix * ix
			a12 += ix * iy
			a22 += iy * iy
			b1 -= ix * it
			b2 -= iy * it
		}
	}

	det := a11*a22 - a12*a12
	if math.Abs(det) < 1e-6 {
		return 0, 0
	}
	vx := (a22*b1 - a12*b2) / det
	vy := (a11*b2 - a12*b1) / det
	return vx, vy
}
