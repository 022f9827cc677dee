// If you are AI: This file filters raw model output into accepted detections.
// Confidence threshold, ascending sort, then non-maximum suppression.

package infer

import "sort"

// eps is a positive additive constant to avoid divide-by-zero.
const eps = 1.0e-7

// postprocess pairs boxes with their face confidences, drops pairs below
// minConfidence and suppresses overlapping boxes. If the two tensors
// disagree on K, the shorter length wins; a model emitting unexpected shapes
// yields zero detections rather than a panic.
func postprocess(out RawOutput, minConfidence, maxIoU float32) []Detection {
	k := len(out.Confidences)
	if len(out.Boxes) < k {
		k = len(out.Boxes)
	}

	candidates := make([]Detection, 0, k)
	for i := 0; i < k; i++ {
		conf := out.Confidences[i][1]
		if conf > minConfidence {
			candidates = append(candidates, Detection{Box: out.Boxes[i], Confidence: conf})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence < candidates[j].Confidence
	})

	return nonMaximumSuppression(candidates, maxIoU)
}

// nonMaximumSuppression pops the most confident candidate off the
// ascending-sorted list and accepts it unless it overlaps an already
// accepted box with IoU above maxIoU. Accepted boxes come back most
// confident first.
func nonMaximumSuppression(sorted []Detection, maxIoU float32) []Detection {
	selected := make([]Detection, 0, len(sorted))

candidates:
	for i := len(sorted) - 1; i >= 0; i-- {
		candidate := sorted[i]
		for _, kept := range selected {
			if iou(candidate.Box, kept.Box) > maxIoU {
				continue candidates
			}
		}
		selected = append(selected, candidate)
	}

	return selected
}

// iou computes the intersection-over-union of two boxes.
func iou(a, b [4]float32) float32 {
	overlap := [4]float32{
		max32(a[0], b[0]),
		max32(a[1], b[1]),
		min32(a[2], b[2]),
		min32(a[3], b[3]),
	}

	overlapArea := boxArea(overlap)
	return overlapArea / (boxArea(a) + boxArea(b) - overlapArea + eps)
}

// boxArea returns the area of (x_tl, y_tl, x_br, y_br).
// Inverted rectangles have area zero.
func boxArea(box [4]float32) float32 {
	width := box[2] - box[0]
	height := box[3] - box[1]
	if width < 0 || height < 0 {
		return 0
	}
	return width * height
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
