// If you are AI: This file implements the detector: preprocessing, one model
// forward pass and postprocessing as a single call.

package infer

import (
	"fmt"
	"image"
)

// Detector runs a face detection model on decoded frames.
// It is a plain value holding the model handle; no hidden globals.
type Detector struct {
	model         Model
	inputWidth    int
	inputHeight   int
	minConfidence float32
	maxIoU        float32
}

// DetectorOptions configure a detector. Zero values select the Ultraface
// defaults.
type DetectorOptions struct {
	InputWidth    int     // default 640
	InputHeight   int     // default 480
	MinConfidence float32 // default 0.5
	MaxIoU        float32 // default 0.5
}

// NewDetector creates a detector around a model.
func NewDetector(model Model, opts DetectorOptions) *Detector {
	if opts.InputWidth == 0 {
		opts.InputWidth = 640
	}
	if opts.InputHeight == 0 {
		opts.InputHeight = 480
	}
	if opts.MinConfidence == 0 {
		opts.MinConfidence = 0.5
	}
	if opts.MaxIoU == 0 {
		opts.MaxIoU = 0.5
	}
	return &Detector{
		model:         model,
		inputWidth:    opts.InputWidth,
		inputHeight:   opts.InputHeight,
		minConfidence: opts.MinConfidence,
		maxIoU:        opts.MaxIoU,
	}
}

// Detect runs the full pipeline on one decoded frame.
// Returned detections are in relative coordinates, most confident first.
func (d *Detector) Detect(img image.Image) ([]Detection, error) {
	input := preprocess(img, d.inputWidth, d.inputHeight)

	out, err := d.model.Run(input)
	if err != nil {
		return nil, fmt.Errorf("model run: %w", err)
	}

	return postprocess(out, d.minConfidence, d.maxIoU), nil
}
