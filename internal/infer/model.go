// If you are AI: This file defines the detector model boundary.
// Model execution is an external collaborator; the pipeline around it
// (preprocessing, postprocessing, drawing, encoding) lives in this package.

package infer

// Tensor is a (1, 3, H, W) float32 input in NCHW layout.
type Tensor struct {
	Data   []float32
	Width  int
	Height int
}

// At returns the value at (channel, y, x).
func (t *Tensor) At(c, y, x int) float32 {
	return t.Data[(c*t.Height+y)*t.Width+x]
}

// RawOutput carries the two tensors a face detection model produces.
type RawOutput struct {
	// Confidences has shape (K, 2); the face-class score is at index 1.
	Confidences [][2]float32
	// Boxes has shape (K, 4); each row is (x_tl, y_tl, x_br, y_br) in
	// relative 0..1 coordinates.
	Boxes [][4]float32
}

// Model runs one forward pass of a face detection network.
type Model interface {
	Run(input *Tensor) (RawOutput, error)
}

// Detection is one accepted face box with its confidence.
type Detection struct {
	// Box is (x_tl, y_tl, x_br, y_br) in relative 0..1 coordinates.
	Box        [4]float32
	Confidence float32
}
