// If you are AI: This file converts decoded frames into model input tensors.
// Bilinear resize to the model input size, then per-channel normalization.

package infer

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Normalization constants. Mean/std are from MobileNet, not from Ultraface,
// but work well.
var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// preprocess resizes img to width x height and fills an NCHW tensor with
// normalized channel values.
func preprocess(img image.Image, width, height int) *Tensor {
	resized := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	data := make([]float32, 3*height*width)
	for y := 0; y < height; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+width*4]
		for x := 0; x < width; x++ {
			for c := 0; c < 3; c++ {
				v := float32(row[x*4+c]) / 255.0
				data[(c*height+y)*width+x] = (v - channelMean[c]) / channelStd[c]
			}
		}
	}

	return &Tensor{Data: data, Width: width, Height: height}
}
