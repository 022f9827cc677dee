// If you are AI: This file contains tests for input tensor preparation.

package infer

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPreprocessNormalization(t *testing.T) {
	// A mid-gray frame: every channel is 128/255 before normalization.
	img := solidImage(64, 48, color.RGBA{128, 128, 128, 255})
	tensor := preprocess(img, 32, 24)

	if tensor.Width != 32 || tensor.Height != 24 {
		t.Fatalf("Expected 32x24 tensor, got %dx%d", tensor.Width, tensor.Height)
	}
	if len(tensor.Data) != 3*32*24 {
		t.Fatalf("Expected %d values, got %d", 3*32*24, len(tensor.Data))
	}

	for c := 0; c < 3; c++ {
		want := (128.0/255.0 - float64(channelMean[c])) / float64(channelStd[c])
		got := float64(tensor.At(c, 12, 16))
		if math.Abs(got-want) > 1e-2 {
			t.Errorf("Channel %d: expected %.4f, got %.4f", c, want, got)
		}
	}
}

func TestPreprocessResizesArbitraryInput(t *testing.T) {
	// Dimension mismatches are permissible; the resize handles them.
	img := solidImage(13, 7, color.RGBA{255, 0, 0, 255})
	tensor := preprocess(img, 640, 480)

	if len(tensor.Data) != 3*640*480 {
		t.Fatalf("Expected full-size tensor, got %d values", len(tensor.Data))
	}

	// Red channel saturated, green empty.
	wantRed := (1.0 - channelMean[0]) / channelStd[0]
	if math.Abs(float64(tensor.At(0, 240, 320)-wantRed)) > 1e-2 {
		t.Errorf("Expected normalized red %.4f, got %.4f", wantRed, tensor.At(0, 240, 320))
	}
	wantGreen := (0.0 - channelMean[1]) / channelStd[1]
	if math.Abs(float64(tensor.At(1, 240, 320)-wantGreen)) > 1e-2 {
		t.Errorf("Expected normalized green %.4f, got %.4f", wantGreen, tensor.At(1, 240, 320))
	}
}
