// If you are AI: This file draws detection overlays onto frames.
// Hollow green rectangles with a confidence label per accepted box.

package infer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var boxColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// annotate renders img into a mutable RGBA frame and draws all detections.
func annotate(img image.Image, detections []Detection) *image.RGBA {
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Src)

	for _, det := range detections {
		drawDetection(canvas, det)
	}
	return canvas
}

// drawDetection scales the relative box to pixel coordinates, draws its
// outline and overlays the confidence label.
func drawDetection(canvas *image.RGBA, det Detection) {
	bounds := canvas.Bounds()
	w := float32(bounds.Dx())
	h := float32(bounds.Dy())

	x1 := bounds.Min.X + int(det.Box[0]*w)
	y1 := bounds.Min.Y + int(det.Box[1]*h)
	x2 := bounds.Min.X + int(det.Box[2]*w)
	y2 := bounds.Min.Y + int(det.Box[3]*h)

	drawRect(canvas, x1, y1, x2, y2)
	drawLabel(canvas, fmt.Sprintf("%.2f%%", det.Confidence), x1+2, y1+basicfont.Face7x13.Height)
}

// drawRect draws a one-pixel hollow rectangle, clamped to the canvas.
func drawRect(canvas *image.RGBA, x1, y1, x2, y2 int) {
	for x := x1; x <= x2; x++ {
		setClamped(canvas, x, y1)
		setClamped(canvas, x, y2)
	}
	for y := y1; y <= y2; y++ {
		setClamped(canvas, x1, y)
		setClamped(canvas, x2, y)
	}
}

func setClamped(canvas *image.RGBA, x, y int) {
	if image.Pt(x, y).In(canvas.Bounds()) {
		canvas.SetRGBA(x, y, boxColor)
	}
}

// drawLabel renders text with the package font at the given baseline origin.
func drawLabel(canvas *image.RGBA, text string, x, y int) {
	drawer := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(boxColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}
