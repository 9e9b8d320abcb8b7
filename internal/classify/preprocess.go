package classify

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"github.com/JaimeStill/signpost/pkg/inference"
)

// tensor resizes img to the model input size and flattens it into the
// model's layout. Alpha is discarded and channels are scaled by PixelScale.
func tensor(img image.Image, meta inference.Metadata) []float32 {
	h, w := meta.ImageSize()
	resized := resize.Resize(uint(w), uint(h), img, resize.Bicubic)
	bounds := resized.Bounds()

	out := make([]float32, h*w*3)
	scale := meta.PixelScale
	plane := h * w

	for y := range h {
		for x := range w {
			px := color.NRGBAModel.Convert(resized.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			rgb := [3]float32{float32(px.R), float32(px.G), float32(px.B)}

			for c, v := range rgb {
				var i int
				if meta.Layout == inference.LayoutNCHW {
					i = c*plane + y*w + x
				} else {
					i = (y*w+x)*3 + c
				}
				out[i] = v * scale
			}
		}
	}

	return out
}
