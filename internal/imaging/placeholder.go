// Package imaging fetches remote images and re-encodes them as JPEG for
// the legacy reader, falling back to a deterministic placeholder on any
// failure so the endpoint never errors into an article view.
package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderWidth  = 800
	placeholderHeight = 600
	jpegQuality       = 85
)

var placeholderTextColor = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}

// Placeholder renders the fixed-size fallback JPEG: white canvas with
// the message centered in gray.
func Placeholder(message string) []byte {
	canvas := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(placeholderTextColor),
		Face: face,
	}

	textWidth := drawer.MeasureString(message)
	x := (fixed.I(placeholderWidth) - textWidth) / 2
	y := fixed.I((placeholderHeight-face.Height)/2 + face.Ascent)
	drawer.Dot = fixed.Point26_6{X: x, Y: y}
	drawer.DrawString(message)

	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality})
	return buf.Bytes()
}
