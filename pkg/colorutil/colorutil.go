// Package colorutil provides packed-pixel and luma helpers shared by the engine and the codec.
package colorutil

import (
	"image/color"
)

// Common overlay colors used when rendering debug output.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// Bit offsets of the four 8-bit fields inside a packed pixel.
// Alpha is the most significant byte, blue the least.
const (
	ShiftAlpha = 24
	ShiftRed   = 16
	ShiftGreen = 8
	ShiftBlue  = 0
)

// Rec.601 luma weights scaled to 16 bits. They sum to exactly 1<<16.
const (
	LumaRed   = 19595
	LumaGreen = 38470
	LumaBlue  = 7471
)

// Pack composes a packed pixel from its four channels.
func Pack(a, r, g, b uint8) uint32 {
	return uint32(a)<<ShiftAlpha | uint32(r)<<ShiftRed | uint32(g)<<ShiftGreen | uint32(b)<<ShiftBlue
}

// Unpack splits a packed pixel into alpha, red, green and blue.
func Unpack(p uint32) (a, r, g, b uint8) {
	return uint8(p >> ShiftAlpha), uint8(p >> ShiftRed), uint8(p >> ShiftGreen), uint8(p >> ShiftBlue)
}

// FromColor packs any color.Color.
//
// color.Color.RGBA returns alpha-premultiplied components, so a half
// transparent green decodes to 0x80008000 rather than 0x8000ff00.
func FromColor(c color.Color) uint32 {
	r, g, b, a := c.RGBA()
	return Pack(uint8(a>>8), uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// ToRGBA converts a packed pixel back into a premultiplied color, the
// inverse of FromColor.
func ToRGBA(p uint32) color.RGBA {
	a, r, g, b := Unpack(p)
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// Luma16 returns the weighted luma sum of an RGB triple, in [0, 255<<16].
func Luma16(r, g, b uint8) uint32 {
	return LumaRed*uint32(r) + LumaGreen*uint32(g) + LumaBlue*uint32(b)
}
