package chip8

// Screen dimensions
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Display is the 64 px x 32 px monochrome framebuffer, stored row-major.
type Display struct {
	pixels [ScreenWidth * ScreenHeight]bool
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	for i := range d.pixels {
		d.pixels[i] = false
	}
}

// DrawSprite XORs sprite rows onto the display with the top left corner at
// (x, y). Both axes wrap around. It reports whether any pixel that was set got
// turned off.
func (d *Display) DrawSprite(x, y uint8, sprite []uint8) bool {
	collision := false
	for row, line := range sprite {
		py := (int(y) + row) % ScreenHeight
		for bit := 0; bit < 8; bit++ {
			if line&(0x80>>bit) == 0 {
				continue
			}
			px := (int(x) + bit) % ScreenWidth
			idx := py*ScreenWidth + px
			if d.pixels[idx] {
				collision = true
			}
			d.pixels[idx] = !d.pixels[idx]
		}
	}
	return collision
}

// Pixel returns whether the pixel at (x, y) is set. Coordinates wrap.
func (d *Display) Pixel(x, y int) bool {
	x %= ScreenWidth
	y %= ScreenHeight
	if x < 0 {
		x += ScreenWidth
	}
	if y < 0 {
		y += ScreenHeight
	}
	return d.pixels[y*ScreenWidth+x]
}

// Pixels returns a row-major copy of the framebuffer.
func (d *Display) Pixels() []bool {
	out := make([]bool, len(d.pixels))
	copy(out, d.pixels[:])
	return out
}
