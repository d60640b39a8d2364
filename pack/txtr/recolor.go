package txtr

import (
	"encoding/binary"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

func shiftHue(r, g, b uint8, hueShift float64) (uint8, uint8, uint8) {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, v := c.Hsv()
	h = math.Mod(h+hueShift, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsv(h, s, v).Clamped().RGB255()
}

func expand(v uint16, bits uint) uint8 {
	max := uint16(1)<<bits - 1
	return uint8((uint32(v)*255 + uint32(max)/2) / uint32(max))
}

func shrink(v uint8, bits uint) uint16 {
	max := uint32(1)<<bits - 1
	return uint16((uint32(v)*max + 127) / 255)
}

func recolorRGB565(c uint16, hueShift float64) uint16 {
	r, g, b := shiftHue(expand(c>>11, 5), expand((c>>5)&0x3f, 6), expand(c&0x1f, 5), hueShift)
	return shrink(r, 5)<<11 | shrink(g, 6)<<5 | shrink(b, 5)
}

func recolorRGB5A3(c uint16, hueShift float64) uint16 {
	if c&0x8000 != 0 {
		r, g, b := shiftHue(expand((c>>10)&0x1f, 5), expand((c>>5)&0x1f, 5), expand(c&0x1f, 5), hueShift)
		return 0x8000 | shrink(r, 5)<<10 | shrink(g, 5)<<5 | shrink(b, 5)
	}
	r, g, b := shiftHue(expand((c>>8)&0xf, 4), expand((c>>4)&0xf, 4), expand(c&0xf, 4), hueShift)
	return c&0x7000 | shrink(r, 4)<<8 | shrink(g, 4)<<4 | shrink(b, 4)
}

// Recolor rotates hue of every pixel by hueShift degrees, alpha is kept
func (t *Texture) Recolor(hueShift float64) error {
	switch t.Format {
	case FORMAT_RGB565:
		for i := 0; i+2 <= len(t.Data); i += 2 {
			c := binary.BigEndian.Uint16(t.Data[i:])
			binary.BigEndian.PutUint16(t.Data[i:], recolorRGB565(c, hueShift))
		}
	case FORMAT_RGB5A3:
		for i := 0; i+2 <= len(t.Data); i += 2 {
			c := binary.BigEndian.Uint16(t.Data[i:])
			binary.BigEndian.PutUint16(t.Data[i:], recolorRGB5A3(c, hueShift))
		}
	case FORMAT_RGBA8:
		// 4x4 tiles of 64 bytes: 16 AR pairs then 16 GB pairs
		for tile := 0; tile+64 <= len(t.Data); tile += 64 {
			for px := 0; px < 16; px++ {
				ar := tile + px*2
				gb := tile + 32 + px*2
				r, g, b := shiftHue(t.Data[ar+1], t.Data[gb], t.Data[gb+1], hueShift)
				t.Data[ar+1], t.Data[gb], t.Data[gb+1] = r, g, b
			}
		}
	case FORMAT_CMPR:
		for block := 0; block+8 <= len(t.Data); block += 8 {
			recolorCMPRBlock(t.Data[block:block+8], hueShift)
		}
	default:
		return errors.Errorf("[txtr] Recolor of format 0x%x is not supported", t.Format)
	}
	return nil
}

// Endpoint order selects block mode (c0 > c1 is opaque 4 color mode),
// so when recolor flips it endpoints are swapped and indices remapped
func recolorCMPRBlock(b []byte, hueShift float64) {
	c0 := binary.BigEndian.Uint16(b[0:])
	c1 := binary.BigEndian.Uint16(b[2:])
	n0 := recolorRGB565(c0, hueShift)
	n1 := recolorRGB565(c1, hueShift)

	opaque := c0 > c1
	swap := (opaque && n0 < n1) || (!opaque && n0 > n1)
	if swap {
		n0, n1 = n1, n0
		indices := binary.BigEndian.Uint32(b[4:])
		var remapped uint32
		for i := 0; i < 16; i++ {
			idx := (indices >> (uint(i) * 2)) & 3
			if opaque {
				idx ^= 1
			} else if idx < 2 {
				idx ^= 1
			}
			remapped |= idx << (uint(i) * 2)
		}
		binary.BigEndian.PutUint32(b[4:], remapped)
	}
	binary.BigEndian.PutUint16(b[0:], n0)
	binary.BigEndian.PutUint16(b[2:], n1)
}
