package encoding

import (
	"github.com/arloliu/bytecol/internal/pool"
)

// DecodeChunkSize is the number of code points decoded before they are
// flushed into the result.
const DecodeChunkSize = 0x1000

const (
	surrogateMin     = 0xd800
	highSurrogateMax = 0xdbff
	lowSurrogateMin  = 0xdc00
	surrogateMax     = 0xdfff
	surrogateSelf    = 0x10000
	replacementChar  = '\uFFFD'
)

// CountString returns the number of bytes EncodeString writes for text.
func CountString(text string) int {
	n := 0
	for _, r := range text {
		n += runeLen(r)
	}

	return n
}

// EncodeString writes the UTF-8 encoding of text to dst starting at off and
// returns the number of bytes written.
//
// Invalid UTF-8 in text is replaced by U+FFFD. The caller guarantees that
// dst has at least CountString(text) bytes after off.
func EncodeString(text string, dst []byte, off int) int {
	start := off
	for i := 0; i < len(text); i++ {
		// ASCII runs are copied without rune decoding.
		if c := text[i]; c < 0x80 {
			dst[off] = c
			off++

			continue
		}

		for _, r := range text[i:] {
			off += putRune(dst, off, r)
		}

		break
	}

	return off - start
}

// CountUTF16 returns the number of bytes EncodeUTF16 writes for units.
func CountUTF16(units []uint16) int {
	n := 0
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if isHighSurrogate(r) && i+1 < len(units) && isLowSurrogate(rune(units[i+1])) {
			i++
			n += 4

			continue
		}
		n += runeLen(r)
	}

	return n
}

// EncodeUTF16 writes the UTF-8 encoding of UTF-16 code units to dst starting
// at off and returns the number of bytes written.
//
// A high surrogate followed by a low surrogate is combined into one 4-byte
// sequence. Unpaired surrogates are written in their 3-byte form.
func EncodeUTF16(units []uint16, dst []byte, off int) int {
	start := off
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if isHighSurrogate(r) && i+1 < len(units) {
			if low := rune(units[i+1]); isLowSurrogate(low) {
				i++
				r = (r-surrogateMin)<<10 + (low - lowSurrogateMin) + surrogateSelf
			}
		}
		off += putRune(dst, off, r)
	}

	return off - start
}

// DecodeString decodes n bytes of UTF-8 from src starting at off.
func DecodeString(src []byte, off, n int) string {
	s, _ := DecodeStringCounted(src, off, n)
	return s
}

// DecodeStringCounted decodes n bytes of UTF-8 from src starting at off and
// also returns the number of malformed leading bytes passed through.
//
// The range is clamped to src.
func DecodeStringCounted(src []byte, off, n int) (string, int) {
	if n <= 0 || off < 0 || off >= len(src) {
		return "", 0
	}

	out := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(out)
	out.Grow(n)

	malformed := decodeRunes(src, off, n, func(chunk []rune) {
		out.Grow(4 * len(chunk))
		b := out.B
		for _, r := range chunk {
			l := len(b)
			b = b[:l+4]
			b = b[:l+putRune(b, l, r)]
		}
		out.B = b
	})

	return string(out.B), malformed
}

// DecodeUTF16 decodes n bytes of UTF-8 from src starting at off into UTF-16
// code units, splitting supplementary code points into surrogate pairs.
func DecodeUTF16(src []byte, off, n int) []uint16 {
	if n <= 0 || off < 0 || off >= len(src) {
		return []uint16{}
	}

	units := make([]uint16, 0, n)
	decodeRunes(src, off, n, func(chunk []rune) {
		for _, r := range chunk {
			if r >= surrogateSelf {
				r -= surrogateSelf
				units = append(units, uint16(surrogateMin+(r>>10)&0x3ff), uint16(lowSurrogateMin+r&0x3ff)) //nolint:gosec
				continue
			}
			units = append(units, uint16(r)) //nolint:gosec
		}
	})

	return units
}

// decodeRunes interprets src[off:off+n] and passes the code points to emit
// in chunks of at most DecodeChunkSize. It returns the number of malformed
// leading bytes.
func decodeRunes(src []byte, off, n int, emit func([]rune)) int {
	end := off + n
	if end > len(src) || end < off {
		end = len(src)
	}

	chunk, cleanup := pool.GetRuneSlice(DecodeChunkSize)
	defer cleanup()

	malformed := 0
	k := 0
	for off < end {
		b1 := src[off]
		off++

		var r rune
		switch {
		case b1&0x80 == 0:
			r = rune(b1)
		case b1&0xe0 == 0xc0:
			b2 := continuation(src, &off, end)
			r = rune(b1&0x1f)<<6 | b2
		case b1&0xf0 == 0xe0:
			b2 := continuation(src, &off, end)
			b3 := continuation(src, &off, end)
			r = rune(b1&0x0f)<<12 | b2<<6 | b3
		case b1&0xf8 == 0xf0:
			b2 := continuation(src, &off, end)
			b3 := continuation(src, &off, end)
			b4 := continuation(src, &off, end)
			r = rune(b1&0x07)<<18 | b2<<12 | b3<<6 | b4
		default:
			r = rune(b1)
			malformed++
		}

		chunk[k] = r
		k++
		if k == len(chunk) {
			emit(chunk[:k])
			k = 0
		}
	}

	if k > 0 {
		emit(chunk[:k])
	}

	return malformed
}

// continuation reads the payload bits of the next byte; bytes past end read as zero.
func continuation(src []byte, off *int, end int) rune {
	if *off >= end {
		return 0
	}
	b := src[*off]
	*off++

	return rune(b & 0x3f)
}

func runeLen(r rune) int {
	switch {
	case r < 0:
		return 3
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < surrogateSelf:
		return 3
	case r <= 0x10ffff:
		return 4
	default:
		return 3
	}
}

// putRune writes r at dst[off:] and returns the bytes written. Surrogate code
// points are written in their 3-byte form; values outside the Unicode range
// become U+FFFD.
func putRune(dst []byte, off int, r rune) int {
	switch {
	case r < 0 || r > 0x10ffff:
		r = replacementChar
	case r < 0x80:
		dst[off] = byte(r)
		return 1
	case r < 0x800:
		dst[off] = 0xc0 | byte(r>>6)
		dst[off+1] = 0x80 | byte(r)&0x3f

		return 2
	case r >= surrogateSelf:
		dst[off] = 0xf0 | byte(r>>18)
		dst[off+1] = 0x80 | byte(r>>12)&0x3f
		dst[off+2] = 0x80 | byte(r>>6)&0x3f
		dst[off+3] = 0x80 | byte(r)&0x3f

		return 4
	}

	dst[off] = 0xe0 | byte(r>>12)
	dst[off+1] = 0x80 | byte(r>>6)&0x3f
	dst[off+2] = 0x80 | byte(r)&0x3f

	return 3
}

func isHighSurrogate(r rune) bool {
	return r >= surrogateMin && r <= highSurrogateMax
}

func isLowSurrogate(r rune) bool {
	return r >= lowSurrogateMin && r <= surrogateMax
}
