// internal/frame/decoder.go
package frame

// TagID is the 32-bit credential identifier extracted from a frame.
type TagID uint32

// Source yields buffered reader bytes without blocking.
// The second return is false when no byte is available.
type Source interface {
	Next() (byte, bool)
}

// Decode consumes at most one frame from src and returns the decoded
// tag id. It returns false both when no frame has started and when a
// frame turned out to be malformed; invalid frames are dropped
// silently and never surface as errors.
//
// A frame is STX, twelve ASCII hex characters, ETX. Each decoded byte
// has its bit order reversed to match the credential database
// convention. A frame is accepted only if the XOR of all six reversed
// bytes is zero and the bytes are not all identical (a constant
// stream from a glitched reader can satisfy the checksum).
func Decode(src Source) (TagID, bool) {
	b, ok := src.Next()
	if !ok || b != StartByte {
		return 0, false
	}

	var payload [PayloadBytes]byte
	n := 0

	for {
		hi, ok := src.Next()
		if !ok {
			return 0, false
		}
		if hi == EndByte {
			break
		}
		lo, ok := src.Next()
		if !ok || lo == EndByte {
			return 0, false
		}
		if n >= PayloadBytes {
			// Overlong frame: drop it.
			return 0, false
		}

		h, ok1 := hexVal(hi)
		l, ok2 := hexVal(lo)
		if !ok1 || !ok2 {
			return 0, false
		}
		payload[n] = reverseBits(h<<4 | l)
		n++
	}

	if n != PayloadBytes {
		return 0, false
	}

	var xor byte
	same := true
	for i := 0; i < PayloadBytes; i++ {
		xor ^= payload[i]
		if payload[i] != payload[0] {
			same = false
		}
	}
	if xor != 0 || same {
		return 0, false
	}

	var id TagID
	for i := tagIDFirst; i <= tagIDLast; i++ {
		id = id<<8 | TagID(payload[i])
	}
	return id, true
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// reverseBits swaps bit 0 with bit 7, bit 1 with bit 6, and so on.
func reverseBits(b byte) byte {
	b = b>>4 | b<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
