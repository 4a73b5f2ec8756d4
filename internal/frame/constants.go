// internal/frame/constants.go
package frame

// Reader frame layout constants.
// These values define the wire format and MUST NOT be configurable.

// ---- FRAMING BYTES ----

// StartByte opens a reader frame (ASCII STX).
const StartByte = 0x02

// EndByte closes a reader frame (ASCII ETX).
const EndByte = 0x03

// ---- PAYLOAD GEOMETRY ----

// PayloadBytes is the number of decoded bytes carried by one frame.
// On the wire each byte is two ASCII hex characters.
const PayloadBytes = 6

// HexChars is the number of ASCII characters between STX and ETX.
const HexChars = PayloadBytes * 2

// ---- TAG ID EXTRACTION ----

// Payload positions 0 and 5 are framing/checksum; the tag id is
// assembled from positions 1..4, most significant byte first. The
// top hex digits of the physical credential are dropped, matching
// the legacy credential database format.
const (
	tagIDFirst = 1
	tagIDLast  = 4
)
