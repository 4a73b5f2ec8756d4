// internal/store/constants.go
package store

// Persistent slot layout constants.
// These values define the on-memory format and MUST NOT be configurable.

// ---- SLOT GEOMETRY ----

// SlotSize is the number of bytes one authorization slot occupies:
// 4 bytes tag id (big-endian) followed by 1 status byte.
const SlotSize = 5

// slotTagOffset is the byte offset of the tag id within a slot.
const slotTagOffset = 0

// slotStatusOffset is the byte offset of the status byte within a slot.
// The status byte is written last: a slot counts as populated only
// once its status is non-empty, which makes slot writes atomic from
// the reader's point of view.
const slotStatusOffset = 4

// ---- STATUS BYTES ----

// StatusEmpty marks an unused or erased slot.
const StatusEmpty byte = 0x00

// StatusAuthorized marks an ordinary access credential.
const StatusAuthorized byte = 0x01

// StatusAdmin is encoded for forward compatibility. Admin tags live
// in the compiled-in list; this firmware never writes StatusAdmin.
const StatusAdmin byte = 0x02
