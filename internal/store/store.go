// internal/store/store.go
package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tamzrod/fobgate/internal/frame"
)

// TagStatus is the authorization status of a tag id.
type TagStatus byte

const (
	Empty      TagStatus = TagStatus(StatusEmpty)
	Authorized TagStatus = TagStatus(StatusAuthorized)
	Admin      TagStatus = TagStatus(StatusAdmin)
)

// ErrFull is returned by Insert when no empty slot remains.
var ErrFull = errors.New("store: no free slot")

// Store is a linear-scan slot table over a Memory. The table is
// unordered: first empty slot wins on insert, last match wins on
// lookup. There is no compaction and no duplicate check.
type Store struct {
	mem   Memory
	slots int
}

// New claims mem for the store. Capacity is floor(size / SlotSize).
func New(mem Memory) (*Store, error) {
	slots := mem.Size() / SlotSize
	if slots == 0 {
		return nil, fmt.Errorf("store: memory of %d bytes holds no slots", mem.Size())
	}
	return &Store{mem: mem, slots: slots}, nil
}

// Slots reports the table capacity.
func (s *Store) Slots() int { return s.slots }

// Lookup scans every slot and returns the status of the last
// populated slot holding tag, or Empty if none does. Duplicate
// entries are possible (Insert does not dedupe); the last match in
// scan order is authoritative.
func (s *Store) Lookup(tag frame.TagID) (TagStatus, error) {
	var slot [SlotSize]byte
	status := Empty

	for i := 0; i < s.slots; i++ {
		if err := s.mem.ReadAt(slot[:], int64(i*SlotSize)); err != nil {
			return Empty, fmt.Errorf("store: read slot %d: %w", i, err)
		}
		if slot[slotStatusOffset] == StatusEmpty {
			continue
		}
		if frame.TagID(binary.BigEndian.Uint32(slot[slotTagOffset:])) == tag {
			status = TagStatus(slot[slotStatusOffset])
		}
	}
	return status, nil
}

// Insert writes {tag, Authorized} into the first empty slot. The tag
// bytes land before the status byte so a reader never observes a
// partially written slot. Returns ErrFull when the table has no
// empty slot left.
func (s *Store) Insert(tag frame.TagID) error {
	var slot [SlotSize]byte

	for i := 0; i < s.slots; i++ {
		off := int64(i * SlotSize)
		if err := s.mem.ReadAt(slot[:], off); err != nil {
			return fmt.Errorf("store: read slot %d: %w", i, err)
		}
		if slot[slotStatusOffset] != StatusEmpty {
			continue
		}

		var id [4]byte
		binary.BigEndian.PutUint32(id[:], uint32(tag))
		if err := s.mem.WriteAt(id[:], off+slotTagOffset); err != nil {
			return fmt.Errorf("store: write slot %d tag: %w", i, err)
		}
		if err := s.mem.WriteAt([]byte{StatusAuthorized}, off+slotStatusOffset); err != nil {
			return fmt.Errorf("store: write slot %d status: %w", i, err)
		}
		return nil
	}
	return ErrFull
}

// EraseAll resets every slot's status byte to empty in place. Tag id
// bytes are left as-is: a slot with an empty status is unpopulated
// regardless of what its tag bytes hold.
func (s *Store) EraseAll() error {
	for i := 0; i < s.slots; i++ {
		off := int64(i*SlotSize + slotStatusOffset)
		if err := s.mem.WriteAt([]byte{StatusEmpty}, off); err != nil {
			return fmt.Errorf("store: erase slot %d: %w", i, err)
		}
	}
	return nil
}
