package host

import (
	"github.com/ethereum/go-ethereum/common"
)

type overlayChange struct {
	addr common.Address
	key  common.Hash
	prev common.Hash
}

// StorageOverlay is the in-memory storage of a dry run, keyed per account.
//
// A key absent from the overlay reads as zero and is cold. The first touch
// inserts a zero entry; every later touch in the same run is warm. Writes are
// recorded in an undo log so that a reverted frame restores the previous
// values. Presence of a key is never rolled back, so warmth survives reverts.
type StorageOverlay struct {
	slots map[common.Address]map[common.Hash]common.Hash
	undo  []overlayChange
}

func NewStorageOverlay() *StorageOverlay {
	return &StorageOverlay{slots: make(map[common.Address]map[common.Hash]common.Hash)}
}

func (s *StorageOverlay) touch(addr common.Address, key common.Hash) (common.Hash, bool) {
	slots, ok := s.slots[addr]
	if !ok {
		slots = make(map[common.Hash]common.Hash)
		s.slots[addr] = slots
	}
	value, present := slots[key]
	if !present {
		slots[key] = common.Hash{}
	}
	return value, !present
}

// Load returns the value of key and whether this was its first touch.
func (s *StorageOverlay) Load(addr common.Address, key common.Hash) (value common.Hash, isCold bool) {
	return s.touch(addr, key)
}

// Store writes value and returns the replaced value and whether this was the
// first touch of key.
func (s *StorageOverlay) Store(addr common.Address, key, value common.Hash) (previous common.Hash, isCold bool) {
	previous, isCold = s.touch(addr, key)
	s.undo = append(s.undo, overlayChange{addr: addr, key: key, prev: previous})
	s.slots[addr][key] = value
	return previous, isCold
}

// Get reads key without touching it.
func (s *StorageOverlay) Get(addr common.Address, key common.Hash) common.Hash {
	return s.slots[addr][key]
}

// Len returns the number of touched keys of addr.
func (s *StorageOverlay) Len(addr common.Address) int {
	return len(s.slots[addr])
}

func (s *StorageOverlay) mark() int {
	return len(s.undo)
}

// revertTo undoes every write recorded after mark.
func (s *StorageOverlay) revertTo(mark int) {
	for i := len(s.undo) - 1; i >= mark; i-- {
		c := s.undo[i]
		s.slots[c.addr][c.key] = c.prev
	}
	s.undo = s.undo[:mark]
}
