package pstring

import "unsafe"

func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// Arena is a bump allocator. Individual frees are no-ops; ReleaseAll makes
// every block available again. Resizing the most recent allocation extends
// it in place when the current block has room.
type Arena struct {
	blocks    [][]byte
	off       int // offset into the last block
	last      []byte
	blockSize int
}

// NewArena returns an arena that carves allocations out of blockSize-byte
// slabs. Requests larger than blockSize get a dedicated block.
func NewArena(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = 1 << 16
	}
	return &Arena{blockSize: blockSize}
}

func (a *Arena) Request(ptr []byte, oldSize, newSize int, zalign uintptr) []byte {
	if newSize <= 0 {
		return nil // frees are deferred to ReleaseAll
	}

	align := int(zalign &^ zeroBit)
	if align < 1 {
		align = 1
	}

	// Extend in place when ptr is the most recent allocation and the
	// block still has room.
	if ptr != nil && a.last != nil && addrOf(ptr) == addrOf(a.last) && newSize > oldSize {
		end := a.off - len(a.last) + newSize
		if end <= len(a.blocks[len(a.blocks)-1]) {
			a.off = end
			a.last = a.blocks[len(a.blocks)-1][a.off-newSize : a.off]
			if zalign&zeroBit != 0 {
				clear(a.last[oldSize:])
			}
			return a.last
		}
	}

	out := a.bump(newSize, align)
	if out == nil {
		return nil
	}
	if ptr != nil {
		copy(out, ptr[:min(oldSize, newSize)])
	}
	if zalign&zeroBit != 0 && oldSize < newSize {
		clear(out[max(oldSize, 0):])
	}
	a.last = out
	return out
}

func (a *Arena) bump(size, align int) []byte {
	if len(a.blocks) > 0 {
		blk := a.blocks[len(a.blocks)-1]
		off := a.off
		if pad := int(addrOf(blk[off:]) & uintptr(align-1)); pad != 0 {
			off += align - pad
		}
		if off+size <= len(blk) {
			a.off = off + size
			return blk[off : off+size : off+size]
		}
	}

	blkSize := a.blockSize
	if size+align-1 > blkSize {
		blkSize = size + align - 1
	}
	blk := make([]byte, blkSize)
	a.blocks = append(a.blocks, blk)

	off := 0
	if pad := int(addrOf(blk) & uintptr(align-1)); pad != 0 {
		off = align - pad
	}
	a.off = off + size
	return blk[off : off+size : off+size]
}

// ReleaseAll recycles the arena's first block and drops the rest.
func (a *Arena) ReleaseAll() {
	if len(a.blocks) > 1 {
		a.blocks = a.blocks[:1]
	}
	a.off = 0
	a.last = nil
}
