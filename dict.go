package pstring

import (
	"math/bits"

	"github.com/pjjov/pstring/internal/scan"
)

const (
	bucketSize = 16

	metaEmpty     = 0
	metaTombstone = 1

	// loadNum/loadDen is the growth threshold.
	loadNum = 7
	loadDen = 10
)

// Dict maps String keys to opaque values. Keys and values are stored by
// reference: the dictionary copies neither, and both must stay alive while
// their entry does. Each group of bucketSize slots carries a metadata
// strip of one-byte tags probed with the scan kernel; 0 marks an empty
// slot, 1 a tombstone, anything else is the hash fingerprint of the
// occupant.
type Dict struct {
	meta  []byte
	keys  []*String
	vals  []any
	count int
	slots int
	hash  HashFunc
	alloc Allocator
}

// NewDict returns an empty dictionary using the given hash function and
// allocator; nil selects the built-in hash and the default allocator.
func NewDict(hash HashFunc, alloc Allocator) *Dict {
	if hash == nil {
		hash = defaultHash
	}
	if alloc == nil {
		alloc = Std
	}
	return &Dict{hash: hash, alloc: alloc}
}

// Count returns the number of live key-value pairs.
func (d *Dict) Count() int { return d.count }

// Capacity returns the number of reserved slots.
func (d *Dict) Capacity() int { return d.slots }

// Allocator returns the allocator backing the metadata storage.
func (d *Dict) Allocator() Allocator { return d.alloc }

// fingerprint folds a hash into a metadata tag, remapping the empty and
// tombstone values so the same byte-equality kernel serves both probing
// and vacancy checks.
func fingerprint(h uint64) byte {
	fp := byte(h)
	if fp < 2 {
		fp = 2
	}
	return fp
}

// probe locates key. It returns the occupied slot (or -1) and the first
// reusable slot seen on the way (empty or tombstone, or -1 when the table
// is unallocated).
func (d *Dict) probe(key *String, h uint64) (found, insert int) {
	found, insert = -1, -1
	if d.slots == 0 {
		return
	}

	fp := fingerprint(h)
	buckets := d.slots / bucketSize
	b := int(h&uint64(d.slots-1)) / bucketSize

	for i := 0; i < buckets; i++ {
		base := b * bucketSize
		group := d.meta[base : base+bucketSize]

		m := scan.MatchByte(group, fp)
		for m != 0 {
			slot := base + bits.TrailingZeros64(m)
			if d.keys[slot].Equal(key) {
				return slot, insert
			}
			m &= m - 1
		}

		e := scan.MatchByte(group, metaEmpty)
		if insert < 0 {
			if free := e | scan.MatchByte(group, metaTombstone); free != 0 {
				insert = base + bits.TrailingZeros64(free)
			}
		}
		if e != 0 {
			return -1, insert
		}

		b++
		if b == buckets {
			b = 0
		}
	}
	return -1, insert
}

// Get retrieves the value stored under key, or nil.
func (d *Dict) Get(key *String) any {
	if d == nil || key == nil {
		return nil
	}
	slot, _ := d.probe(key, d.hash(key))
	if slot < 0 {
		return nil
	}
	return d.vals[slot]
}

// Set stores value under key, inserting or overwriting.
func (d *Dict) Set(key *String, value any) error {
	return d.put(key, value, true)
}

// Insert stores value under key, reporting ErrExists when the key is
// already present.
func (d *Dict) Insert(key *String, value any) error {
	return d.put(key, value, false)
}

func (d *Dict) put(key *String, value any, overwrite bool) error {
	if d == nil || key == nil {
		return ErrInvalid
	}
	if err := d.Reserve(1); err != nil {
		return err
	}

	h := d.hash(key)
	slot, insert := d.probe(key, h)
	if slot >= 0 {
		if !overwrite {
			return ErrExists
		}
		d.vals[slot] = value
		return nil
	}

	d.meta[insert] = fingerprint(h)
	d.keys[insert] = key
	d.vals[insert] = value
	d.count++
	return nil
}

// finsert stores a pair without checking for presence; rehashing relies on
// it because the source table cannot contain duplicates.
func (d *Dict) finsert(key *String, value any, h uint64) {
	_, insert := d.probe(key, h)
	d.meta[insert] = fingerprint(h)
	d.keys[insert] = key
	d.vals[insert] = value
	d.count++
}

// Remove deletes the pair stored under key, leaving a tombstone so later
// probes keep walking.
func (d *Dict) Remove(key *String) error {
	if d == nil || key == nil {
		return ErrInvalid
	}
	slot, _ := d.probe(key, d.hash(key))
	if slot < 0 {
		return ErrNotFound
	}
	d.meta[slot] = metaTombstone
	d.keys[slot] = nil
	d.vals[slot] = nil
	d.count--
	return nil
}

// Reserve grows the table until count+n pairs fit under the load-factor
// threshold.
func (d *Dict) Reserve(n int) error {
	if d == nil || n < 0 {
		return ErrInvalid
	}
	for (d.count+n)*loadDen > d.slots*loadNum {
		if err := d.grow(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dict) grow() error {
	newSlots := bucketSize
	if d.slots > 0 {
		newSlots = d.slots * 2
	}

	meta := allocate(d.alloc, newSlots, zeroBit)
	if meta == nil {
		return ErrNoMemory
	}
	keys := make([]*String, newSlots)
	vals := make([]any, newSlots)

	oldMeta, oldKeys, oldVals, oldSlots := d.meta, d.keys, d.vals, d.slots
	d.meta, d.keys, d.vals, d.slots = meta, keys, vals, newSlots

	if d.count > 0 {
		d.count = 0
		for i := 0; i < oldSlots; i++ {
			if oldMeta[i] > metaTombstone {
				d.finsert(oldKeys[i], oldVals[i], d.hash(oldKeys[i]))
			}
		}
	}
	release(d.alloc, oldMeta, oldSlots)
	return nil
}

// Clear removes every pair, keeping the reserved slots.
func (d *Dict) Clear() {
	if d == nil {
		return
	}
	clear(d.meta)
	clear(d.keys)
	clear(d.vals)
	d.count = 0
}

// Free releases the table storage. The dictionary is reusable afterwards
// and grows again from empty.
func (d *Dict) Free() {
	if d == nil {
		return
	}
	release(d.alloc, d.meta, d.slots)
	d.meta, d.keys, d.vals = nil, nil, nil
	d.count, d.slots = 0, 0
}

// Each calls fn for every live pair in bucket-major, slot-minor order. A
// non-zero return halts the walk, surfaced as ErrInterrupted.
func (d *Dict) Each(fn func(key *String, value any) int) error {
	if d == nil || fn == nil {
		return ErrInvalid
	}
	for i := 0; i < d.slots; i++ {
		if d.meta[i] > metaTombstone {
			if fn(d.keys[i], d.vals[i]) != 0 {
				return ErrInterrupted
			}
		}
	}
	return nil
}

// Filter calls fn for every live pair and deletes those for which it
// returns false.
func (d *Dict) Filter(fn func(key *String, value any) bool) error {
	if d == nil || fn == nil {
		return ErrInvalid
	}
	for i := 0; i < d.slots; i++ {
		if d.meta[i] > metaTombstone {
			if !fn(d.keys[i], d.vals[i]) {
				d.meta[i] = metaTombstone
				d.keys[i] = nil
				d.vals[i] = nil
				d.count--
			}
		}
	}
	return nil
}
