package core

import (
	"crypto/sha256"
	"encoding/binary"
)

// PairSeed derives a deterministic sub-seed for one biomolecule pair from a
// base seed. The pair is canonicalized so (a,b) and (b,a) always map to the
// same stream, which keeps results independent of chunking and worker
// scheduling.
func PairSeed(base uint64, a, b string) uint64 {
	if b < a {
		a, b = b, a
	}

	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], base)
	h.Write(buf[:])
	h.Write([]byte(a))
	h.Write([]byte{0})
	h.Write([]byte(b))

	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// LayerSeed derives a per-layer base seed so layers run on independent
// streams even when they share biomolecule names.
func LayerSeed(base uint64, layer string) uint64 {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], base)
	h.Write(buf[:])
	h.Write([]byte(layer))

	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
