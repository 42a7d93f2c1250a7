// Package mixer combines the output of several entropy sources into one
// stream.
package mixer

import (
	"crypto/hmac"
	"encoding/binary"

	"github.com/safing/entropy/crypto/hash"
	"github.com/safing/entropy/strength"
)

// Mixer combines parts into size bytes.
//
// The output of a mixer must be at least as unpredictable as its most
// unpredictable part, within the limit given by the mixer's strength.
type Mixer interface {
	Strength() strength.Level
	Mix(parts [][]byte, size int) []byte
}

// HashMixer folds parts with an HMAC chain. Every output block is the
// result of keying the HMAC of each part's block with the result of the
// previous part.
type HashMixer struct {
	Algorithm hash.Algorithm
}

// NewHashMixer returns a HashMixer using alg.
func NewHashMixer(alg hash.Algorithm) *HashMixer {
	return &HashMixer{Algorithm: alg}
}

// Strength returns strength.Medium for algorithms with a digest of at least
// 512 bit and strength.Low otherwise.
func (hm *HashMixer) Strength() strength.Level {
	if hm.Algorithm.Size() >= 64 {
		return strength.Medium
	}
	return strength.Low
}

// Mix combines parts into size bytes. The order of parts matters: later
// parts are folded over earlier ones. Without any parts Mix returns nil.
func (hm *HashMixer) Mix(parts [][]byte, size int) []byte {
	if len(parts) == 0 || size <= 0 {
		return nil
	}

	blockSize := int(hm.Algorithm.Size())
	if blockSize == 0 {
		return nil
	}
	result := make([]byte, 0, size+blockSize)
	blockIndex := make([]byte, 4)
	key := make([]byte, blockSize)

	for block := 0; len(result) < size; block++ {
		binary.BigEndian.PutUint32(blockIndex, uint32(block))

		// zero key for the first part of every block
		for i := range key {
			key[i] = 0
		}
		var acc []byte
		for _, part := range parts {
			mac := hmac.New(hm.Algorithm.New, key)
			_, _ = mac.Write(blockIndex)
			_, _ = mac.Write(partBlock(part, block, blockSize))
			acc = mac.Sum(acc[:0])
			key = append(key[:0], acc...)
		}
		result = append(result, acc...)
	}

	return result[:size]
}

// partBlock returns the block-th block of part, or nil if part is too short.
func partBlock(part []byte, block, blockSize int) []byte {
	start := block * blockSize
	if start >= len(part) {
		return nil
	}
	end := start + blockSize
	if end > len(part) {
		end = len(part)
	}
	return part[start:end]
}
