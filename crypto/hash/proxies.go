// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package hash

import (
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"lukechampine.com/blake3"
)

// NewBlake2s256 returns a new BLAKE2s-256 hash.Hash.
func NewBlake2s256() hash.Hash {
	h, _ := blake2s.New256(nil)
	return h
}

// NewBlake2b256 returns a new BLAKE2b-256 hash.Hash.
func NewBlake2b256() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

// NewBlake2b384 returns a new BLAKE2b-384 hash.Hash.
func NewBlake2b384() hash.Hash {
	h, _ := blake2b.New384(nil)
	return h
}

// NewBlake2b512 returns a new BLAKE2b-512 hash.Hash.
func NewBlake2b512() hash.Hash {
	h, _ := blake2b.New512(nil)
	return h
}

// NewBlake3512 returns a new BLAKE3 hash.Hash with a 512 bit output.
func NewBlake3512() hash.Hash {
	return blake3.New(64, nil)
}
