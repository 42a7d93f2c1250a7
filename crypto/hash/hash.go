// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package hash

// Digest returns the raw digest of the concatenation of all parts, or nil if
// the algorithm is unknown.
func Digest(alg Algorithm, parts ...[]byte) []byte {
	hasher := alg.New()
	if hasher == nil {
		return nil
	}
	for _, part := range parts {
		_, _ = hasher.Write(part)
	}
	return hasher.Sum(nil)
}

// RecommendedAlg returns the recommended algorithm for the given security strength.
func RecommendedAlg(strengthInBits uint16) Algorithm {
	strengthInBytes := uint8(strengthInBits / 8)
	if strengthInBits%8 != 0 {
		strengthInBytes++
	}
	if strengthInBytes == 0 {
		strengthInBytes = uint8(0xFF)
	}
	chosenAlg := orderedByRecommendation[0]
	for _, alg := range orderedByRecommendation {
		strength := alg.SecurityStrength()
		if strength < strengthInBytes {
			break
		}
		chosenAlg = alg
		if strength == strengthInBytes {
			break
		}
	}
	return chosenAlg
}
