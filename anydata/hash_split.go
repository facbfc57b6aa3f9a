package anydata

import "sort"

// HashSplit deterministically partitions a set by the
// hashes of its inputs, so that the same sample always
// lands in the same partition regardless of order.
//
// The set s is reordered in the process.
//
// The leftRatio argument is the expected fraction of
// samples in the left partition.
func HashSplit(s Set, leftRatio float64) (left, right Set) {
	if leftRatio <= 0 {
		return Set{}, s.Slice(0, len(s))
	} else if leftRatio >= 1 {
		return s.Slice(0, len(s)), Set{}
	}
	cutoff := hashCutoff(leftRatio)
	hashes := make([][]byte, len(s))
	for i := range s {
		hashes[i] = s.Hash(i)
	}
	insertIdx := 0
	for i := range s {
		if compareHashes(hashes[i], cutoff) < 0 {
			s.Swap(insertIdx, i)
			hashes[insertIdx], hashes[i] = hashes[i], hashes[insertIdx]
			insertIdx++
		}
	}
	splitIdx := sort.Search(len(s), func(i int) bool {
		return compareHashes(hashes[i], cutoff) >= 0
	})
	return s.Slice(0, splitIdx), s.Slice(splitIdx, len(s))
}

// hashCutoff turns a ratio into the hash value below which
// that fraction of uniformly distributed hashes falls.
func hashCutoff(ratio float64) []byte {
	res := make([]byte, 8)
	for i := range res {
		ratio *= 256
		value := int(ratio)
		ratio -= float64(value)
		if value == 256 {
			value = 255
		}
		res[i] = byte(value)
	}
	return res
}

func compareHashes(h1, h2 []byte) int {
	max := len(h1)
	if len(h2) > max {
		max = len(h2)
	}
	for i := 0; i < max; i++ {
		var v1, v2 byte
		if i < len(h1) {
			v1 = h1[i]
		}
		if i < len(h2) {
			v2 = h2[i]
		}
		if v1 < v2 {
			return -1
		} else if v1 > v2 {
			return 1
		}
	}
	return 0
}
