package compare

// ResolveIndices maps a master timeline index and a signed frame offset to
// the per-stream frame indices. Out-of-range requests clamp to the nearest
// valid edge frame: continuous display at stream boundaries beats a hard
// failure. Pure function, no error conditions.
//
// The offset applies to stream B only.
func ResolveIndices(masterIndex, offset, totalA, totalB int) (indexA, indexB int) {
	indexA = clampIndex(masterIndex, totalA)
	indexB = clampIndex(masterIndex+offset, totalB)
	return indexA, indexB
}

// MasterRange returns the inclusive range [lo, hi] of master indices for
// which both resolved indices are valid without clamping. When the offset
// pushes the ranges apart so far that no such index exists, the range
// collapses to frame 0.
func MasterRange(offset, totalA, totalB int) (lo, hi int) {
	lo = 0
	if -offset > lo {
		lo = -offset
	}
	hi = totalA - 1
	if b := totalB - 1 - offset; b < hi {
		hi = b
	}
	if hi < lo {
		return 0, 0
	}
	return lo, hi
}

// ClampMaster clamps a master index into MasterRange.
func ClampMaster(masterIndex, offset, totalA, totalB int) int {
	lo, hi := MasterRange(offset, totalA, totalB)
	if masterIndex < lo {
		return lo
	}
	if masterIndex > hi {
		return hi
	}
	return masterIndex
}

func clampIndex(i, total int) int {
	if total <= 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i > total-1 {
		return total - 1
	}
	return i
}
