package selection

// SelectRun returns positions into pages (an ascending page sequence) that
// form the longest run of strictly consecutive page numbers.
//
// Ties go to the earliest run. With no run of two or more pages the last
// position is returned on its own, so a document whose detections are all
// isolated keeps the most recent one. An empty input yields nil.
func SelectRun(pages []int) []int {
	switch len(pages) {
	case 0:
		return nil
	case 1:
		return []int{0}
	}

	bestStart, bestLen := 0, 0
	start := 0
	for i := 1; i <= len(pages); i++ {
		if i < len(pages) && pages[i] == pages[i-1]+1 {
			continue
		}
		if n := i - start; n > 1 && n > bestLen {
			bestStart, bestLen = start, n
		}
		start = i
	}

	if bestLen == 0 {
		return []int{len(pages) - 1}
	}
	positions := make([]int, bestLen)
	for i := range positions {
		positions[i] = bestStart + i
	}
	return positions
}
