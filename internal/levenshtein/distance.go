// Package levenshtein computes edit distances for domain typo detection.
package levenshtein

// Distance computes the Levenshtein edit distance between two strings.
// The implementation uses O(min(m,n)) memory.
func Distance(s, t string) int {
	sr := []rune(s)
	tr := []rune(t)

	if len(sr) == 0 {
		return len(tr)
	}
	if len(tr) == 0 {
		return len(sr)
	}

	// Shorter string becomes the column so the rows stay small.
	if len(sr) > len(tr) {
		sr, tr = tr, sr
	}

	prev := make([]int, len(sr)+1)
	curr := make([]int, len(sr)+1)

	for i := range prev {
		prev[i] = i
	}

	for j, tc := range tr {
		curr[0] = j + 1
		for i, sc := range sr {
			cost := 1
			if sc == tc {
				cost = 0
			}
			curr[i+1] = min3(
				curr[i]+1,    // deletion
				prev[i+1]+1,  // insertion
				prev[i]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(sr)]
}

// Within reports whether the edit distance between s and t is at most max.
// Cheaper than Distance for scanning a candidate list: a length difference
// beyond max short-circuits without touching the matrix.
func Within(s, t string, max int) bool {
	if max < 0 {
		return false
	}
	ls, lt := len([]rune(s)), len([]rune(t))
	diff := ls - lt
	if diff < 0 {
		diff = -diff
	}
	if diff > max {
		return false
	}
	return Distance(s, t) <= max
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
