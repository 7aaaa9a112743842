package study

import "strings"

// Similarity scores two strings in [0,1] using the Ratcliff/Obershelp
// matching-blocks ratio, case-insensitively. It is symmetric, and a
// case-insensitive exact match scores 1.0.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	if len(ra)+len(rb) == 0 {
		return 1.0
	}

	matched := matchingTotal(ra, rb)
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingTotal sums the lengths of all matching blocks: the longest common
// substring, then recursively the pieces to its left and right.
func matchingTotal(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a[:ai], b[:bi]) +
		matchingTotal(a[ai+size:], b[bi+size:])
}

func longestMatch(a, b []rune) (bestA, bestB, bestSize int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	positions := make(map[rune][]int, len(b))
	for j, r := range b {
		positions[r] = append(positions[r], j)
	}

	// lengths[j] is the length of the match ending at a[i-1], b[j].
	lengths := map[int]int{}
	for i, r := range a {
		next := map[int]int{}
		for _, j := range positions[r] {
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestSize {
				bestA = i - k + 1
				bestB = j - k + 1
				bestSize = k
			}
		}
		lengths = next
	}
	return bestA, bestB, bestSize
}
