// Package util holds small helpers shared by reporting code.
package util

// Levenshtein returns the insert/delete/replace distance between a and b,
// counted in runes.
func Levenshtein(a, b string) int {
	src, dst := []rune(a), []rune(b)
	if len(src) < len(dst) {
		src, dst = dst, src
	}
	if len(dst) == 0 {
		return len(src)
	}

	// dist[j] holds the distance between the current prefix of src and dst[:j]
	dist := make([]int, len(dst)+1)
	for j := range dist {
		dist[j] = j
	}

	for i, sr := range src {
		diag := dist[0]
		dist[0] = i + 1
		for j, dr := range dst {
			above := dist[j+1]
			best := diag
			if sr != dr {
				best = min(diag, above, dist[j]) + 1
			}
			dist[j+1] = best
			diag = above
		}
	}
	return dist[len(dst)]
}
