package scoring

import "strings"

// textSimilarity is the case-insensitive sequence similarity between output
// and expected: 2*LCS/(len(a)+len(b)) over runes. Empty expected is trivially
// satisfied; a non-empty expectation against empty output scores zero.
func textSimilarity(output, expected string) float64 {
	if expected == "" {
		return 1.0
	}
	if output == "" {
		return 0.0
	}
	return similarityRatio(strings.ToLower(output), strings.ToLower(expected))
}

func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	lcs := lcsLength(ra, rb)
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

func lcsLength(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
