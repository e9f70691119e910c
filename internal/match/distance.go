package match

// EditDistance computes the Levenshtein distance between a and b over Unicode
// code points, after case folding both inputs. Comparing runes rather than
// bytes keeps multi-byte answers ("Riñón") from inflating the distance.
func EditDistance(a, b string) int {
	ra := []rune(FoldCase(a, false))
	rb := []rune(FoldCase(b, false))
	m, n := len(ra), len(rb)

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min(curr[j-1], prev[j], prev[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[n]
}
