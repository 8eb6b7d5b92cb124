package pstring

// distanceStackRows is the widest row the edit-distance kernel keeps on
// the stack; longer rows come from scratch storage instead.
const distanceStackRows = 1024

// Distance returns the Damerau-Levenshtein distance between a and b:
// insertions, deletions and substitutions cost 1, as does transposing two
// adjacent bytes. Three rolling rows over the shorter input keep the
// working set at min(len)+1 integers.
func Distance(a, b *String) int {
	x, y := a.Bytes(), b.Bytes()
	if len(x) < len(y) {
		x, y = y, x
	}
	// y is now the shorter string; rows span len(y)+1.
	w := len(y) + 1

	var stack [3 * (distanceStackRows + 1)]int32
	var rows []int32
	if w <= distanceStackRows+1 {
		rows = stack[:3*w]
	} else {
		rows = make([]int32, 3*w)
	}
	prev2 := rows[0:w]    // row i-2
	prev := rows[w : 2*w] // row i-1
	curr := rows[2*w:]    // row i

	for j := 0; j < w; j++ {
		prev[j] = int32(j)
	}

	for i := 1; i <= len(x); i++ {
		curr[0] = int32(i)
		for j := 1; j < w; j++ {
			cost := int32(1)
			if x[i-1] == y[j-1] {
				cost = 0
			}

			d := prev[j] + 1 // deletion
			if ins := curr[j-1] + 1; ins < d {
				d = ins
			}
			if sub := prev[j-1] + cost; sub < d {
				d = sub
			}
			if i > 1 && j > 1 && x[i-1] == y[j-2] && x[i-2] == y[j-1] {
				if tr := prev2[j-2] + 1; tr < d {
					d = tr
				}
			}
			curr[j] = d
		}
		prev2, prev, curr = prev, curr, prev2
	}

	return int(prev[w-1])
}
