// Package sorter reorders table rows with an in-place partition-exchange
// sort and locates ordered insertion points.
//
// The sort is driven entirely by row indices: Compare orders two rows and
// Swap exchanges two whole rows, so every column moves together. The pivot
// is the midpoint of the current range, which makes already-descending input
// quadratic. The sort is not stable.
package sorter

// Rows is the view a sort operates on.
type Rows interface {
	// Len returns the number of rows.
	Len() int
	// Compare orders rows i and j by the sort key: negative, zero or positive.
	Compare(i, j int) int
	// Swap exchanges rows i and j across every column.
	Swap(i, j int)
}

// Quicksort sorts rows in place, ascending or descending by Compare.
func Quicksort(rows Rows, ascending bool) {
	n := rows.Len()
	if n < 2 {
		return
	}
	s := quicksorter{rows: rows, ascending: ascending}
	s.sort(0, n-1)
}

type quicksorter struct {
	rows      Rows
	ascending bool
}

// precedes reports whether row i comes strictly before row j in the chosen
// direction.
func (s *quicksorter) precedes(i, j int) bool {
	c := s.rows.Compare(i, j)
	if s.ascending {
		return c < 0
	}
	return c > 0
}

func (s *quicksorter) sort(low, high int) {
	if low >= high {
		return
	}
	i, j := low, high
	// p tracks whichever row currently holds the pivot value.
	p := low + (high-low)/2

	for i <= j {
		for s.precedes(i, p) {
			i++
		}
		for s.precedes(p, j) {
			j--
		}
		if i <= j {
			s.rows.Swap(i, j)
			switch p {
			case i:
				p = j
			case j:
				p = i
			}
			i++
			j--
		}
	}

	if low < j {
		s.sort(low, j)
	}
	if i < high {
		s.sort(i, high)
	}
}

// InsertionPoint scans rows 0..n-1 in order and returns the first index whose
// key is not less than the new key, or n if there is none. cmp(i) compares
// the key at row i against the new key.
func InsertionPoint(n int, cmp func(i int) int) int {
	for i := 0; i < n; i++ {
		if cmp(i) >= 0 {
			return i
		}
	}
	return n
}

// Sorted reports whether rows are ordered (non-decreasing when ascending,
// non-increasing otherwise).
func Sorted(rows Rows, ascending bool) bool {
	s := quicksorter{rows: rows, ascending: ascending}
	for i := 1; i < rows.Len(); i++ {
		if s.precedes(i, i-1) {
			return false
		}
	}
	return true
}
