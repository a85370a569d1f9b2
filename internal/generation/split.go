package generation

import (
	"errors"
	"fmt"
)

var ErrNoStyles = errors.New("at least one style is required")

// Split distributes total across n ordered styles. Every style gets
// total/n and the first total%n styles get one more.
func Split(total, n int) ([]int, error) {
	if n <= 0 {
		return nil, ErrNoStyles
	}
	if total < 0 {
		return nil, fmt.Errorf("total must not be negative, got %d", total)
	}

	base, rem := total/n, total%n
	counts := make([]int, n)
	for i := range counts {
		counts[i] = base
		if i < rem {
			counts[i]++
		}
	}
	return counts, nil
}
