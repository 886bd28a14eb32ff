// Package ids allocates identifiers for new records.
package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// NextInt returns one more than the largest existing id, or start when there
// are none.
func NextInt(existing []int, start int) int {
	if len(existing) == 0 {
		return start
	}
	highest := existing[0]
	for _, id := range existing[1:] {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

// NextCode returns a zero-padded decimal code one greater than the largest
// numeric code in existing. Codes that are not integers are skipped.
func NextCode(existing []string, width int) string {
	highest := 0
	for _, code := range existing {
		n, err := strconv.Atoi(strings.TrimSpace(code))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%0*d", width, highest+1)
}
