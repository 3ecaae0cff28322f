package services

import (
	"fmt"
	"strconv"
	"strings"
)

// firstOrderNo seeds the sequence when no order has ever been issued.
const firstOrderNo = "O1"

// NextOrderNo derives the next order number from the last issued one.
// Widths grow naturally (O9 -> O10, O99 -> O100); there is no zero padding.
func NextOrderNo(last string) (string, error) {
	if last == "" {
		return firstOrderNo, nil
	}
	digits, ok := strings.CutPrefix(last, "O")
	if !ok || digits == "" {
		return "", fmt.Errorf("%w: %q", ErrOrderNoCorrupt, last)
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrOrderNoCorrupt, last)
	}
	return "O" + strconv.FormatUint(n+1, 10), nil
}
