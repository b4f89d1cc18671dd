package booking

import (
	"fmt"
	"strconv"
	"strings"
)

const receiptPrefix = "MSB-"

// NextReceiptCode returns the code following latest. An empty or malformed
// latest code restarts the sequence at MSB-0001.
func NextReceiptCode(latest string) string {
	n, _ := parseReceiptCode(latest)
	return fmt.Sprintf("%s%04d", receiptPrefix, n+1)
}

func parseReceiptCode(code string) (int, bool) {
	suffix, ok := strings.CutPrefix(code, receiptPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
