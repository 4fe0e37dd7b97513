package jobcard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// NumberPrefix is the fixed jobcard number prefix
const NumberPrefix = "JOB-"

// FirstNumber is the numeric suffix of the first jobcard in a garage
const FirstNumber = 101

// FormatNumber renders a jobcard number from its numeric suffix
func FormatNumber(n int) string {
	return fmt.Sprintf("%s%d", NumberPrefix, n)
}

// ParseNumber extracts the numeric suffix from a jobcard number
func ParseNumber(number string) (int, error) {
	trimmed := strings.TrimSpace(number)
	if !strings.HasPrefix(trimmed, NumberPrefix) {
		return 0, shared.NewValidationError("jobcard_number", "must start with JOB-")
	}
	n, err := strconv.Atoi(strings.TrimPrefix(trimmed, NumberPrefix))
	if err != nil || n <= 0 {
		return 0, shared.NewValidationError("jobcard_number", "suffix must be a positive integer")
	}
	return n, nil
}

// NextNumber derives the next jobcard number from the current maximum within
// a garage. An empty maximum starts the sequence at JOB-101.
func NextNumber(currentMax string) (string, error) {
	if strings.TrimSpace(currentMax) == "" {
		return FormatNumber(FirstNumber), nil
	}
	n, err := ParseNumber(currentMax)
	if err != nil {
		return "", err
	}
	return FormatNumber(n + 1), nil
}
