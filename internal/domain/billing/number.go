package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// FinancialYearShort returns the "YY-YY" label of the Indian financial year
// (April to March) containing the given date.
func FinancialYearShort(date time.Time) string {
	year := date.Year()
	if date.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%02d-%02d", year%100, (year+1)%100)
}

// FormatDocumentNumber renders "<garage_code>/<N>/<YY-YY>"
func FormatDocumentNumber(garageCode int, n int, fyShort string) string {
	return fmt.Sprintf("%d/%d/%s", garageCode, n, fyShort)
}

// ParseSequence extracts the per-year sequence N from a document number.
// The sequence is the second-to-last slash-separated segment; garage codes
// never contain slashes but the format tolerates extra leading segments.
func ParseSequence(number string) (int, error) {
	parts := strings.Split(strings.TrimSpace(number), "/")
	if len(parts) < 3 {
		return 0, shared.NewValidationError("number", "must have the form <garage>/<N>/<YY-YY>")
	}
	n, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || n <= 0 {
		return 0, shared.NewValidationError("number", "sequence must be a positive integer")
	}
	return n, nil
}

// FinancialYearOf extracts the "YY-YY" label from a document number
func FinancialYearOf(number string) (string, error) {
	parts := strings.Split(strings.TrimSpace(number), "/")
	if len(parts) < 3 {
		return "", shared.NewValidationError("number", "must have the form <garage>/<N>/<YY-YY>")
	}
	return parts[len(parts)-1], nil
}

// NextDocumentNumber derives the next number in a garage's sequence for the
// financial year of the given date. currentMax is the highest-sequence
// number already issued in that year, or empty for the first document. The
// sequence never resets mid-year and deleted numbers are never reused.
func NextDocumentNumber(garageCode int, currentMax string, date time.Time) (string, error) {
	fy := FinancialYearShort(date)
	if strings.TrimSpace(currentMax) == "" {
		return FormatDocumentNumber(garageCode, 1, fy), nil
	}
	n, err := ParseSequence(currentMax)
	if err != nil {
		return "", err
	}
	return FormatDocumentNumber(garageCode, n+1, fy), nil
}
