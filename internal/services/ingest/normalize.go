package ingest

import (
	"strconv"
	"strings"

	"zaireen_import/internal/models"
)

// FullName joins the MRZ surname and given-names fields into a display name.
// Filler characters become spaces, runs of whitespace collapse to one space
// and the result is trimmed, so the function is idempotent on clean input.
func FullName(surname, names string) string {
	joined := surname + " " + names
	joined = strings.ReplaceAll(joined, "<", " ")
	return strings.Join(strings.Fields(joined), " ")
}

// ConvertMRZDate converts a 6-digit MRZ date (YYMMDD) to YYYY-MM-DD.
// Two-digit years 50-99 map to the 1900s, 00-49 to the 2000s. Anything that
// is not exactly six characters with a numeric year yields an empty string.
// Month and day pass through verbatim: the MRZ check digit is not verified
// here, so a semantically invalid date like month 13 survives.
func ConvertMRZDate(mrzDate string) string {
	if len(mrzDate) != 6 {
		return ""
	}
	year, err := strconv.Atoi(mrzDate[:2])
	if err != nil {
		return ""
	}
	if year >= 50 {
		year += 1900
	} else {
		year += 2000
	}
	return strconv.Itoa(year) + "-" + mrzDate[2:4] + "-" + mrzDate[4:6]
}

// NormalizePassport trims surrounding whitespace from an MRZ passport
// number. Case is preserved; comparisons are done case-insensitively.
func NormalizePassport(number string) string {
	return strings.TrimSpace(number)
}

// IsDuplicate reports whether the kafla already holds a record with this
// passport number. Comparison is case-insensitive and scoped to the kafla:
// the same number under two different kaflas is accepted, not flagged.
func IsDuplicate(records []models.Zaireen, kaflaCode, passport string) bool {
	for _, r := range records {
		if r.KaflaCode == kaflaCode && strings.EqualFold(r.PassportNumber, passport) {
			return true
		}
	}
	return false
}
