package models

// Zaireen is one registered traveler: a single row in the zaireen CSV store.
// All fields are kept as strings, matching the tabular file they round-trip
// through. DateOfBirth is "YYYY-MM-DD" (or empty when the MRZ date was
// unusable), ScanTime is "2006-01-02 15:04:05" local time.
type Zaireen struct {
	KaflaCode      string `json:"kafla_code"`
	Name           string `json:"name"`
	PassportNumber string `json:"passport_number"`
	Nationality    string `json:"nationality"`
	DateOfBirth    string `json:"date_of_birth"`
	Sex            string `json:"sex"`
	ScanTime       string `json:"scan_time"`
}
