// Package mrz locates and decodes the machine-readable zone of a passport
// (ICAO 9303 TD3 format: two 44-character lines) from raw OCR output.
//
// Decoding is deliberately permissive: check digits are not verified and
// dates are not calendar-validated, so a syntactically well-formed band with
// garbage content still decodes. Callers that need stronger guarantees must
// validate downstream.
package mrz

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no decodable MRZ band is present in the input.
var ErrNotFound = errors.New("mrz: no machine readable zone found")

const td3LineLen = 44

// Fields holds the identity fields decoded from a TD3 band. Names keeps the
// raw MRZ filler characters between given names ("ALI<<RAZA"); DateOfBirth
// and ExpiryDate are raw 6-digit YYMMDD strings.
type Fields struct {
	DocumentType   string
	IssuingCountry string
	Surname        string
	Names          string
	Number         string
	Nationality    string
	DateOfBirth    string
	Sex            string
	ExpiryDate     string
	PersonalNumber string
}

// Parse scans OCR text for a TD3 band and decodes it. Surrounding noise
// lines (headers, visual-zone text) are ignored. Returns ErrNotFound when no
// adjacent pair of MRZ-shaped lines yields a usable field set.
func Parse(text string) (*Fields, error) {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		s := sanitizeLine(line)
		if len(s) < 30 || !strings.Contains(s, "<") {
			continue
		}
		candidates = append(candidates, padLine(s))
	}

	// the band is the last adjacent pair whose first line is a passport line
	for i := len(candidates) - 2; i >= 0; i-- {
		if candidates[i][0] != 'P' {
			continue
		}
		f := parseTD3(candidates[i], candidates[i+1])
		if f.Number != "" && f.Surname != "" {
			return f, nil
		}
	}
	return nil, ErrNotFound
}

func parseTD3(l1, l2 string) *Fields {
	f := &Fields{
		DocumentType:   trimFiller(l1[0:2]),
		IssuingCountry: trimFiller(l1[2:5]),
		Number:         trimFiller(l2[0:9]),
		Nationality:    trimFiller(l2[10:13]),
		DateOfBirth:    trimFiller(l2[13:19]),
		Sex:            trimFiller(l2[20:21]),
		ExpiryDate:     trimFiller(l2[21:27]),
		PersonalNumber: trimFiller(l2[28:42]),
	}

	name := strings.TrimRight(l1[5:], "<")
	if surname, names, ok := strings.Cut(name, "<<"); ok {
		f.Surname = surname
		f.Names = names
	} else {
		f.Surname = name
	}
	return f
}

// sanitizeLine keeps only the MRZ alphabet. OCR tends to inject spaces and
// stray punctuation inside the band; those are dropped rather than treated
// as field content.
func sanitizeLine(line string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(line) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '<':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func padLine(s string) string {
	if len(s) >= td3LineLen {
		return s[:td3LineLen]
	}
	return s + strings.Repeat("<", td3LineLen-len(s))
}

func trimFiller(s string) string {
	return strings.Trim(s, "<")
}
