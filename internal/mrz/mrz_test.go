package mrz

import "testing"

const sampleOCR = `ISLAMIC REPUBLIC OF PAKISTAN
PASSPORT

Surname HUSSAIN
Given Names ALI RAZA

P<PAKHUSSAIN<<ALI<RAZA<<<<<<<<<<<<<<<<<<<<<<
AB12345678PAK9001012M2501017<<<<<<<<<<<<<<04
`

func TestParseTD3(t *testing.T) {
	f, err := Parse(sampleOCR)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Surname != "HUSSAIN" {
		t.Errorf("surname: got %q", f.Surname)
	}
	if f.Names != "ALI<RAZA" {
		t.Errorf("names: got %q", f.Names)
	}
	if f.Number != "AB1234567" {
		t.Errorf("number: got %q", f.Number)
	}
	if f.Nationality != "PAK" {
		t.Errorf("nationality: got %q", f.Nationality)
	}
	if f.DateOfBirth != "900101" {
		t.Errorf("dob: got %q", f.DateOfBirth)
	}
	if f.Sex != "M" {
		t.Errorf("sex: got %q", f.Sex)
	}
	if f.IssuingCountry != "PAK" {
		t.Errorf("issuing country: got %q", f.IssuingCountry)
	}
}

func TestParseToleratesOCRSpaces(t *testing.T) {
	text := "P<PAK KHAN<<MUHAMMAD<<ALI <<<<<<<<<<<<<<<<<<<\n" +
		"CD9876543 2PAK 750505 2F 300101 8<<<<<<<<<<<<<<02\n"
	f, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Number != "CD9876543" {
		t.Errorf("number: got %q", f.Number)
	}
	if f.Surname != "KHAN" {
		t.Errorf("surname: got %q", f.Surname)
	}
	if f.DateOfBirth != "750505" {
		t.Errorf("dob: got %q", f.DateOfBirth)
	}
}

func TestParseNoBand(t *testing.T) {
	for _, text := range []string{
		"",
		"just a receipt\nwith ordinary text\n",
		"P<PAKTOO<SHORT<<<",
	} {
		if _, err := Parse(text); err != ErrNotFound {
			t.Errorf("Parse(%q): expected ErrNotFound, got %v", text, err)
		}
	}
}

func TestParseIgnoresNoiseAroundBand(t *testing.T) {
	text := "some<<noisy<line<with<fillers<but<not<mrz<data<at<all\n" + sampleOCR
	f, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Number != "AB1234567" {
		t.Errorf("number: got %q", f.Number)
	}
}
