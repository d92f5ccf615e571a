package models

import (
	"fmt"
	"strconv"

	"github.com/nyaruka/phonenumbers"
	"google.golang.org/protobuf/proto"
)

// NationalDigits is the length of a local phone number.
const NationalDigits = 10

// Phone is a phone number split into its country calling code and national
// significant number.
type Phone struct {
	CountryCode    int32
	NationalNumber uint64
}

// NewPhone builds a Phone from a country calling code and a string of
// national digits. A leading zero is not part of the national number.
func NewPhone(countryCode int32, digits string) (Phone, error) {
	national, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return Phone{}, fmt.Errorf("parse national number %q: %w", digits, err)
	}
	return Phone{CountryCode: countryCode, NationalNumber: national}, nil
}

// ParsePhone reads a number stored in E.164 form.
func ParsePhone(e164 string) (Phone, error) {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return Phone{}, fmt.Errorf("parse phone %q: %w", e164, err)
	}
	return Phone{
		CountryCode:    num.GetCountryCode(),
		NationalNumber: num.GetNationalNumber(),
	}, nil
}

// IsZero reports whether p carries no number.
func (p Phone) IsZero() bool {
	return p.NationalNumber == 0
}

// E164 formats p as "+<country code><national number>".
func (p Phone) E164() string {
	if p.IsZero() {
		return ""
	}
	return phonenumbers.Format(p.proto(), phonenumbers.E164)
}

// NationalDigits returns the national number zero-padded to ten digits, the
// shape accepted by the phone validator.
func (p Phone) NationalDigits() string {
	return fmt.Sprintf("%0*d", NationalDigits, p.NationalNumber)
}

func (p Phone) String() string {
	return p.E164()
}

// MarshalText encodes p in E.164 form so events and API payloads carry a
// single string.
func (p Phone) MarshalText() ([]byte, error) {
	return []byte(p.E164()), nil
}

func (p *Phone) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = Phone{}
		return nil
	}
	parsed, err := ParsePhone(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Phone) proto() *phonenumbers.PhoneNumber {
	return &phonenumbers.PhoneNumber{
		CountryCode:    proto.Int32(p.CountryCode),
		NationalNumber: proto.Uint64(p.NationalNumber),
	}
}
