// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bacnet

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Wildcard marks an unspecified Date or Time field
const Wildcard = 0xFF

// Date is a BACnet Date. Year is the offset from 1900. Weekday runs from
// 1 (Monday) to 7 (Sunday). Any field may be Wildcard.
type Date struct {
	Year    uint8
	Month   uint8
	Day     uint8
	Weekday uint8
}

// NewDate converts the calendar date of t. Years outside 1900..2154 have
// no Date encoding and return ErrValueOutOfRange.
func NewDate(t time.Time) (Date, error) {
	year := t.Year()
	if year < 1900 || year > 1900+254 {
		return Date{}, fmt.Errorf("%w: year %d outside 1900..2154", ErrValueOutOfRange, year)
	}
	return Date{
		Year:    uint8(year - 1900),
		Month:   uint8(t.Month()),
		Day:     uint8(t.Day()),
		Weekday: isoWeekday(t),
	}, nil
}

// isoWeekday maps Sunday to 7
func isoWeekday(t time.Time) uint8 {
	wd := uint8(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return wd
}

// FullYear returns the calendar year, or -1 when the year is a wildcard
func (d Date) FullYear() int {
	if d.Year == Wildcard {
		return -1
	}
	return 1900 + int(d.Year)
}

// IsWildcard reports whether any field is unspecified
func (d Date) IsWildcard() bool {
	return d.Year == Wildcard || d.Month == Wildcard || d.Day == Wildcard || d.Weekday == Wildcard
}

func (d Date) String() string {
	year := "*"
	if d.Year != Wildcard {
		year = strconv.Itoa(d.FullYear())
	}
	return fmt.Sprintf("%s-%s-%s/%s", year, dateField(d.Month), dateField(d.Day), dateField(d.Weekday))
}

func dateField(v uint8) string {
	if v == Wildcard {
		return "*"
	}
	return fmt.Sprintf("%02d", v)
}

// ParseDate parses "YYYY-MM-DD" where any field may be "*". The weekday
// is derived when the date is fully specified.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}

	year, err := parseDateField(parts[0], 1900, 1900+254)
	if err != nil {
		return Date{}, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	month, err := parseDateField(parts[1], 1, 14)
	if err != nil {
		return Date{}, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	day, err := parseDateField(parts[2], 1, 34)
	if err != nil {
		return Date{}, fmt.Errorf("invalid day in %q: %w", s, err)
	}

	d := Date{Year: Wildcard, Month: uint8(month), Day: uint8(day), Weekday: Wildcard}
	if year != Wildcard {
		d.Year = uint8(year - 1900)
	}
	// 13, 14, 32 and above are the odd/even/last specials
	if year != Wildcard && month <= 12 && day <= 31 {
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Day() == day {
			d.Weekday = isoWeekday(t)
		}
	}
	return d, nil
}

func parseDateField(s string, lo, hi int) (int, error) {
	if s == "*" {
		return Wildcard, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%d not in [%d, %d]", v, lo, hi)
	}
	return v, nil
}

// Time is a BACnet Time. Any field may be Wildcard.
type Time struct {
	Hour       uint8
	Minute     uint8
	Second     uint8
	Hundredths uint8
}

// NewTime converts the time of day of t
func NewTime(t time.Time) Time {
	return Time{
		Hour:       uint8(t.Hour()),
		Minute:     uint8(t.Minute()),
		Second:     uint8(t.Second()),
		Hundredths: uint8(t.Nanosecond() / 10_000_000),
	}
}

// IsWildcard reports whether any field is unspecified
func (t Time) IsWildcard() bool {
	return t.Hour == Wildcard || t.Minute == Wildcard || t.Second == Wildcard || t.Hundredths == Wildcard
}

func (t Time) String() string {
	return fmt.Sprintf("%s:%s:%s.%s", dateField(t.Hour), dateField(t.Minute), dateField(t.Second), dateField(t.Hundredths))
}

// ParseTime parses "HH:MM:SS" or "HH:MM:SS.hh" where any field may be "*"
func ParseTime(s string) (Time, error) {
	clock, frac, hasFrac := strings.Cut(s, ".")
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return Time{}, fmt.Errorf("invalid time %q: want HH:MM:SS[.hh]", s)
	}

	limits := [...]int{23, 59, 59}
	var fields [4]uint8
	for i, p := range parts {
		v, err := parseDateField(p, 0, limits[i])
		if err != nil {
			return Time{}, fmt.Errorf("invalid time %q: %w", s, err)
		}
		fields[i] = uint8(v)
	}
	if hasFrac {
		v, err := parseDateField(frac, 0, 99)
		if err != nil {
			return Time{}, fmt.Errorf("invalid time %q: %w", s, err)
		}
		fields[3] = uint8(v)
	}
	return Time{Hour: fields[0], Minute: fields[1], Second: fields[2], Hundredths: fields[3]}, nil
}

func encodeFourOctets(buf []byte, a, b, c, d uint8) int {
	if buf == nil {
		return 4
	}
	if len(buf) < 4 {
		return 0
	}
	buf[0], buf[1], buf[2], buf[3] = a, b, c, d
	return 4
}

// Date

// EncodeDate encodes a Date as 4 octets
func EncodeDate(buf []byte, value Date) int {
	return encodeFourOctets(buf, value.Year, value.Month, value.Day, value.Weekday)
}

// EncodeApplicationDate encodes an application-tagged Date
func EncodeApplicationDate(buf []byte, value Date) int {
	return encodeTagged(buf, uint8(TagDate), false, 4, func(b []byte) int { return EncodeDate(b, value) })
}

// EncodeContextDate encodes a context-tagged Date
func EncodeContextDate(buf []byte, tagNumber uint8, value Date) int {
	return encodeTagged(buf, tagNumber, true, 4, func(b []byte) int { return EncodeDate(b, value) })
}

// DecodeDateValue decodes Date content, which must be exactly 4 octets
func DecodeDateValue(buf []byte, lenValue uint32) (Date, int, error) {
	if err := checkFixedContent(buf, lenValue, 4, "date"); err != nil {
		return Date{}, 0, err
	}
	return Date{Year: buf[0], Month: buf[1], Day: buf[2], Weekday: buf[3]}, 4, nil
}

// DecodeApplicationDate decodes an application-tagged Date
func DecodeApplicationDate(buf []byte) (Date, int, error) {
	return decodeApplication(buf, TagDate, DecodeDateValue)
}

// DecodeContextDate decodes a context-tagged Date
func DecodeContextDate(buf []byte, tagNumber uint8) (Date, int, error) {
	return decodeContext(buf, tagNumber, DecodeDateValue)
}

// Time

// EncodeTime encodes a Time as 4 octets
func EncodeTime(buf []byte, value Time) int {
	return encodeFourOctets(buf, value.Hour, value.Minute, value.Second, value.Hundredths)
}

// EncodeApplicationTime encodes an application-tagged Time
func EncodeApplicationTime(buf []byte, value Time) int {
	return encodeTagged(buf, uint8(TagTime), false, 4, func(b []byte) int { return EncodeTime(b, value) })
}

// EncodeContextTime encodes a context-tagged Time
func EncodeContextTime(buf []byte, tagNumber uint8, value Time) int {
	return encodeTagged(buf, tagNumber, true, 4, func(b []byte) int { return EncodeTime(b, value) })
}

// DecodeTimeValue decodes Time content, which must be exactly 4 octets
func DecodeTimeValue(buf []byte, lenValue uint32) (Time, int, error) {
	if err := checkFixedContent(buf, lenValue, 4, "time"); err != nil {
		return Time{}, 0, err
	}
	return Time{Hour: buf[0], Minute: buf[1], Second: buf[2], Hundredths: buf[3]}, 4, nil
}

// DecodeApplicationTime decodes an application-tagged Time
func DecodeApplicationTime(buf []byte) (Time, int, error) {
	return decodeApplication(buf, TagTime, DecodeTimeValue)
}

// DecodeContextTime decodes a context-tagged Time
func DecodeContextTime(buf []byte, tagNumber uint8) (Time, int, error) {
	return decodeContext(buf, tagNumber, DecodeTimeValue)
}
