package profile

import (
	"fmt"
	"time"
)

type monthDay struct{ month, day int }

type zodiacSign struct {
	sign, horoscope string
	start, end      monthDay
}

// Scanned in order; Capricorn wraps the year end.
var zodiacTable = []zodiacSign{
	{"Aries", "Ram", monthDay{3, 21}, monthDay{4, 19}},
	{"Taurus", "Bull", monthDay{4, 20}, monthDay{5, 20}},
	{"Gemini", "Twins", monthDay{5, 21}, monthDay{6, 21}},
	{"Cancer", "Crab", monthDay{6, 22}, monthDay{7, 22}},
	{"Leo", "Lion", monthDay{7, 23}, monthDay{8, 22}},
	{"Virgo", "Virgin", monthDay{8, 23}, monthDay{9, 22}},
	{"Libra", "Balance", monthDay{9, 23}, monthDay{10, 23}},
	{"Scorpio", "Scorpion", monthDay{10, 24}, monthDay{11, 21}},
	{"Sagittarius", "Archer", monthDay{11, 22}, monthDay{12, 21}},
	{"Capricorn", "Goat", monthDay{12, 22}, monthDay{1, 19}},
	{"Aquarius", "Water Bearer", monthDay{1, 20}, monthDay{2, 18}},
	{"Pisces", "Fish", monthDay{2, 19}, monthDay{3, 20}},
}

var birthdayLayouts = []string{"2006-01-02", time.RFC3339}

// ParseBirthday accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseBirthday(s string) (time.Time, error) {
	for _, layout := range birthdayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("birthday %q: want YYYY-MM-DD", s)
}

// DeriveZodiac returns the western zodiac sign and its symbol for birthday.
func DeriveZodiac(birthday string) (sign, horoscope string, err error) {
	t, err := ParseBirthday(birthday)
	if err != nil {
		return "", "", err
	}
	sign, horoscope = zodiacFor(int(t.Month()), t.Day())
	return sign, horoscope, nil
}

func zodiacFor(month, day int) (string, string) {
	for _, z := range zodiacTable {
		if (month == z.start.month && day >= z.start.day) || (month == z.end.month && day <= z.end.day) {
			return z.sign, z.horoscope
		}
	}
	return "", ""
}
