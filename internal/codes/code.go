// Package codes reads a phone verification code out of whatever the user
// pasted: the bare code, a grouped code like "123 456", or the whole SMS.
package codes

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// words that mark a nearby number as the verification code
var keywords = []string{
	"verification",
	"verify",
	"code",
	"otp",
	"one-time",
	"passcode",
	"pin",
	"confirm",
}

var (
	// 4 to 8 digits, optionally split once by a space or dash ("123-456")
	digitsRe = regexp.MustCompile(`\b(\d{3,4})[ -]?(\d{3,4})\b|\b(\d{4,8})\b`)
	// 6 characters mixing letters and digits ("A1B2C3")
	alnumRe = regexp.MustCompile(`\b[A-Za-z0-9]{6}\b`)
	linkRe  = regexp.MustCompile(`https?://\S+`)
	emailRe = regexp.MustCompile(`\S+@\S+\.\S+`)
	// an area code plus seven digits, with an optional +country prefix;
	// the bare digits in front of "(555)" are never taken as the number
	phoneRe = regexp.MustCompile(`(?:\+\d{1,3}[ -]?)?\(?\b\d{3}\)?[ -]?\d{3}[ -]?\d{4}\b`)
)

// candidate is a possible code and how likely it is to be the one.
type candidate struct {
	value string
	score int
}

// Normalize returns the verification code in input, or false when none can
// be found. Bare codes are returned without separators.
func Normalize(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", false
	}

	if bare := stripSeparators(s); isBareCode(bare) {
		return bare, true
	}

	found := Extract(s)
	if len(found) == 0 {
		return "", false
	}
	return found[0], true
}

// Extract returns every candidate code in text, most likely first.
func Extract(text string) []string {
	cleaned := linkRe.ReplaceAllString(text, " ")
	cleaned = emailRe.ReplaceAllString(cleaned, " ")
	cleaned = phoneRe.ReplaceAllStringFunc(cleaned, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
	lower := strings.ToLower(cleaned)

	seen := make(map[string]bool)
	var cands []candidate
	for _, m := range digitsRe.FindAllStringSubmatchIndex(cleaned, -1) {
		val := stripSeparators(cleaned[m[0]:m[1]])
		if len(val) < 4 || len(val) > 8 || seen[val] {
			continue
		}
		seen[val] = true
		cands = append(cands, candidate{
			value: val,
			score: score(lower, val, m[0], m[1]),
		})
	}

	for _, m := range alnumRe.FindAllStringIndex(cleaned, -1) {
		val := cleaned[m[0]:m[1]]
		if !mixesLettersAndDigits(val) || seen[val] {
			continue
		}
		seen[val] = true
		cands = append(cands, candidate{
			value: val,
			score: score(lower, val, m[0], m[1]) - 20,
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})

	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.value
	}
	return out
}

func score(lower, val string, start, end int) int {
	s := 0
	switch len(val) {
	case 6:
		s += 30
	case 8:
		s += 20
	case 4:
		s += 15
	}

	lo := max(0, start-50)
	hi := min(len(lower), end+50)
	window := lower[lo:hi]
	for _, kw := range keywords {
		if strings.Contains(window, kw) {
			s += 50
			break
		}
	}

	before := strings.TrimRight(lower[max(0, start-6):start], " ")
	if strings.HasSuffix(before, ":") || strings.HasSuffix(before, "is") {
		s += 20
	}

	return s
}

// mixesLettersAndDigits reports whether s holds at least one letter and one
// digit. All-letter tokens are words and all-digit ones are found by digitsRe.
func mixesLettersAndDigits(s string) bool {
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLetter(r):
			letter = true
		}
	}
	return letter && digit
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

// isBareCode reports whether s is only a code: 4-8 digits, or 6 characters
// mixing letters and digits.
func isBareCode(s string) bool {
	if len(s) < 4 || len(s) > 8 {
		return false
	}

	var letters, digits int
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r) && r < unicode.MaxASCII:
			letters++
		default:
			return false
		}
	}

	if letters == 0 {
		return true
	}
	return len(s) == 6 && digits > 0
}
