// Package validate provides the email and date of birth checks used by the
// create-account form.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/zarlcorp/zenroll/internal/account"
)

const (
	defaultMinAge = 18
	defaultMaxAge = 120
)

// Email checks addresses with the validator package's email rule.
type Email struct {
	v *validator.Validate
}

// NewEmail creates an email validator.
func NewEmail() *Email {
	return &Email{v: validator.New()}
}

// ValidEmail reports whether text is a well-formed address. Surrounding
// whitespace makes it invalid.
func (e *Email) ValidEmail(text string) bool {
	if text == "" || strings.TrimSpace(text) != text {
		return false
	}
	return e.v.Var(text, "required,email") == nil
}

var dobRe = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// DOBParser parses MM/DD/YYYY dates of birth and enforces an age range.
type DOBParser struct {
	MinAge int
	MaxAge int
	Now    func() time.Time
}

// DefaultDOBParser requires an adult of plausible age.
func DefaultDOBParser() DOBParser {
	return DOBParser{MinAge: defaultMinAge, MaxAge: defaultMaxAge, Now: time.Now}
}

// ParseDOB implements account.DateParser.
func (p DOBParser) ParseDOB(text string) account.DOBResult {
	if !dobRe.MatchString(text) {
		return account.Unparseable()
	}

	dob, err := time.Parse(account.DOBLayout, text)
	if err != nil {
		// out-of-range day or month, e.g. 02/30
		return account.Unparseable()
	}

	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if dob.After(today) {
		return account.Rejected("Date of birth cannot be in the future")
	}

	age := Age(dob, today)
	if p.MinAge > 0 && age < p.MinAge {
		return account.Rejected(fmt.Sprintf("You must be at least %d years old", p.MinAge))
	}
	if p.MaxAge > 0 && age > p.MaxAge {
		return account.Rejected("Enter a valid date of birth")
	}

	return account.Parsed(dob)
}

// Age returns completed years between dob and on.
func Age(dob, on time.Time) int {
	age := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		age--
	}
	return age
}
