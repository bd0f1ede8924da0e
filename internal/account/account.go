// Package account holds the create-account form state and its submit gate.
// Validation is delegated to injected collaborators; nothing here does I/O.
package account

import "time"

// DOBLayout is the date of birth format the form accepts and renders.
const DOBLayout = "01/02/2006"

// Record is the submission handed to the sink.
type Record struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	VerifyCode  string `json:"verifyCode"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Prefill carries values known about a returning user.
// A zero DateOfBirth means no date is known.
type Prefill struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
}

// EmailValidator reports whether text is an acceptable email address.
type EmailValidator interface {
	ValidEmail(text string) bool
}

// DateParser parses a date of birth typed as MM/DD/YYYY.
type DateParser interface {
	ParseDOB(text string) DOBResult
}

// EmailValidatorFunc adapts a function to EmailValidator.
type EmailValidatorFunc func(string) bool

func (f EmailValidatorFunc) ValidEmail(text string) bool { return f(text) }

// DateParserFunc adapts a function to DateParser.
type DateParserFunc func(string) DOBResult

func (f DateParserFunc) ParseDOB(text string) DOBResult { return f(text) }
