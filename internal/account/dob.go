package account

import "time"

// DOBKind tags a DOBResult.
type DOBKind int

const (
	// DOBUnparseable means the text could not be read as a date at all.
	DOBUnparseable DOBKind = iota
	// DOBParsed means the text is a usable date of birth.
	DOBParsed
	// DOBRejected means the text is a date but not an acceptable one.
	DOBRejected
)

// InvalidDOBMessage is shown when the parser cannot read the date.
const InvalidDOBMessage = "Enter a valid date (MM/DD/YYYY)"

// DOBResult is the outcome of parsing a date of birth.
// The zero value is Unparseable.
type DOBResult struct {
	Kind    DOBKind
	Date    time.Time // set when Kind == DOBParsed
	Message string    // set when Kind == DOBRejected
}

// Parsed returns a successful result.
func Parsed(date time.Time) DOBResult {
	return DOBResult{Kind: DOBParsed, Date: date}
}

// Rejected returns a result carrying a displayable reason.
func Rejected(message string) DOBResult {
	return DOBResult{Kind: DOBRejected, Message: message}
}

// Unparseable returns the result for text that is not a date.
func Unparseable() DOBResult {
	return DOBResult{Kind: DOBUnparseable}
}

// validity maps a result to the form's valid flag and error text.
func (r DOBResult) validity() (bool, string) {
	switch r.Kind {
	case DOBParsed:
		return true, ""
	case DOBRejected:
		return false, r.Message
	default:
		return false, InvalidDOBMessage
	}
}
