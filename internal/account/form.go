package account

// Options configures a form session.
type Options struct {
	PhoneNumber      string
	VerificationCode string
	Prefill          *Prefill

	// VerifyError is displayed verbatim, e.g. a server-side rejection.
	VerifyError string

	// Sink receives the record on Submit. nil makes Submit a no-op.
	Sink func(Record)

	Email EmailValidator
	DOB   DateParser
}

// Form is one create-account session.
type Form struct {
	firstName     string
	lastName      string
	email         string
	dateOfBirth   string
	termsAccepted bool

	emailValid bool
	dobValid   bool
	dobError   string

	phoneNumber string
	verifyCode  string
	verifyError string
	sink        func(Record)

	emailValidator EmailValidator
	dateParser     DateParser
}

// New starts a session. Prefilled values go through the same validation as
// typed ones. Terms always start unaccepted.
func New(opts Options) *Form {
	f := &Form{
		phoneNumber:    opts.PhoneNumber,
		verifyCode:     opts.VerificationCode,
		verifyError:    opts.VerifyError,
		sink:           opts.Sink,
		emailValidator: opts.Email,
		dateParser:     opts.DOB,
	}

	p := opts.Prefill
	if p == nil {
		return f
	}

	f.firstName = p.FirstName
	f.lastName = p.LastName
	if p.Email != "" {
		f.SetEmail(p.Email)
	}
	if !p.DateOfBirth.IsZero() {
		f.SetDateOfBirth(p.DateOfBirth.Format(DOBLayout))
	}

	return f
}

func (f *Form) SetFirstName(v string) { f.firstName = v }

func (f *Form) SetLastName(v string) { f.lastName = v }

// SetEmail stores the address and revalidates it.
func (f *Form) SetEmail(v string) {
	f.email = v
	f.emailValid = f.emailValidator != nil && f.emailValidator.ValidEmail(v)
}

// SetDateOfBirth stores the text and revalidates it.
func (f *Form) SetDateOfBirth(v string) {
	f.dateOfBirth = v

	var r DOBResult
	if f.dateParser != nil {
		r = f.dateParser.ParseDOB(v)
	}
	f.dobValid, f.dobError = r.validity()
}

func (f *Form) SetTermsAccepted(checked bool) { f.termsAccepted = checked }

// SubmitEnabled reports whether every precondition for submitting holds.
func (f *Form) SubmitEnabled() bool {
	return f.firstName != "" &&
		f.lastName != "" &&
		f.emailValid &&
		f.dobValid &&
		f.termsAccepted
}

// Submit hands the current values to the sink. Without a sink it does
// nothing and reports false. The gate is not consulted here.
func (f *Form) Submit() (Record, bool) {
	if f.sink == nil {
		return Record{}, false
	}

	r := f.Record()
	f.sink(r)
	return r, true
}

// Record snapshots the current values.
func (f *Form) Record() Record {
	return Record{
		FirstName:   f.firstName,
		LastName:    f.lastName,
		Email:       f.email,
		PhoneNumber: f.phoneNumber,
		VerifyCode:  f.verifyCode,
		DateOfBirth: f.dateOfBirth,
	}
}

func (f *Form) FirstName() string { return f.firstName }
func (f *Form) LastName() string { return f.lastName }
func (f *Form) Email() string { return f.email }
func (f *Form) DateOfBirth() string { return f.dateOfBirth }
func (f *Form) TermsAccepted() bool { return f.termsAccepted }
func (f *Form) EmailValid() bool { return f.emailValid }
func (f *Form) DOBValid() bool { return f.dobValid }
func (f *Form) DOBError() string { return f.dobError }
func (f *Form) PhoneNumber() string { return f.phoneNumber }
func (f *Form) VerifyError() string { return f.verifyError }
