// Package cli implements zenroll's command-line subcommands and argument
// handling.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/zarlcorp/zenroll/internal/account"
	"github.com/zarlcorp/zenroll/internal/codes"
	"github.com/zarlcorp/zenroll/internal/profile"
	"github.com/zarlcorp/zenroll/internal/validate"
	"golang.org/x/term"
)

// DataDir returns the default data directory for zenroll.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d + "/zenroll"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zenroll"
	}
	return home + "/.local/share/zenroll"
}

// IsFirstRun checks whether the profile store has been initialized.
func IsFirstRun(dir string) bool {
	_, err := os.Stat(dir + "/salt")
	return err != nil
}

// ReadPassword prompts for a password on w and reads it without echo.
func ReadPassword(prompt string, w io.Writer) (string, error) {
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ReadNewPassword prompts for a new password with confirmation.
func ReadNewPassword(w io.Writer) (string, error) {
	pass, err := ReadPassword("profile password: ", w)
	if err != nil {
		return "", err
	}
	confirm, err := ReadPassword("confirm password: ", w)
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return pass, nil
}

// OpenProfiles prompts for the password and opens the profile store.
func OpenProfiles(dir string) (*profile.Store, error) {
	var pass string
	var err error
	if IsFirstRun(dir) {
		pass, err = ReadNewPassword(os.Stderr)
	} else {
		pass, err = ReadPassword("profile password: ", os.Stderr)
	}
	if err != nil {
		return nil, err
	}

	return profile.Open(dir, []byte(pass))
}

// FormArgs are the session options accepted on the command line.
type FormArgs struct {
	Phone       string
	Code        string
	VerifyError string
	NoProfile   bool
	Prefill     account.Prefill
}

// HasPrefill reports whether any prefill flag was given.
func (a FormArgs) HasPrefill() bool {
	p := a.Prefill
	return p.FirstName != "" || p.LastName != "" || p.Email != "" || !p.DateOfBirth.IsZero()
}

// ParseFormArgs reads form flags. The --code value may be a pasted SMS; the
// code is extracted from it.
func ParseFormArgs(args []string) (FormArgs, error) {
	a := FormArgs{
		Phone:       flagValue(args, "--phone"),
		VerifyError: flagValue(args, "--error"),
		NoProfile:   hasFlag(args, "--no-profile"),
		Prefill: account.Prefill{
			FirstName: flagValue(args, "--first"),
			LastName:  flagValue(args, "--last"),
			Email:     flagValue(args, "--email"),
		},
	}

	if raw := flagValue(args, "--code"); raw != "" {
		code, ok := codes.Normalize(raw)
		if !ok {
			return FormArgs{}, fmt.Errorf("--code: no verification code in %q", raw)
		}
		a.Code = code
	}

	if raw := flagValue(args, "--dob"); raw != "" {
		dob, err := time.Parse(account.DOBLayout, raw)
		if err != nil {
			return FormArgs{}, fmt.Errorf("--dob: want MM/DD/YYYY, got %q", raw)
		}
		a.Prefill.DateOfBirth = dob
	}

	return a, nil
}

// CmdProfile prints the saved profile.
func CmdProfile(args []string) error {
	asJSON := hasFlag(args, "--json")

	dir := DataDir()
	if IsFirstRun(dir) {
		fmt.Println("no saved profile")
		return nil
	}

	s, err := OpenProfiles(dir)
	if err != nil {
		return err
	}
	defer s.Close()

	p, err := s.Load()
	if errors.Is(err, profile.ErrNotFound) {
		fmt.Println("no saved profile")
		return nil
	}
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(os.Stdout, p)
	}
	printProfile(os.Stdout, p)
	return nil
}

// CmdForget deletes the saved profile.
func CmdForget() error {
	dir := DataDir()
	if IsFirstRun(dir) {
		fmt.Println("no saved profile")
		return nil
	}

	s, err := OpenProfiles(dir)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Forget(); err != nil {
		return err
	}
	fmt.Println("profile forgotten")
	return nil
}

// ErrNotReady is returned by CmdCheck when the form could not be submitted.
var ErrNotReady = errors.New("form not ready to submit")

// CmdCheck validates form values without opening the form.
func CmdCheck(args []string, minAge int) error {
	dob := validate.DefaultDOBParser()
	dob.MinAge = minAge

	f := account.New(account.Options{Email: validate.NewEmail(), DOB: dob})
	f.SetFirstName(flagValue(args, "--first"))
	f.SetLastName(flagValue(args, "--last"))
	f.SetEmail(flagValue(args, "--email"))
	f.SetDateOfBirth(flagValue(args, "--dob"))
	f.SetTermsAccepted(hasFlag(args, "--accept-terms"))

	if !Check(os.Stdout, f) {
		return ErrNotReady
	}
	return nil
}

// Check writes a per-field report for f and returns the gate.
func Check(w io.Writer, f *account.Form) bool {
	mark := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "missing"
	}

	fmt.Fprintf(w, "  first name:  %s\n", mark(f.FirstName() != ""))
	fmt.Fprintf(w, "  last name:   %s\n", mark(f.LastName() != ""))
	if f.EmailValid() {
		fmt.Fprintln(w, "  email:       ok")
	} else {
		fmt.Fprintln(w, "  email:       invalid")
	}
	if f.DOBValid() {
		fmt.Fprintln(w, "  dob:         ok")
	} else {
		fmt.Fprintf(w, "  dob:         %s\n", f.DOBError())
	}
	fmt.Fprintf(w, "  terms:       %s\n", mark(f.TermsAccepted()))

	ok := f.SubmitEnabled()
	if ok {
		fmt.Fprintln(w, "ready to submit")
	} else {
		fmt.Fprintln(w, "not ready to submit")
	}
	return ok
}

func printProfile(w io.Writer, p profile.Profile) {
	fmt.Fprintf(w, "  name:    %s %s\n", p.FirstName, p.LastName)
	fmt.Fprintf(w, "  email:   %s\n", p.Email)
	if p.Phone != "" {
		fmt.Fprintf(w, "  phone:   %s\n", p.Phone)
	}
	if !p.DateOfBirth.IsZero() {
		fmt.Fprintf(w, "  dob:     %s\n", p.DateOfBirth.Format(account.DOBLayout))
	}
	fmt.Fprintf(w, "  updated: %s\n", p.UpdatedAt.Format("2006-01-02"))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}

// flagValue returns the value of "--flag value" or "--flag=value". Flag
// names match case-insensitively, like hasFlag.
func flagValue(args []string, flag string) string {
	prefix := flag + "="
	for i, a := range args {
		if len(a) >= len(prefix) && strings.EqualFold(a[:len(prefix)], prefix) {
			return a[len(prefix):]
		}
		if strings.EqualFold(a, flag) && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
