package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/zarlcorp/zenroll/internal/account"
)

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir, []byte("testpass"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func testProfile() Profile {
	return Profile{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		Phone:       "+15555550100",
		DateOfBirth: time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLoadEmpty(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	_, err := s.Load()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() err = %v, want ErrNotFound", err)
	}
}

func TestSaveLoad(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	want := testProfile()

	if err := s.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.FirstName != want.FirstName || got.Email != want.Email || got.Phone != want.Phone {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.DateOfBirth.Equal(want.DateOfBirth) {
		t.Errorf("dob = %v, want %v", got.DateOfBirth, want.DateOfBirth)
	}
}

func TestSaveReplaces(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	first := testProfile()
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}

	second := testProfile()
	second.Email = "jane.doe@example.org"
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "jane.doe@example.org" {
		t.Errorf("email = %q, want the newer value", got.Email)
	}
}

func TestReopenKeepsProfile(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir, []byte("testpass"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.Save(testProfile()); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	s2 := openTestStore(t, dir)
	got, err := s2.Load()
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if got.FirstName != "Jane" {
		t.Errorf("first name = %q", got.FirstName)
	}
}

func TestWrongPassword(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir, []byte("right"))
	if err != nil {
		t.Fatal(err)
	}
	s1.Close()

	_, err = Open(dir, []byte("wrong"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("Open() err = %v, want ErrWrongPassword", err)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir() + "/zenroll"

	s, err := Open(dir, []byte("lost"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(testProfile()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	if err := Remove(dir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := Remove(dir); err != nil {
		t.Fatalf("remove twice: %v", err)
	}

	// a new password works once the old store is gone
	s = openTestStore(t, dir)
	if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after remove err = %v, want ErrNotFound", err)
	}
}

func TestForget(t *testing.T) {
	s := openTestStore(t, t.TempDir())

	if err := s.Forget(); err != nil {
		t.Fatalf("forget on empty store: %v", err)
	}

	if err := s.Save(testProfile()); err != nil {
		t.Fatal(err)
	}
	if err := s.Forget(); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after forget err = %v, want ErrNotFound", err)
	}
}

func TestPrefill(t *testing.T) {
	p := testProfile().Prefill()

	if p.FirstName != "Jane" || p.LastName != "Doe" || p.Email != "jane@example.com" {
		t.Errorf("prefill = %+v", p)
	}
	if p.DateOfBirth.Format(account.DOBLayout) != "01/15/1990" {
		t.Errorf("dob = %v", p.DateOfBirth)
	}
}

func TestFromRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := account.Record{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		PhoneNumber: "+15555550100",
		VerifyCode:  "123456",
		DateOfBirth: "01/15/1990",
	}

	p := FromRecord(r, now)
	if p.Phone != "+15555550100" {
		t.Errorf("phone = %q", p.Phone)
	}
	if !p.DateOfBirth.Equal(time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("dob = %v", p.DateOfBirth)
	}
	if !p.UpdatedAt.Equal(now) {
		t.Errorf("updated at = %v", p.UpdatedAt)
	}
}

func TestFromRecordBadDOB(t *testing.T) {
	p := FromRecord(account.Record{FirstName: "Jane", DateOfBirth: "nope"}, time.Now())
	if !p.DateOfBirth.IsZero() {
		t.Errorf("dob = %v, want zero", p.DateOfBirth)
	}
}

func TestMerge(t *testing.T) {
	saved := testProfile().Prefill()

	got := Merge(saved, account.Prefill{Email: "new@example.com"})
	if got.FirstName != "Jane" || got.LastName != "Doe" {
		t.Errorf("saved names lost: %+v", got)
	}
	if got.Email != "new@example.com" {
		t.Errorf("Email = %q, override should win", got.Email)
	}
	if got.DateOfBirth.IsZero() {
		t.Error("saved dob lost")
	}
	if saved.Email != "jane@example.com" {
		t.Error("merge must not modify the saved prefill")
	}
}

func TestMergeNilSaved(t *testing.T) {
	got := Merge(nil, account.Prefill{FirstName: "Jane"})
	if got == nil || got.FirstName != "Jane" {
		t.Errorf("got %+v", got)
	}
}
