package codes

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"bare six digits", "123456", "123456", true},
		{"bare four digits", "1234", "1234", true},
		{"surrounding space", "  123456 \n", "123456", true},
		{"grouped with space", "123 456", "123456", true},
		{"grouped with dash", "123-456", "123456", true},
		{"alphanumeric", "A1B2C3", "A1B2C3", true},
		{"sms body", "Your verification code is 482913. It expires in 10 minutes.", "482913", true},
		{"sms with colon", "Prescryptive code: 771204", "771204", true},
		{"sms with grouped code", "Your code is 482 913", "482913", true},
		{"sms with link", "Tap https://x.co/123456789 or enter 556677 to verify", "556677", true},
		{"sms with phone", "Call +1 (555) 010-0199 if this wasn't you. Code: 246810", "246810", true},
		{"sms with alphanumeric code", "Your verification code is A1B2C3", "A1B2C3", true},
		{"code before phone number", "482913 (555) 123-4567", "482913", true},
		{"code after phone number", "Questions? (555) 123-4567. Code: 771204", "771204", true},
		{"sms with email", "Reply to help123456@example.com. Your code is 305577", "305577", true},
		{"empty", "", "", false},
		{"word", "hello", "", false},
		{"too short", "12", "", false},
		{"letters only six", "ABCDEF", "", false},
		{"no code in text", "Welcome aboard!", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractPrefersKeywordCode(t *testing.T) {
	text := "Order 2231 shipped.\nYour verification code is 908172"
	got := Extract(text)
	if len(got) < 2 {
		t.Fatalf("expected two candidates, got %v", got)
	}
	if got[0] != "908172" {
		t.Errorf("first = %q, want 908172", got[0])
	}
}

func TestExtractDeduplicates(t *testing.T) {
	got := Extract("code 123456, again: 123456")
	if len(got) != 1 {
		t.Errorf("got %v, want one candidate", got)
	}
}

func TestExtractEmpty(t *testing.T) {
	if got := Extract(""); len(got) != 0 {
		t.Errorf("Extract(\"\") = %v, want empty", got)
	}
}

func TestExtractAlphanumeric(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"mixed code", "use K7P2QX to sign in", []string{"K7P2QX"}},
		{"six letter word skipped", "Please verify your phone", nil},
		{"numeric ranks first", "ref AB12CD, your code is 908172", []string{"908172", "AB12CD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Extract(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractDropsPhoneNumbers(t *testing.T) {
	for _, text := range []string{
		"call (555) 123-4567",
		"call +1 555-123-4567",
		"call 5551234567",
	} {
		if got := Extract(text); len(got) != 0 {
			t.Errorf("Extract(%q) = %v, want none", text, got)
		}
	}
}
