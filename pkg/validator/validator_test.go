package validator

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.domain.org"}
	invalid := []string{"", "user", "user@", "@example.com", "user@example"}

	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("email %q должен быть валидным", email)
		}
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("email %q должен отклоняться", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"+12025550123", "+1 (202) 555-0123", "+442071234567"}
	invalid := []string{"", "12345", "+0123456789", "not-a-phone"}

	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Errorf("телефон %q должен быть валидным", phone)
		}
	}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Errorf("телефон %q должен отклоняться", phone)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{"Sup3rSecret!", "Passw0rd#", "Aa1!aaaa"}
	invalid := []string{"short1!", "alllower1!", "NoDigits!", "NoSpecial1"}

	for _, password := range valid {
		if !ValidatePassword(password) {
			t.Errorf("пароль %q должен быть валидным", password)
		}
	}
	for _, password := range invalid {
		if ValidatePassword(password) {
			t.Errorf("пароль %q должен отклоняться", password)
		}
	}
}

func TestValidateLicenseNumber(t *testing.T) {
	if !ValidateLicenseNumber("MD123456") {
		t.Error("номер лицензии MD123456 должен быть валидным")
	}
	if ValidateLicenseNumber("ab") {
		t.Error("слишком короткий номер лицензии должен отклоняться")
	}
	if ValidateLicenseNumber("has space") {
		t.Error("номер лицензии с пробелом должен отклоняться")
	}
}

func TestValidateSSN(t *testing.T) {
	valid := []string{"123456789", "123-45-6789"}
	invalid := []string{"", "12345", "123-456-789", "abcdefghi"}

	for _, ssn := range valid {
		if !ValidateSSN(ssn) {
			t.Errorf("SSN %q должен быть валидным", ssn)
		}
	}
	for _, ssn := range invalid {
		if ValidateSSN(ssn) {
			t.Errorf("SSN %q должен отклоняться", ssn)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	cases := map[string]string{
		"+1 (202) 555-0123": "+12025550123",
		"12025550123":       "+12025550123",
		"+442071234567":     "+442071234567",
	}

	for in, want := range cases {
		if got := FormatPhone(in); got != want {
			t.Errorf("FormatPhone(%q) = %q, ожидалось %q", in, got, want)
		}
	}
}

func TestNormalizeSSN(t *testing.T) {
	if got := NormalizeSSN("123-45-6789"); got != "123456789" {
		t.Errorf("NormalizeSSN = %q", got)
	}
}
