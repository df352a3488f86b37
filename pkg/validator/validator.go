package validator

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^\+[1-9][0-9]{9,14}$`)
	licenseRegex = regexp.MustCompile(`^[A-Za-z0-9]{5,20}$`)
	ssnRegex     = regexp.MustCompile(`^[0-9]{3}-?[0-9]{2}-?[0-9]{4}$`)
)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhone принимает номер в формате E.164, игнорируя пробелы, скобки и
// дефисы форматирования.
func ValidatePhone(phone string) bool {
	cleanPhone := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)

	return phoneRegex.MatchString(cleanPhone)
}

func ValidateLicenseNumber(license string) bool {
	return licenseRegex.MatchString(license)
}

func ValidateSSN(ssn string) bool {
	return ssnRegex.MatchString(ssn)
}

// ValidatePassword требует не менее 8 символов, хотя бы одну заглавную букву,
// одну цифру и один спецсимвол.
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	return hasUpper && hasDigit && hasSpecial
}

func ValidateNamePart(name string) bool {
	if len(name) < 2 {
		return false
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && r != '-' && r != ' ' && r != '\'' {
			return false
		}
	}

	return true
}

// FormatPhone приводит номер к каноническому виду E.164, убирая символы
// форматирования.
func FormatPhone(phone string) string {
	cleanPhone := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)

	if !strings.HasPrefix(cleanPhone, "+") {
		cleanPhone = "+" + cleanPhone
	}

	return cleanPhone
}

// NormalizeSSN убирает дефисы, оставляя девять цифр.
func NormalizeSSN(ssn string) string {
	return strings.ReplaceAll(ssn, "-", "")
}

func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || r == '&' || r == '"' || r == '\'' || r == '`' || r == ';' {
			return -1
		}
		return r
	}, s)
}
