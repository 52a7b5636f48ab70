package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	// 入力が不正
	ErrInvalidUsername  = errors.New("invalid username")
	ErrPasswordTooShort = errors.New("password too short")
	ErrWeakPassword     = errors.New("weak password")
	ErrInvalidISBN      = errors.New("invalid isbn")
)

const MinPasswordLen = 8

// ISBN-10 / ISBN-13（ハイフン可）
var isbnRe = regexp.MustCompile(`^(\d{9}[\dX]|\d{13})$`)

// サインアップの入力を検証
func ValidateCredentials(username string, password string) error {
	if !isUsernameLike(strings.TrimSpace(username)) {
		return ErrInvalidUsername
	}

	// パスワード最低文字数
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	// よくある弱いパスワードの拒否
	if isWeakPassword(password) {
		return ErrWeakPassword
	}
	return nil
}

// ISBNの形だけ見る（チェックディジットは見ない）。空は許可。
func ValidateISBN(isbn string) error {
	s := strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	if s == "" {
		return nil
	}
	if !isbnRe.MatchString(s) {
		return ErrInvalidISBN
	}
	return nil
}

// 3〜64文字の英数字と . _ -
func isUsernameLike(s string) bool {
	if len(s) < 3 || len(s) > 64 {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			continue
		}
		return false
	}
	return true
}

var weakPasswords = map[string]struct{}{
	"password":     {},
	"password123":  {},
	"123456789012": {},
	"1234567890":   {},
	"12345678":     {},
	"qwertyuiop":   {},
	"letmein1":     {},
	"admin123":     {},
}

func isWeakPassword(password string) bool {
	_, ok := weakPasswords[strings.ToLower(strings.TrimSpace(password))]
	return ok
}
