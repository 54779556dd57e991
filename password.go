package main

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// validateStaffPassword enforces the length rules for the desk password.
// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
func validateStaffPassword(p string) error {
	if utf8.RuneCountInString(p) < 8 {
		return errors.New("password must be at least 8 chars")
	}
	if len(p) > 72 {
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	if err := validateStaffPassword(pw); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost) // cost=10
	return string(b), err
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
