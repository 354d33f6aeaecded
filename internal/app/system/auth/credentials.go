package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for any email/password mismatch. It does
// not say which half was wrong.
var ErrBadCredentials = errors.New("invalid email or password")

// AdminCredentials is the single admin account configured for the site.
type AdminCredentials struct {
	email string
	name  string
	hash  []byte
}

// NewAdminCredentials builds the credential from config. A bcrypt hash is
// preferred; a plain password is hashed once here so it is never compared
// in the clear.
func NewAdminCredentials(email, password, passwordHash string) (*AdminCredentials, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("admin email is required")
	}

	var hash []byte
	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		hash = []byte(passwordHash)
	case password != "":
		h, err := HashPassword(password)
		if err != nil {
			return nil, err
		}
		hash = []byte(h)
	default:
		return nil, errors.New("admin password or password hash is required")
	}

	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	return &AdminCredentials{email: email, name: name, hash: hash}, nil
}

// Email returns the configured admin email.
func (c *AdminCredentials) Email() string { return c.email }

// Verify checks a login attempt and returns the session user on success.
// The password hash is always compared, even for a wrong email, so both
// failures take about the same time.
func (c *AdminCredentials) Verify(email, password string) (SessionUser, error) {
	emailOK := strings.EqualFold(strings.TrimSpace(email), c.email)
	pwErr := bcrypt.CompareHashAndPassword(c.hash, []byte(password))
	if !emailOK || pwErr != nil {
		return SessionUser{}, ErrBadCredentials
	}
	return SessionUser{Email: c.email, Name: c.name, Role: RoleAdmin}, nil
}

// HashPassword returns a bcrypt hash suitable for the admin_password_hash
// config key.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
