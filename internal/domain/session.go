package domain

import "time"

// SessionTTL is the fixed lifetime of a login session.
const SessionTTL = 7 * 24 * time.Hour

type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewSession builds a session issued at issuedAt that expires after SessionTTL.
func NewSession(token, email string, issuedAt time.Time) Session {
	return Session{
		Token:     token,
		Email:     email,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(SessionTTL),
	}
}

// ValidAt reports whether the session can still be used at now.
func (s Session) ValidAt(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

// CredentialSource names where a credential was resolved from.
type CredentialSource int

const (
	SourceKeychain CredentialSource = iota + 1
	SourceDotEnvFile
	SourceEnvironment
)

func (s CredentialSource) String() string {
	switch s {
	case SourceKeychain:
		return "keychain"
	case SourceDotEnvFile:
		return ".env file"
	case SourceEnvironment:
		return "environment variables"
	default:
		return "unknown"
	}
}

// Secure reports whether the source is the platform credential store.
func (s CredentialSource) Secure() bool {
	return s == SourceKeychain
}

type Credential struct {
	Email    string           `json:"email"`
	Password string           `json:"-"`
	Source   CredentialSource `json:"source"`
}

// Complete reports whether both halves of the pair are present.
func (c Credential) Complete() bool {
	return c.Email != "" && c.Password != ""
}
