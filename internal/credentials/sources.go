package credentials

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"

	"gurkerl-cli/internal/domain"
)

const (
	// KeyringService is the service name entries are stored under.
	KeyringService = "gurkerlcli"
	// keyringAccount holds the e-mail of the stored account; the password is
	// stored under the e-mail itself.
	keyringAccount = "default"
)

// Keychain reads and writes credentials in the platform credential store.
type Keychain struct {
	Service string
}

func NewKeychain() *Keychain {
	return &Keychain{Service: KeyringService}
}

func (k *Keychain) Kind() domain.CredentialSource { return domain.SourceKeychain }

func (k *Keychain) Method() string {
	return "OS keychain (stored automatically after 'gurkerl auth login')"
}

func (k *Keychain) Lookup(_ context.Context) Attempt {
	email, err := keyring.Get(k.Service, keyringAccount)
	if err != nil {
		return keyringAttempt(err)
	}
	password, err := keyring.Get(k.Service, email)
	if err != nil {
		return keyringAttempt(err)
	}
	cred := domain.Credential{Email: email, Password: password}
	if !cred.Complete() {
		return absent()
	}
	return found(cred)
}

// Store saves the credential so later logins can resolve it from the keychain.
func (k *Keychain) Store(cred domain.Credential) error {
	if err := keyring.Set(k.Service, cred.Email, cred.Password); err != nil {
		return err
	}
	return keyring.Set(k.Service, keyringAccount, cred.Email)
}

// Forget removes the stored account; missing entries are not an error.
func (k *Keychain) Forget() error {
	email, err := keyring.Get(k.Service, keyringAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := keyring.Delete(k.Service, email); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	if err := keyring.Delete(k.Service, keyringAccount); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

func keyringAttempt(err error) Attempt {
	if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrUnsupportedPlatform) {
		return absent()
	}
	return failed(err)
}

// DotEnvFile reads GURKERL_EMAIL and GURKERL_PASSWORD from a .env file.
type DotEnvFile struct {
	Path string
}

func (d *DotEnvFile) Kind() domain.CredentialSource { return domain.SourceDotEnvFile }

func (d *DotEnvFile) Method() string {
	return "a " + d.Path + " file defining " + EmailVar + " and " + PasswordVar
}

func (d *DotEnvFile) Lookup(_ context.Context) Attempt {
	values, err := godotenv.Read(d.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return absent()
		}
		return failed(err)
	}
	cred := domain.Credential{
		Email:    strings.TrimSpace(values[EmailVar]),
		Password: values[PasswordVar],
	}
	if !cred.Complete() {
		return absent()
	}
	return found(cred)
}

// Environment reads GURKERL_EMAIL and GURKERL_PASSWORD from the process environment.
type Environment struct {
	Getenv func(string) string
}

func NewEnvironment() *Environment {
	return &Environment{Getenv: os.Getenv}
}

func (e *Environment) Kind() domain.CredentialSource { return domain.SourceEnvironment }

func (e *Environment) Method() string {
	return "environment variables " + EmailVar + " and " + PasswordVar
}

func (e *Environment) Lookup(_ context.Context) Attempt {
	cred := domain.Credential{
		Email:    strings.TrimSpace(e.Getenv(EmailVar)),
		Password: e.Getenv(PasswordVar),
	}
	if !cred.Complete() {
		return absent()
	}
	return found(cred)
}

// DefaultSources returns the keychain, .env file and environment sources in priority order.
func DefaultSources(envFile string) []Source {
	return []Source{
		NewKeychain(),
		&DotEnvFile{Path: envFile},
		NewEnvironment(),
	}
}
