// Package credentials resolves the login e-mail and password from an ordered
// chain of sources: the OS keychain, a .env file and the process environment.
package credentials

import (
	"context"
	"log/slog"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/logging"
)

const (
	EmailVar    = "GURKERL_EMAIL"
	PasswordVar = "GURKERL_PASSWORD"
)

// Outcome tags the result of asking one source.
type Outcome int

const (
	Absent Outcome = iota
	Found
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Failed:
		return "failed"
	default:
		return "absent"
	}
}

// Attempt is the result of a single source lookup.
type Attempt struct {
	Outcome    Outcome
	Credential domain.Credential
	Err        error
}

func found(c domain.Credential) Attempt { return Attempt{Outcome: Found, Credential: c} }
func absent() Attempt                   { return Attempt{Outcome: Absent} }
func failed(err error) Attempt          { return Attempt{Outcome: Failed, Err: err} }

// Source is one place credentials may live.
type Source interface {
	Kind() domain.CredentialSource
	// Method describes to the user how to provide credentials through this source.
	Method() string
	Lookup(ctx context.Context) Attempt
}

// Advisory is emitted when credentials come from a source weaker than the keychain.
type Advisory struct {
	Source  domain.CredentialSource
	Message string
}

type Resolver struct {
	sources []Source
	advise  func(Advisory)
	logger  *slog.Logger
}

type Option func(*Resolver)

// WithAdvisor registers a callback receiving security advisories.
func WithAdvisor(fn func(Advisory)) Option {
	return func(r *Resolver) { r.advise = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver builds a resolver that asks sources in the given order.
func NewResolver(sources []Source, opts ...Option) *Resolver {
	r := &Resolver{sources: sources, logger: logging.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the credential of the first source holding a complete pair.
// Values are never merged across sources.
func (r *Resolver) Resolve(ctx context.Context) (domain.Credential, error) {
	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			return domain.Credential{}, domain.ErrInterrupted
		}
		attempt := src.Lookup(ctx)
		switch attempt.Outcome {
		case Found:
			cred := attempt.Credential
			cred.Source = src.Kind()
			r.logger.Debug("credentials resolved", "source", cred.Source.String())
			if !cred.Source.Secure() {
				r.emit(Advisory{
					Source:  cred.Source,
					Message: "using credentials from " + cred.Source.String() + "; the OS keychain is the more secure option",
				})
			}
			return cred, nil
		case Failed:
			r.logger.Debug("credential source failed", "source", src.Kind().String(), "error", attempt.Err)
		default:
			r.logger.Debug("credential source empty", "source", src.Kind().String())
		}
	}
	methods := make([]string, 0, len(r.sources))
	for _, src := range r.sources {
		methods = append(methods, src.Method())
	}
	return domain.Credential{}, &domain.NoCredentialsError{Methods: methods}
}

func (r *Resolver) emit(a Advisory) {
	r.logger.Warn(a.Message, "source", a.Source.String())
	if r.advise != nil {
		r.advise(a)
	}
}
