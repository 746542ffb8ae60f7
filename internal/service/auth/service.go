package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/gateway"
	"gurkerl-cli/internal/logging"
	sessionrepo "gurkerl-cli/internal/repository/session"
)

const (
	loginPath = "/services/frontend-service/login"
	// sessionCookie carries the session when the login body has no token.
	sessionCookie = "PHPSESSION"
)

type credentialResolver interface {
	Resolve(ctx context.Context) (domain.Credential, error)
}

type credentialStore interface {
	Store(cred domain.Credential) error
}

// Service handles login/logout and binds API calls to the stored session.
type Service struct {
	gw       gateway.Executor
	sessions sessionrepo.Repository
	resolver credentialResolver
	keychain credentialStore
	now      func() time.Time
	logger   *slog.Logger

	mu sync.Mutex
	// rejected holds the server's rejection of the stored token. Until an
	// explicit Login succeeds, no call logs in again on its own.
	rejected error
}

type Option func(*Service)

// WithKeychain stores credentials after each successful login.
func WithKeychain(store credentialStore) Option {
	return func(s *Service) { s.keychain = store }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a Service. resolver may be nil, in which case a missing session
// is reported as ErrNotAuthenticated instead of triggering a login.
func New(gw gateway.Executor, sessions sessionrepo.Repository, resolver credentialResolver, opts ...Option) *Service {
	s := &Service{
		gw:       gw,
		sessions: sessions,
		resolver: resolver,
		now:      time.Now,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginResponse struct {
	Status int `json:"status"`
	Data   *struct {
		AccessToken string `json:"accessToken"`
	} `json:"data"`
}

// Login authenticates against the shop and persists the resulting session.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &domain.AuthenticationError{Reason: "email and password required"}
	}
	resp, err := s.gw.Execute(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Body:   loginRequest{Email: email, Password: password},
	})
	if err != nil {
		if status, ok := loginFailureStatus(err); ok {
			return nil, &domain.AuthenticationError{Reason: "invalid email or password", Status: status}
		}
		return nil, err
	}

	token, err := tokenFromLogin(resp)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrInterrupted
	}
	sess, err := s.sessions.Save(token, email, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Debug("logged in", "email", email, "expiresAt", sess.ExpiresAt)
	s.setRejected(nil)

	if s.keychain != nil {
		if err := s.keychain.Store(domain.Credential{Email: email, Password: password}); err != nil {
			s.logger.Debug("keychain unavailable, credentials not stored", "error", err)
		}
	}
	return sess, nil
}

// LoginResolved logs in with credentials from the resolver chain.
func (s *Service) LoginResolved(ctx context.Context) (*domain.Session, domain.Credential, error) {
	if s.resolver == nil {
		return nil, domain.Credential{}, domain.ErrNotAuthenticated
	}
	cred, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, domain.Credential{}, err
	}
	sess, err := s.Login(ctx, cred.Email, cred.Password)
	return sess, cred, err
}

// EnsureSession returns the stored session, logging in with resolved
// credentials when there is none. After the server has rejected a token it
// returns that rejection instead.
func (s *Service) EnsureSession(ctx context.Context) (*domain.Session, error) {
	if err := s.rejection(); err != nil {
		return nil, err
	}
	if sess, ok := s.sessions.Load(); ok {
		return sess, nil
	}
	sess, _, err := s.LoginResolved(ctx)
	return sess, err
}

// Logout discards the local session.
func (s *Service) Logout() error {
	return s.sessions.Clear()
}

// Whoami returns the current session without contacting the server.
func (s *Service) Whoami() (*domain.Session, error) {
	sess, ok := s.sessions.Load()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return sess, nil
}

// Execute sends req with the session token attached. A token the server
// rejects invalidates the local session.
func (s *Service) Execute(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
	sess, err := s.EnsureSession(ctx)
	if err != nil {
		return nil, err
	}
	req.AuthToken = sess.Token
	resp, err := s.gw.Execute(ctx, req)
	if errors.Is(err, domain.ErrAuthenticationFailed) {
		s.setRejected(err)
		if clearErr := s.sessions.Clear(); clearErr != nil {
			s.logger.Warn("could not clear rejected session", "error", clearErr)
		}
		return nil, err
	}
	return resp, err
}

func (s *Service) rejection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected
}

func (s *Service) setRejected(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected = err
}

// loginFailureStatus reports whether err is the server refusing the login.
// Any status >= 400 counts, except rate limiting.
func loginFailureStatus(err error) (int, bool) {
	var (
		authErr    *domain.AuthenticationError
		invalidErr *domain.InvalidResponseError
		notFound   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Status, true
	case errors.As(err, &invalidErr) && invalidErr.Status >= http.StatusBadRequest:
		return invalidErr.Status, true
	case errors.As(err, &notFound):
		return http.StatusNotFound, true
	default:
		return 0, false
	}
}

func tokenFromLogin(resp *gateway.Response) (string, error) {
	var body loginResponse
	if err := resp.Decode(&body); err == nil && body.Data != nil && body.Data.AccessToken != "" {
		return body.Data.AccessToken, nil
	}
	for _, c := range resp.Cookies {
		if c.Name == sessionCookie && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", &domain.AuthenticationError{Reason: "no session token received from server", Status: resp.Status}
}
