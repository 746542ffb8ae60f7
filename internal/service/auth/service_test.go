package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/gateway"
)

type stubGateway struct {
	responses []*gateway.Response
	errs      []error
	requests  []gateway.Request
}

func (s *stubGateway) Execute(_ context.Context, req gateway.Request) (*gateway.Response, error) {
	idx := len(s.requests)
	s.requests = append(s.requests, req)
	var resp *gateway.Response
	var err error
	if idx < len(s.responses) {
		resp = s.responses[idx]
	}
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	return resp, err
}

type memSessions struct {
	session *domain.Session
	saves   int
	clears  int
}

func (m *memSessions) Save(token, email string, issuedAt time.Time) (*domain.Session, error) {
	s := domain.NewSession(token, email, issuedAt)
	m.session = &s
	m.saves++
	return &s, nil
}

func (m *memSessions) Load() (*domain.Session, bool) {
	if m.session == nil {
		return nil, false
	}
	return m.session, true
}

func (m *memSessions) Clear() error {
	m.session = nil
	m.clears++
	return nil
}

type stubResolver struct {
	cred  domain.Credential
	err   error
	calls int
}

func (s *stubResolver) Resolve(context.Context) (domain.Credential, error) {
	s.calls++
	return s.cred, s.err
}

type stubKeychain struct {
	stored []domain.Credential
	err    error
}

func (s *stubKeychain) Store(cred domain.Credential) error {
	s.stored = append(s.stored, cred)
	return s.err
}

func tokenResponse(token string) *gateway.Response {
	return &gateway.Response{Status: 200, Body: []byte(`{"status":200,"data":{"accessToken":"` + token + `"}}`)}
}

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func TestLoginSavesSessionAndStoresCredentials(t *testing.T) {
	gw := &stubGateway{responses: []*gateway.Response{tokenResponse("tok-1")}}
	sessions := &memSessions{}
	kc := &stubKeychain{}
	svc := New(gw, sessions, nil, WithKeychain(kc), WithClock(func() time.Time { return fixedNow }))

	sess, err := svc.Login(context.Background(), " me@example.com ", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-1", sess.Token)
	require.Equal(t, fixedNow.Add(domain.SessionTTL), sess.ExpiresAt)
	require.Equal(t, 1, sessions.saves)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/services/frontend-service/login", req.Path)
	require.Empty(t, req.AuthToken)
	require.Equal(t, loginRequest{Email: "me@example.com", Password: "secret"}, req.Body)

	require.Equal(t, []domain.Credential{{Email: "me@example.com", Password: "secret"}}, kc.stored)
}

func TestLoginFallsBackToSessionCookie(t *testing.T) {
	gw := &stubGateway{responses: []*gateway.Response{{
		Status:  200,
		Body:    []byte(`{}`),
		Cookies: []*http.Cookie{{Name: "other", Value: "x"}, {Name: "PHPSESSION", Value: "cookie-tok"}},
	}}}
	svc := New(gw, &memSessions{}, nil)

	sess, err := svc.Login(context.Background(), "me@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "cookie-tok", sess.Token)
}

func TestLoginWithoutTokenFails(t *testing.T) {
	gw := &stubGateway{responses: []*gateway.Response{{Status: 200, Body: []byte(`{"status":200}`)}}}
	sessions := &memSessions{}
	svc := New(gw, sessions, nil)

	_, err := svc.Login(context.Background(), "me@example.com", "secret")
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	require.Zero(t, sessions.saves)
}

func TestLoginRejected(t *testing.T) {
	gw := &stubGateway{errs: []error{&domain.AuthenticationError{Status: 401}}}
	sessions := &memSessions{}
	svc := New(gw, sessions, nil)

	_, err := svc.Login(context.Background(), "me@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	require.Contains(t, err.Error(), "invalid email or password")
	require.Zero(t, sessions.saves)
}

func TestLoginInterruptedPersistsNothing(t *testing.T) {
	gw := &stubGateway{errs: []error{domain.ErrInterrupted}}
	sessions := &memSessions{}
	kc := &stubKeychain{}
	svc := New(gw, sessions, nil, WithKeychain(kc))

	_, err := svc.Login(context.Background(), "me@example.com", "secret")
	require.ErrorIs(t, err, domain.ErrInterrupted)
	require.Zero(t, sessions.saves)
	require.Empty(t, kc.stored)
}

func TestLoginKeychainFailureIsIgnored(t *testing.T) {
	gw := &stubGateway{responses: []*gateway.Response{tokenResponse("tok")}}
	svc := New(gw, &memSessions{}, nil, WithKeychain(&stubKeychain{err: errors.New("no backend")}))

	_, err := svc.Login(context.Background(), "me@example.com", "secret")
	require.NoError(t, err)
}

func TestEnsureSessionUsesStoredSession(t *testing.T) {
	sessions := &memSessions{}
	_, _ = sessions.Save("stored", "me@example.com", fixedNow)
	resolver := &stubResolver{}
	gw := &stubGateway{}
	svc := New(gw, sessions, resolver)

	sess, err := svc.EnsureSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, "stored", sess.Token)
	require.Zero(t, resolver.calls)
	require.Empty(t, gw.requests)
}

func TestEnsureSessionLogsInWithResolvedCredentials(t *testing.T) {
	resolver := &stubResolver{cred: domain.Credential{Email: "env@example.com", Password: "pw", Source: domain.SourceEnvironment}}
	gw := &stubGateway{responses: []*gateway.Response{tokenResponse("fresh")}}
	sessions := &memSessions{}
	svc := New(gw, sessions, resolver)

	sess, err := svc.EnsureSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh", sess.Token)
	require.Equal(t, "env@example.com", sess.Email)
	require.Equal(t, 1, resolver.calls)
}

func TestEnsureSessionPropagatesNoCredentials(t *testing.T) {
	resolver := &stubResolver{err: &domain.NoCredentialsError{Methods: []string{"x"}}}
	svc := New(&stubGateway{}, &memSessions{}, resolver)

	_, err := svc.EnsureSession(context.Background())
	require.ErrorIs(t, err, domain.ErrNoCredentialsFound)
}

func TestEnsureSessionWithoutResolver(t *testing.T) {
	svc := New(&stubGateway{}, &memSessions{}, nil)
	_, err := svc.EnsureSession(context.Background())
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestExecuteAttachesToken(t *testing.T) {
	sessions := &memSessions{}
	_, _ = sessions.Save("stored", "", fixedNow)
	gw := &stubGateway{responses: []*gateway.Response{{Status: 200}}}
	svc := New(gw, sessions, nil)

	_, err := svc.Execute(context.Background(), gateway.Request{Method: http.MethodGet, Path: "/cart"})
	require.NoError(t, err)
	require.Equal(t, "stored", gw.requests[0].AuthToken)
}

func TestExecuteRejectedTokenClearsSession(t *testing.T) {
	sessions := &memSessions{}
	_, _ = sessions.Save("stale", "", fixedNow)
	gw := &stubGateway{errs: []error{&domain.AuthenticationError{Status: 401}}}
	resolver := &stubResolver{}
	svc := New(gw, sessions, resolver)

	_, err := svc.Execute(context.Background(), gateway.Request{Method: http.MethodGet, Path: "/cart"})
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	require.Equal(t, 1, sessions.clears)
	require.Nil(t, sessions.session)
	require.Len(t, gw.requests, 1, "no automatic re-login")
	require.Zero(t, resolver.calls)
}

func TestExecuteOtherErrorsKeepSession(t *testing.T) {
	sessions := &memSessions{}
	_, _ = sessions.Save("stored", "", fixedNow)
	gw := &stubGateway{errs: []error{&domain.NetworkError{Kind: domain.NetworkTimeout}}}
	svc := New(gw, sessions, nil)

	_, err := svc.Execute(context.Background(), gateway.Request{Method: http.MethodGet, Path: "/cart"})
	require.ErrorIs(t, err, domain.ErrNetwork)
	require.Zero(t, sessions.clears)
}

func TestLogoutAndWhoami(t *testing.T) {
	sessions := &memSessions{}
	svc := New(&stubGateway{}, sessions, nil)

	_, err := svc.Whoami()
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, _ = sessions.Save("tok", "me@example.com", fixedNow)
	sess, err := svc.Whoami()
	require.NoError(t, err)
	require.Equal(t, "me@example.com", sess.Email)

	require.NoError(t, svc.Logout())
	_, err = svc.Whoami()
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestExecuteAfterRejectionDoesNotLogInAgain(t *testing.T) {
	sessions := &memSessions{}
	_, _ = sessions.Save("stale", "", fixedNow)
	gw := &stubGateway{errs: []error{&domain.AuthenticationError{Status: 401}}}
	resolver := &stubResolver{cred: domain.Credential{Email: "env@example.com", Password: "pw"}}
	svc := New(gw, sessions, resolver)

	_, err := svc.Execute(context.Background(), gateway.Request{Method: http.MethodPut, Path: "/item/1"})
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)

	for range 2 {
		_, err = svc.Execute(context.Background(), gateway.Request{Method: http.MethodPut, Path: "/item/2"})
		require.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	}
	_, err = svc.EnsureSession(context.Background())
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)

	require.Len(t, gw.requests, 1)
	require.Zero(t, resolver.calls)
	require.Equal(t, 1, sessions.saves)
}

func TestExplicitLoginLiftsRejection(t *testing.T) {
	sessions := &memSessions{}
	_, _ = sessions.Save("stale", "", fixedNow)
	gw := &stubGateway{
		errs:      []error{&domain.AuthenticationError{Status: 401}},
		responses: []*gateway.Response{nil, tokenResponse("fresh"), {Status: 200}},
	}
	svc := New(gw, sessions, nil)

	_, err := svc.Execute(context.Background(), gateway.Request{Method: http.MethodGet, Path: "/cart"})
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)

	_, err = svc.Login(context.Background(), "me@example.com", "secret")
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), gateway.Request{Method: http.MethodGet, Path: "/cart"})
	require.NoError(t, err)
	require.Equal(t, "fresh", gw.requests[2].AuthToken)
}

func TestLoginServerErrorsCountAsAuthenticationFailure(t *testing.T) {
	for _, loginErr := range []error{
		&domain.InvalidResponseError{Status: 500},
		&domain.InvalidResponseError{Status: 400},
		&domain.NotFoundError{Path: loginPath},
	} {
		svc := New(&stubGateway{errs: []error{loginErr}}, &memSessions{}, nil)
		_, err := svc.Login(context.Background(), "me@example.com", "secret")
		require.ErrorIs(t, err, domain.ErrAuthenticationFailed, "%v", loginErr)
	}

	svc := New(&stubGateway{errs: []error{&domain.NetworkError{Kind: domain.NetworkRateLimited}}}, &memSessions{}, nil)
	_, err := svc.Login(context.Background(), "me@example.com", "secret")
	require.True(t, domain.IsRateLimited(err))
	require.NotErrorIs(t, err, domain.ErrAuthenticationFailed)
}
