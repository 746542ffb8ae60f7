package cart_test

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gurkerl-cli/internal/credentials"
	"gurkerl-cli/internal/domain"
	"gurkerl-cli/internal/gateway"
	cartrepo "gurkerl-cli/internal/repository/cart"
	sessionrepo "gurkerl-cli/internal/repository/session"
	authsvc "gurkerl-cli/internal/service/auth"
	cartsvc "gurkerl-cli/internal/service/cart"
)

const threeItemCart = `{"status":200,"messages":[],"data":{"cartId":1,"totalPrice":6,"minimalOrderPrice":39,"items":{
	"1":{"productId":1,"orderFieldId":11,"productName":"a","quantity":1,"price":1},
	"2":{"productId":2,"orderFieldId":12,"productName":"b","quantity":1,"price":2},
	"3":{"productId":3,"orderFieldId":13,"productName":"c","quantity":1,"price":3}
}}}`

// shopGateway accepts only the token "fresh" for mutations and records every call.
type shopGateway struct {
	calls []string
}

func (g *shopGateway) Execute(_ context.Context, req gateway.Request) (*gateway.Response, error) {
	g.calls = append(g.calls, req.Method+" "+req.Path+" tok="+req.AuthToken)
	switch {
	case strings.HasSuffix(req.Path, "/login"):
		return &gateway.Response{Status: http.StatusOK, Body: []byte(`{"status":200,"data":{"accessToken":"fresh"}}`)}, nil
	case req.Method == http.MethodGet:
		return &gateway.Response{Status: http.StatusOK, Body: []byte(threeItemCart)}, nil
	case req.AuthToken != "fresh":
		return nil, &domain.AuthenticationError{Status: http.StatusUnauthorized}
	default:
		return &gateway.Response{Status: http.StatusOK, Body: []byte(`{"status":200}`)}, nil
	}
}

func TestClearStopsUsingSessionAfterRejection(t *testing.T) {
	sessions := sessionrepo.NewFile(filepath.Join(t.TempDir(), "session.json"))
	_, err := sessions.Save("stale", "me@example.com", time.Now())
	require.NoError(t, err)

	env := map[string]string{credentials.EmailVar: "me@example.com", credentials.PasswordVar: "pw"}
	resolver := credentials.NewResolver([]credentials.Source{
		&credentials.Environment{Getenv: func(k string) string { return env[k] }},
	})
	gw := &shopGateway{}
	auth := authsvc.New(gw, sessions, resolver)
	svc := cartsvc.New(cartrepo.NewRemote(auth))

	res, err := svc.Clear(context.Background())
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	require.Empty(t, res.Removed)
	require.Len(t, res.Failed, 3)
	for _, f := range res.Failed {
		require.ErrorIs(t, f.Err, domain.ErrAuthenticationFailed, "product %d", f.Item.ProductID)
	}

	require.Equal(t, []string{
		"GET /services/frontend-service/v2/cart-review/check-cart tok=stale",
		"PUT /services/frontend-service/v2/cart-review/item/11 tok=stale",
	}, gw.calls)
	_, ok := sessions.Load()
	require.False(t, ok)
}
