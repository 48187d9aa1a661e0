package mal

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTokenURL is the MyAnimeList OAuth2 token endpoint.
const DefaultTokenURL = "https://myanimelist.net/v1/oauth2/token"

// Credentials are the long-lived secrets exchanged for access tokens.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// TokenSource yields a bearer token for upstream calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// TokenProvider exchanges the refresh token on every call. Access tokens are
// never cached, so each AccessToken call is exactly one POST to the token endpoint.
type TokenProvider struct {
	cfg          oauth2.Config
	refreshToken string
	httpClient   *http.Client
	timeout      time.Duration
}

func NewTokenProvider(tokenURL string, creds Credentials, httpClient *http.Client, timeout time.Duration) *TokenProvider {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenProvider{
		cfg: oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		refreshToken: creds.RefreshToken,
		httpClient:   httpClient,
		timeout:      timeout,
	}
}

func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	// A token carrying only the refresh token is never valid, so Token always refreshes.
	tok, err := p.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken}).Token()
	if err != nil {
		return "", wrap(ErrUpstreamAuth, err)
	}
	if tok.AccessToken == "" {
		return "", wrap(ErrUpstreamAuth, errors.New("empty access_token"))
	}
	return tok.AccessToken, nil
}
