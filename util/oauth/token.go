package oauth

import (
	"github.com/evcc-io/onstar/util/oauth/internal"
	"golang.org/x/oauth2"
)

// Token is an OAuth2 token which supports decoding the expires_in attribute
type Token = internal.Token

// TokenRefresher refreshes an expired token
type TokenRefresher interface {
	RefreshToken(token *oauth2.Token) (*oauth2.Token, error)
}

type tokenSource struct {
	token     *oauth2.Token
	refresher TokenRefresher
}

// RefreshTokenSource returns a token source that uses the refresher once the token has expired
func RefreshTokenSource(token *oauth2.Token, refresher TokenRefresher) oauth2.TokenSource {
	if token == nil {
		// allocate an (expired) token or mutex synchronization fails
		token = new(oauth2.Token)
	}

	ts := &tokenSource{
		token:     token,
		refresher: refresher,
	}

	return oauth2.ReuseTokenSource(token, ts)
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.refresher.RefreshToken(ts.token)
	if err == nil {
		ts.token = token
	}

	return ts.token, err
}
