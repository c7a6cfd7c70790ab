package onstar

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/evcc-io/onstar/util"
	"github.com/evcc-io/onstar/util/oauth"
	"github.com/evcc-io/onstar/util/request"
	"golang.org/x/oauth2"
)

// ClientID is the client id of the mobile app
const ClientID = "myopel-app"

// Identity is the OnStar token source
type Identity struct {
	*request.Helper
	oauth2.TokenSource
	uri, user, password string
}

// NewIdentity creates OnStar identity
func NewIdentity(log *util.Logger, uri, user, password string) *Identity {
	return &Identity{
		Helper:   request.NewHelper(log),
		uri:      strings.TrimSuffix(uri, "/"),
		user:     user,
		password: password,
	}
}

// Login authenticates with username/password and prepares the token source
func (v *Identity) Login() error {
	token, err := v.login()
	if err == nil {
		v.TokenSource = oauth.RefreshTokenSource(token, v)
	}

	return err
}

func (v *Identity) login() (*oauth2.Token, error) {
	data := url.Values{
		"grant_type": {"password"},
		"client_id":  {ClientID},
		"username":   {v.user},
		"password":   {v.password},
	}

	uri := fmt.Sprintf("%s/oauth/token", v.uri)
	req, err := request.New(http.MethodPost, uri, strings.NewReader(data.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "application/json",
	})

	var tok oauth.Token
	if err == nil {
		err = v.DoJSON(req, &tok)
	}

	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return &tok.Token, nil
}

// RefreshToken implements oauth.TokenRefresher.
// The password grant does not issue refresh tokens, so the token is renewed by logging in again.
func (v *Identity) RefreshToken(_ *oauth2.Token) (*oauth2.Token, error) {
	return v.login()
}
