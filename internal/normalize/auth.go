package normalize

import (
	"github.com/tidwall/gjson"
)

// AuthorizationGrant is the first step of the PKCE flow. The caller must keep
// CodeVerifier and State for the exchange step.
type AuthorizationGrant struct {
	AuthorizationURL string `json:"authorization_url"`
	CodeVerifier     string `json:"code_verifier"`
	State            string `json:"state"`
}

// TokenSet is the result of a code exchange or a refresh.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    *int64 `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type"`

	// Display-only claims read from the access token when it is a JWT.
	Subject   string `json:"subject,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Incomplete reports whether the payload lacked the URL or the verifier the
// caller needs for the next step.
func (g AuthorizationGrant) Incomplete() bool {
	return g.AuthorizationURL == NA || g.CodeVerifier == NA
}

// Incomplete reports whether the payload carried no access token, as in an
// OAuth error body served with status 200.
func (t TokenSet) Incomplete() bool { return t.AccessToken == NA }

// Grant normalizes an authorization-URL payload.
func Grant(payload []byte) AuthorizationGrant {
	root := Root(gjson.ParseBytes(payload), "auth", "authorization")
	return AuthorizationGrant{
		AuthorizationURL: F("authorization_url", "auth_url", "authorizationUrl", "url").String(root),
		CodeVerifier:     F("code_verifier", "codeVerifier").String(root),
		State:            F("state").String(root),
	}
}

// Tokens normalizes a token payload.
func Tokens(payload []byte) TokenSet {
	root := Root(gjson.ParseBytes(payload), "tokens", "token")
	return TokenSet{
		AccessToken:  F("access_token", "accessToken").String(root),
		RefreshToken: F("refresh_token", "refreshToken").String(root),
		ExpiresIn:    F("expires_in", "expiresIn").IntPtr(root),
		TokenType:    F("token_type", "tokenType").String(root),
	}
}
