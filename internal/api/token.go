package api

// TokenSource yields the bearer token for a single request. It is called
// once per request and never cached, so a token refreshed mid-session is
// picked up by the next call.
type TokenSource func() (token string, ok bool)

// StaticToken returns a TokenSource that always yields token. An empty token
// is reported as absent.
func StaticToken(token string) TokenSource {
	return func() (string, bool) {
		return token, token != ""
	}
}

// BearerHeader renders the Authorization header value for the current token.
// A missing token is sent as the literal "Bearer null"; the backend rejects it
// with a 401, which is how callers learn they are signed out.
func BearerHeader(tokens TokenSource) string {
	return bearer(tokenOf(tokens))
}

func bearer(token string, ok bool) string {
	if !ok {
		return "Bearer null"
	}
	return "Bearer " + token
}

func tokenOf(tokens TokenSource) (string, bool) {
	if tokens == nil {
		return "", false
	}
	return tokens()
}
