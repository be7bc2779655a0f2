package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// SignInPath is where a visitor without a token is sent.
const SignInPath = "/sign-in"

// Navigator performs a client-side navigation.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// GetUserData returns the current user's profile from /v1/me.
//
// When there is no token it navigates to the sign-in page and then still
// performs the request, which the backend answers with a 401. Whether the call
// should stop after navigating is an open product question; until that is
// settled both steps happen.
func (c *Client) GetUserData(ctx context.Context, tokens TokenSource, nav Navigator) (json.RawMessage, error) {
	token, ok := tokenOf(tokens)
	if !ok && nav != nil {
		nav.Navigate(SignInPath)
	}

	var env Envelope[json.RawMessage]
	err := c.Fetch(ctx, FetchOptions{
		Method: http.MethodGet,
		URL:    "/v1/me",
		Headers: map[string]string{
			"Authorization": bearer(token, ok),
		},
	}, &env)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetSetting returns the public site settings. No credentials are sent.
func (c *Client) GetSetting(ctx context.Context) (json.RawMessage, error) {
	var env Envelope[json.RawMessage]
	err := c.Fetch(ctx, FetchOptions{
		Method: http.MethodGet,
		URL:    "/v1/settings",
	}, &env)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}
