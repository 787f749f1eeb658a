package api

import (
	"context"
	"net/http"
)

func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, send("auth.login", http.MethodPost, "/login", creds), &out)
	return out, err
}

// Signup returns a nil User when the account must wait for approval.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (SignupResult, error) {
	var out SignupResult
	err := c.do(ctx, send("auth.signup", http.MethodPost, "/signup", req), &out)
	return out, err
}
