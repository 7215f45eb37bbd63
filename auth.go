package twitter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/dghubble/oauth1"
	oauth1twitter "github.com/dghubble/oauth1/twitter"
)

// RequestToken is the temporary credential of an OAuth handshake.
type RequestToken struct {
	Token  string
	Secret string
}

// oauthEndpoint returns the handshake endpoints on base. The authorize step
// uses /oauth/authenticate so returning users are redirected immediately.
func oauthEndpoint(base *url.URL) oauth1.Endpoint {
	if strings.TrimSuffix(base.String(), "/") == DefaultBaseURL {
		return oauth1twitter.AuthenticateEndpoint
	}
	root := strings.TrimSuffix(base.String(), "/")
	return oauth1.Endpoint{
		RequestTokenURL: root + "/oauth/request_token",
		AuthorizeURL:    root + "/oauth/authenticate",
		AccessTokenURL:  root + "/oauth/access_token",
	}
}

func (c *Connection) handshakeConsumer() (*oauth1.Config, error) {
	consumer := c.Consumer()
	if consumer == nil {
		return nil, &Error{Kind: KindUnsupportedCredentials, Message: "missing consumer secret"}
	}
	return consumer, nil
}

// RequestToken fetches a request token whose authorization redirects to callbackURL.
func (c *Connection) RequestToken(ctx context.Context, callbackURL string) (RequestToken, error) {
	consumer, err := c.handshakeConsumer()
	if err != nil {
		return RequestToken{}, err
	}
	cfg := *consumer
	cfg.CallbackURL = callbackURL

	var rt RequestToken
	err = runHandshake(ctx, func() error {
		var err error
		rt.Token, rt.Secret, err = cfg.RequestToken()
		return err
	})
	if err != nil {
		c.logger.Warn("oauth request token failed", slog.Any("error", err))
		return RequestToken{}, handshakeError("request token", err)
	}
	return rt, nil
}

// AuthorizationURL returns the page where the user grants access to rt.
func (c *Connection) AuthorizationURL(rt RequestToken) (*url.URL, error) {
	consumer, err := c.handshakeConsumer()
	if err != nil {
		return nil, err
	}
	u, err := consumer.AuthorizationURL(rt.Token)
	if err != nil {
		return nil, fmt.Errorf("authorization url: %w", err)
	}
	return u, nil
}

// AccessToken exchanges an authorized request token and its verifier for the
// user's token pair.
func (c *Connection) AccessToken(ctx context.Context, rt RequestToken, verifier string) (token, secret string, err error) {
	consumer, err := c.handshakeConsumer()
	if err != nil {
		return "", "", err
	}
	err = runHandshake(ctx, func() error {
		var err error
		token, secret, err = consumer.AccessToken(rt.Token, rt.Secret, verifier)
		return err
	})
	if err != nil {
		c.logger.Warn("oauth access token failed", slog.Any("error", err))
		return "", "", handshakeError("access token", err)
	}
	return token, secret, nil
}

// runHandshake runs fn unless ctx ends first.
func runHandshake(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// handshakeError maps a rejected handshake to OAuthUnauthorized.
func handshakeError(step string, err error) error {
	if strings.Contains(err.Error(), "invalid status 401") {
		return &Error{Kind: KindOAuthUnauthorized, StatusCode: 401, Message: step + " rejected", err: err}
	}
	return transportError(step, err)
}
