package twitter

import (
	"strings"
)

// CredentialsKind tags the shape of a credential set.
type CredentialsKind int

const (
	CredentialsUnsupported CredentialsKind = iota
	// CredentialsIdentified carries an application consumer key and optionally a user token.
	CredentialsIdentified
)

// Credentials identify the application and, once signed in, the user.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// Kind reports which connection variant the credentials support.
func (c Credentials) Kind() CredentialsKind {
	if c.ConsumerKey == "" {
		return CredentialsUnsupported
	}
	return CredentialsIdentified
}

// HasConsumer reports whether both consumer key and secret are set.
func (c Credentials) HasConsumer() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// HasToken reports whether both user token and secret are set.
func (c Credentials) HasToken() bool {
	return c.Token != "" && c.TokenSecret != ""
}

// WithToken returns a copy carrying the given user token pair.
func (c Credentials) WithToken(token, secret string) Credentials {
	c.Token = token
	c.TokenSecret = secret
	return c
}

// ParseCredentials parses "key:secret" or "key:secret:token:token_secret".
func ParseCredentials(raw string) (Credentials, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	var c Credentials
	switch len(parts) {
	case 2:
		c = Credentials{ConsumerKey: parts[0], ConsumerSecret: parts[1]}
	case 4:
		c = Credentials{ConsumerKey: parts[0], ConsumerSecret: parts[1], Token: parts[2], TokenSecret: parts[3]}
	default:
		return Credentials{}, &Error{Kind: KindUnsupportedCredentials, Message: "want key:secret[:token:token_secret]"}
	}
	if c.Kind() == CredentialsUnsupported {
		return Credentials{}, &Error{Kind: KindUnsupportedCredentials, Message: "missing consumer key"}
	}
	return c, nil
}
