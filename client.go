package twitter

import "time"

// Client exposes the typed API operations over one Connection.
type Client struct {
	conn *Connection
}

// NewClient creates a client for creds.
func NewClient(creds Credentials, cfg ClientConfig) (*Client, error) {
	conn, err := NewConnection(creds, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// NewClientWithConnection wraps an existing connection.
func NewClientWithConnection(conn *Connection) *Client {
	return &Client{conn: conn}
}

// Connection returns the underlying connection.
func (c *Client) Connection() *Connection { return c.conn }

// RequestInfo returns the rate-limit snapshot of the latest call.
func (c *Client) RequestInfo() *RequestInfo { return c.conn.RequestInfo() }

// RateLimitExceeded reports whether the latest call hit a rate limit.
func (c *Client) RateLimitExceeded() bool { return c.conn.RateLimitExceeded() }

// EndpointAvailableAt returns when method may be called again.
func (c *Client) EndpointAvailableAt(method string) time.Time {
	return c.conn.EndpointAvailableAt(method)
}
