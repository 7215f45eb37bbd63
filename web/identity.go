package web

import (
	"net/http"

	twitter "github.com/anatolykoptev/jackofalltweets"
	"github.com/anatolykoptev/jackofalltweets/session"
	"github.com/gin-gonic/gin"
)

const clientKey = "jack.twitter"

// userAttributes is the part of the signed-in user kept in the session.
type userAttributes struct {
	ID                   int64  `json:"id"`
	ScreenName           string `json:"screen_name"`
	ProfileImageURL      string `json:"profile_image_url"`
	ProfileImageURLHTTPS string `json:"profile_image_url_https"`
}

func attributesOf(u *twitter.User) userAttributes {
	return userAttributes{
		ID:                   u.ID,
		ScreenName:           u.ScreenName,
		ProfileImageURL:      u.ProfileImageURL,
		ProfileImageURLHTTPS: u.ProfileImageURLHTTPS,
	}
}

// currentUser returns the signed-in user, or nil.
func currentUser(c *gin.Context) *twitter.User {
	var u twitter.User
	if !session.Get(c).GetJSON(session.KeyUserAttributes, &u) || u.ID == 0 {
		return nil
	}
	return &u
}

func requireCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.Redirect(http.StatusFound, "/sign_in")
			c.Abort()
			return
		}
		c.Next()
	}
}

// client returns the request's API client, built once from the consumer
// settings and the session's access token.
func (s *Server) client(c *gin.Context) (*twitter.Client, error) {
	if v, ok := c.Get(clientKey); ok {
		return v.(*twitter.Client), nil
	}
	sess := session.Get(c)
	token, _ := sess.Get(session.KeyOAuthToken)
	secret, _ := sess.Get(session.KeyOAuthTokenSecret)
	cl, err := s.newClient(token, secret)
	if err != nil {
		return nil, err
	}
	c.Set(clientKey, cl)
	return cl, nil
}

func (s *Server) newClient(token, secret string) (*twitter.Client, error) {
	creds := twitter.Credentials{
		ConsumerKey:    s.settings.OAuth.ConsumerKey,
		ConsumerSecret: s.settings.OAuth.ConsumerSecret,
	}
	if token != "" && secret != "" {
		creds = creds.WithToken(token, secret)
	}
	return twitter.NewClient(creds, s.twitter)
}

// requestClient returns the client already built for this request, if any.
func requestClient(c *gin.Context) *twitter.Client {
	if v, ok := c.Get(clientKey); ok {
		return v.(*twitter.Client)
	}
	return nil
}
