package web

import (
	"log/slog"
	"net/http"
	"strings"

	twitter "github.com/anatolykoptev/jackofalltweets"
	"github.com/anatolykoptev/jackofalltweets/session"
	"github.com/dghubble/oauth1"
	"github.com/gin-gonic/gin"
)

func (s *Server) signIn(c *gin.Context) {
	s.render(c, http.StatusOK, "sign_in.html", gin.H{"Title": "Sign in"})
}

// login stores a fresh request token and sends the browser to Twitter to
// authorize it.
func (s *Server) login(c *gin.Context) {
	cl, err := s.client(c)
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	conn := cl.Connection()
	rt, err := conn.RequestToken(c.Request.Context(), s.callbackURL(c))
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	authURL, err := conn.AuthorizationURL(rt)
	if err != nil {
		s.fail(c, err, nil)
		return
	}

	sess := session.Get(c)
	sess.Set(session.KeyRequestToken, rt.Token)
	sess.Set(session.KeyRequestTokenSecret, rt.Secret)
	c.Redirect(http.StatusFound, authURL.String())
}

// callback trades the authorized request token for an access token and
// remembers who signed in.
func (s *Server) callback(c *gin.Context) {
	sess := session.Get(c)
	rt := twitter.RequestToken{}
	rt.Token, _ = sess.Get(session.KeyRequestToken)
	rt.Secret, _ = sess.Get(session.KeyRequestTokenSecret)
	sess.Delete(session.KeyRequestToken)
	sess.Delete(session.KeyRequestTokenSecret)

	if _, denied := c.GetQuery("denied"); denied {
		sess.AddFlash("notice", msgLoginDenied)
		c.Redirect(http.StatusFound, "/sign_in")
		return
	}
	token, verifier, err := oauth1.ParseAuthorizationCallback(c.Request)
	if rt.Token == "" || err != nil || token != rt.Token {
		sess.AddFlash("warning", msgLoginExpired)
		c.Redirect(http.StatusFound, "/sign_in")
		return
	}

	cl, err := s.client(c)
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	accessToken, accessSecret, err := cl.Connection().AccessToken(c.Request.Context(), rt, verifier)
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	sess.Set(session.KeyOAuthToken, accessToken)
	sess.Set(session.KeyOAuthTokenSecret, accessSecret)

	cl, err = s.newClient(accessToken, accessSecret)
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	c.Set(clientKey, cl)
	me, err := cl.VerifyCredentials(c.Request.Context())
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	if err := sess.SetJSON(session.KeyUserAttributes, attributesOf(me)); err != nil {
		s.fail(c, err, nil)
		return
	}
	s.logger.Info("signed in", slog.Int64("user_id", me.ID), slog.String("screen_name", me.ScreenName))
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) signOut(c *gin.Context) {
	destroySession(c)
}

// callbackURL is where Twitter returns the browser after authorization.
func (s *Server) callbackURL(c *gin.Context) string {
	if s.settings.BaseURL != "" {
		return strings.TrimRight(s.settings.BaseURL, "/") + "/callback"
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/callback"
}
