package web

import (
	"fmt"
	"log/slog"
	"net/http"

	twitter "github.com/anatolykoptev/jackofalltweets"
	"github.com/anatolykoptev/jackofalltweets/session"
	"github.com/gin-gonic/gin"
)

const (
	msgSignedOut      = "You have been signed out."
	msgLoginExpired   = "Your sign in attempt expired. Please try again."
	msgLoginDenied    = "Sign in with Twitter was cancelled."
	msgEmptySearch    = "Please enter a name to search for."
	msgFollowing      = "You are now following %s."
	msgUnfollowed     = "You unfollowed %s."
	msgRateLimit      = "Twitter's rate limit is exceeded. Please try again later."
	msgRateLimitUntil = "Twitter's rate limit is exceeded. Please try again after %s."
)

// errRateLimited stands in for a throttled call that Twitter answered with a
// status the connection passes through as success (429).
var errRateLimited = &twitter.Error{Kind: twitter.KindInvalidRequest, Message: "rate limit exceeded"}

// fail applies the error policy for a failed request. Lost authorization
// signs the user out. Rate limits are handed to rateLimited with a message
// when it is not nil. Everything else renders the error page.
func (s *Server) fail(c *gin.Context, err error, rateLimited func(msg string)) {
	kind := twitter.KindOf(err)
	switch kind {
	case twitter.KindUnauthorized, twitter.KindOAuthUnauthorized:
		s.logger.Info("authorization lost", slog.Any("error", err))
		destroySession(c)
		return
	case twitter.KindInvalidRequest, twitter.KindNone:
		// A throttled body that fails to parse surfaces as KindNone.
		cl := requestClient(c)
		if cl != nil && cl.RateLimitExceeded() && rateLimited != nil {
			s.logger.Warn("rate limit exceeded", slog.Any("error", err))
			rateLimited(rateLimitMessage(cl))
			return
		}
	}

	status := http.StatusInternalServerError
	switch {
	case kind == twitter.KindTimeout:
		status = http.StatusGatewayTimeout
	case kind != twitter.KindNone && kind != twitter.KindUnsupportedCredentials:
		status = http.StatusBadGateway
	}
	s.logger.Error("request failed", slog.String("path", c.Request.URL.Path), slog.Any("error", err))
	s.render(c, status, "error.html", gin.H{"Title": "Error", "Error": err.Error()})
}

// destroySession signs the browser out and sends it to the sign-in page.
func destroySession(c *gin.Context) {
	sess := session.Get(c)
	sess.Reset()
	sess.AddFlash("notice", msgSignedOut)
	c.Redirect(http.StatusFound, "/sign_in")
}

// limitedMethods are the endpoints the app calls, checked for a remembered
// limit when the latest response carried no reset time.
var limitedMethods = []string{
	twitter.MethodFriendsIDs,
	twitter.MethodUsersLookup,
	twitter.MethodUsersSearch,
	twitter.MethodFriendshipsCreate,
	twitter.MethodFriendshipsDestroy,
}

func rateLimitMessage(cl *twitter.Client) string {
	if cl == nil {
		return msgRateLimit
	}
	at, ok := cl.RequestInfo().ResetAt()
	for _, m := range limitedMethods {
		if ok {
			break
		}
		if cl.Connection().EndpointRateLimited(m) {
			at, ok = cl.EndpointAvailableAt(m), true
		}
	}
	if !ok {
		return msgRateLimit
	}
	return fmt.Sprintf(msgRateLimitUntil, at.Local().Format("15:04"))
}
