package web

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	twitter "github.com/anatolykoptev/jackofalltweets"
	"github.com/anatolykoptev/jackofalltweets/session"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxSearchPerPage is the largest page users/search serves.
const maxSearchPerPage = 20

// index lists one page of the users the current user follows, in the order
// friends/ids returns them.
func (s *Server) index(c *gin.Context) {
	ctx := c.Request.Context()
	data := gin.H{"Title": "Following"}
	cl, err := s.client(c)
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	rateLimited := func(msg string) {
		flashNow(c, "error", msg)
		data["RequestInfo"] = cl.RequestInfo()
		s.render(c, http.StatusTooManyRequests, "index.html", data)
	}

	friends, err := cl.FriendsIDs(ctx, currentUser(c), twitter.DefaultCursor)
	if err == nil && friends.Len() == 0 && cl.RateLimitExceeded() {
		err = errRateLimited
	}
	if err != nil {
		s.fail(c, err, rateLimited)
		return
	}
	perPage := max(s.settings.FollowersPerPage, 1)
	p := NewPagination(c.Request, TotalPages(friends.Len(), perPage))
	data["Pagination"] = p

	lo, hi := p.Slice(friends.Len(), perPage)
	if page := friends.IDs[lo:hi]; len(page) > 0 {
		users, err := cl.UsersLookup(ctx, page, false)
		if err != nil {
			s.fail(c, err, rateLimited)
			return
		}
		sortByPosition(users, page)
		data["Users"] = users
	}
	data["RequestInfo"] = cl.RequestInfo()
	s.render(c, http.StatusOK, "index.html", data)
}

// sortByPosition orders users as their ids appear in ids.
func sortByPosition(users []*twitter.User, ids []int64) {
	pos := make(map[int64]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	slices.SortStableFunc(users, func(a, b *twitter.User) int {
		return position(pos, a.ID) - position(pos, b.ID)
	})
}

func position(pos map[int64]int, id int64) int {
	if i, ok := pos[id]; ok {
		return i
	}
	return len(pos)
}

func (s *Server) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	data := gin.H{"Title": "Search", "Query": query}
	if query == "" {
		flashNow(c, "warning", msgEmptySearch)
		s.render(c, http.StatusOK, "search.html", data)
		return
	}
	cl, err := s.client(c)
	if err != nil {
		s.fail(c, err, nil)
		return
	}

	perPage := min(max(s.settings.SearchResultsPerPage, 1), maxSearchPerPage)
	users, err := cl.UsersSearch(c.Request.Context(), query, CurrentPage(c.Request), perPage, false)
	if err != nil {
		s.fail(c, err, func(msg string) {
			flashNow(c, "error", msg)
			data["RequestInfo"] = cl.RequestInfo()
			s.render(c, http.StatusTooManyRequests, "search.html", data)
		})
		return
	}
	data["Pagination"] = NewOpenPagination(c.Request, len(users) >= perPage)
	if me := currentUser(c); me != nil {
		users = slices.DeleteFunc(users, func(u *twitter.User) bool { return u.ID == me.ID })
	}
	data["Users"] = users
	data["RequestInfo"] = cl.RequestInfo()
	s.render(c, http.StatusOK, "search.html", data)
}

// changeFriendships follows and unfollows the submitted users, paced so a
// long list does not burst against Twitter's limits.
func (s *Server) changeFriendships(c *gin.Context) {
	ctx := c.Request.Context()
	cl, err := s.client(c)
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	follow := formIDs(c, "follow_ids")
	unfollow := formIDs(c, "unfollow_ids")
	limiter := s.friendshipLimiter()

	following, err := s.eachFriendship(ctx, cl, limiter, "follow", follow, cl.CreateFriendship)
	var unfollowed []string
	if err == nil {
		unfollowed, err = s.eachFriendship(ctx, cl, limiter, "unfollow", unfollow, cl.DestroyFriendship)
	}

	sess := session.Get(c)
	if len(unfollowed) > 0 {
		sess.AddFlash("success", fmt.Sprintf(msgUnfollowed, ToSentence(mentions(unfollowed))))
	}
	if len(following) > 0 {
		sess.AddFlash("success", fmt.Sprintf(msgFollowing, ToSentence(mentions(following))))
	}
	if err != nil {
		s.fail(c, err, func(msg string) {
			sess.AddFlash("error", msg)
			c.Redirect(http.StatusFound, "/")
		})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

type friendshipCall func(ctx context.Context, id any) (*twitter.User, error)

// eachFriendship applies call to every id and returns the screen names it
// succeeded for. It stops at the first failure, counting an empty answer
// under an exhausted limit as one.
func (s *Server) eachFriendship(ctx context.Context, cl *twitter.Client, limiter *rate.Limiter, action string, ids []int64, call friendshipCall) ([]string, error) {
	var names []string
	for _, id := range ids {
		if err := limiter.Wait(ctx); err != nil {
			return names, err
		}
		u, err := call(ctx, id)
		if err == nil && u.ID == 0 && cl.RateLimitExceeded() {
			err = errRateLimited
		}
		if s.metrics != nil {
			s.metrics.RecordFriendship(action, err)
		}
		if err != nil {
			return names, err
		}
		names = append(names, u.ScreenName)
	}
	return names, nil
}

func (s *Server) friendshipLimiter() *rate.Limiter {
	if s.settings.FriendshipRate <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(s.settings.FriendshipRate), max(s.settings.FriendshipBurst, 1))
}

// formIDs reads user ids posted either as checkbox keys (name[123]=1) or as
// repeated values (name=123). Invalid and duplicate ids are dropped.
func formIDs(c *gin.Context, name string) []int64 {
	var raw []string
	for k := range c.PostFormMap(name) {
		raw = append(raw, k)
	}
	raw = append(raw, c.PostFormArray(name)...)
	raw = append(raw, c.PostFormArray(name+"[]")...)

	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(r), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
