package twitter

import (
	"context"
)

// VerifyCredentials returns the authenticated user.
func (c *Client) VerifyCredentials(ctx context.Context) (*User, error) {
	p, err := c.conn.Get(ctx, MethodVerifyCredentials, nil)
	if err != nil {
		return nil, err
	}
	return userFromPayload(p)
}

// CreateFriendship follows id: a user ID, screen name or User.
func (c *Client) CreateFriendship(ctx context.Context, id any) (*User, error) {
	p, err := c.conn.Post(ctx, MethodFriendshipsCreate, Params{"ids": id})
	if err != nil {
		return nil, err
	}
	return userFromPayload(p)
}

// DestroyFriendship unfollows id: a user ID, screen name or User.
func (c *Client) DestroyFriendship(ctx context.Context, id any) (*User, error) {
	p, err := c.conn.Post(ctx, MethodFriendshipsDestroy, Params{"ids": id})
	if err != nil {
		return nil, err
	}
	return userFromPayload(p)
}

// FriendsIDs returns one page of the IDs id follows. Pass DefaultCursor for the first page.
func (c *Client) FriendsIDs(ctx context.Context, id any, cursor int64) (*Cursor, error) {
	p, err := c.conn.Get(ctx, MethodFriendsIDs, Params{"ids": id, "cursor": cursor})
	if err != nil {
		return nil, err
	}
	attrs, err := p.Attributes()
	if err != nil {
		return nil, err
	}
	return NewCursor(attrs)
}

// UsersLookup returns users for up to 100 IDs, screen names or Users.
// Longer lists are sent as is.
func (c *Client) UsersLookup(ctx context.Context, ids any, includeEntities bool) ([]*User, error) {
	p, err := c.conn.Post(ctx, MethodUsersLookup, Params{"ids": ids, "include_entities": includeEntities})
	if err != nil {
		return nil, err
	}
	return usersFromPayload(p)
}

// UsersSearch runs a people search. Zero page or perPage is omitted.
func (c *Client) UsersSearch(ctx context.Context, query string, page, perPage int, includeEntities bool) ([]*User, error) {
	params := Params{"q": query, "include_entities": includeEntities}
	if page > 0 {
		params["page"] = page
	}
	if perPage > 0 {
		params["per_page"] = perPage
	}
	p, err := c.conn.Get(ctx, MethodUsersSearch, params)
	if err != nil {
		return nil, err
	}
	return usersFromPayload(p)
}

func userFromPayload(p Payload) (*User, error) {
	attrs, err := p.Attributes()
	if err != nil {
		return nil, err
	}
	return NewUser(attrs)
}

func usersFromPayload(p Payload) ([]*User, error) {
	list, err := p.List()
	if err != nil {
		return nil, err
	}
	users := make([]*User, 0, len(list))
	for _, attrs := range list {
		u, err := NewUser(attrs)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
