package twitter

import (
	"fmt"
	"iter"
	"slices"
)

// User is a Twitter user object as returned by the v1 REST API.
//
// Only the fields declared here are populated; unknown keys in a response are dropped.
type User struct {
	ID                             int64      `json:"id"`
	IDStr                          string     `json:"id_str"`
	ScreenName                     string     `json:"screen_name"`
	Name                           string     `json:"name"`
	Description                    string     `json:"description"`
	Location                       string     `json:"location"`
	URL                            string     `json:"url"`
	Lang                           string     `json:"lang"`
	TimeZone                       string     `json:"time_zone"`
	UTCOffset                      int        `json:"utc_offset"`
	CreatedAt                      string     `json:"created_at"`
	ContributorsEnabled            bool       `json:"contributors_enabled"`
	DefaultProfile                 bool       `json:"default_profile"`
	DefaultProfileImage            bool       `json:"default_profile_image"`
	FavouritesCount                int        `json:"favourites_count"`
	FollowersCount                 int        `json:"followers_count"`
	FriendsCount                   int        `json:"friends_count"`
	ListedCount                    int        `json:"listed_count"`
	StatusesCount                  int        `json:"statuses_count"`
	FollowRequestSent              bool       `json:"follow_request_sent"`
	Following                      bool       `json:"following"` // deprecated upstream
	Notifications                  bool       `json:"notifications"` // deprecated upstream
	GeoEnabled                     bool       `json:"geo_enabled"`
	IsTranslator                   bool       `json:"is_translator"`
	Protected                      bool       `json:"protected"`
	Verified                       bool       `json:"verified"`
	ShowAllInlineMedia             bool       `json:"show_all_inline_media"`
	ProfileBackgroundColor         string     `json:"profile_background_color"`
	ProfileBackgroundImageURL      string     `json:"profile_background_image_url"`
	ProfileBackgroundImageURLHTTPS string     `json:"profile_background_image_url_https"`
	ProfileBackgroundTile          bool       `json:"profile_background_tile"`
	ProfileImageURL                string     `json:"profile_image_url"`
	ProfileImageURLHTTPS           string     `json:"profile_image_url_https"`
	ProfileLinkColor               string     `json:"profile_link_color"`
	ProfileSidebarBorderColor      string     `json:"profile_sidebar_border_color"`
	ProfileSidebarFillColor        string     `json:"profile_sidebar_fill_color"`
	ProfileTextColor               string     `json:"profile_text_color"`
	ProfileUseBackgroundImage      bool       `json:"profile_use_background_image"`
	WithheldInCountries            string     `json:"withheld_in_countries"` // "GR, HK, MY"
	WithheldScope                  string     `json:"withheld_scope"`
	Status                         Attributes `json:"status"`
	Entities                       Attributes `json:"entities"`
}

// NewUser builds a User from a response attribute map.
func NewUser(attrs Attributes) (*User, error) {
	u := &User{}
	if err := Construct(attrs, u); err != nil {
		return nil, fmt.Errorf("construct user: %w", err)
	}
	return u, nil
}

// Cursor is one page of a cursored ID list.
//
// PreviousCursor is 0 on the first page and NextCursor is 0 on the last page.
type Cursor struct {
	IDs            []int64 `json:"ids"`
	PreviousCursor int64   `json:"previous_cursor"`
	NextCursor     int64   `json:"next_cursor"`
}

// DefaultCursor requests the first page of a cursored list.
const DefaultCursor int64 = -1

// NewCursor builds a Cursor from a response attribute map.
func NewCursor(attrs Attributes) (*Cursor, error) {
	c := &Cursor{}
	if err := Construct(attrs, c); err != nil {
		return nil, fmt.Errorf("construct cursor: %w", err)
	}
	return c, nil
}

// At returns the ID at index i.
func (c *Cursor) At(i int) int64 { return c.IDs[i] }

// Len returns the number of IDs on this page.
func (c *Cursor) Len() int { return len(c.IDs) }

// All iterates over the IDs in order.
func (c *Cursor) All() iter.Seq[int64] { return slices.Values(c.IDs) }

// IsFirstPage reports whether there is no previous page.
func (c *Cursor) IsFirstPage() bool { return c.PreviousCursor == 0 }

// IsLastPage reports whether there is no next page.
func (c *Cursor) IsLastPage() bool { return c.NextCursor == 0 }

func (c *Cursor) String() string { return fmt.Sprint(c.IDs) }
