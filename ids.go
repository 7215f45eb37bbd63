package twitter

import (
	"maps"
	"strconv"
	"strings"
)

// ConvertIDs returns a copy of params in which the "ids" entry is replaced by
// comma-joined "user_id" and/or "screen_name" entries. Integers are user IDs,
// strings are screen names, and a User contributes its ID when set or its
// screen name otherwise. params itself is not modified.
func ConvertIDs(params Params) Params {
	out := make(Params, len(params)+1)
	maps.Copy(out, params)
	ids, ok := out["ids"]
	if !ok {
		return out
	}
	delete(out, "ids")

	var userIDs, screenNames []string
	collectIDs(ids, &userIDs, &screenNames)
	if len(userIDs) > 0 {
		out["user_id"] = strings.Join(userIDs, ",")
	}
	if len(screenNames) > 0 {
		out["screen_name"] = strings.Join(screenNames, ",")
	}
	return out
}

func collectIDs(v any, userIDs, screenNames *[]string) {
	switch x := v.(type) {
	case int:
		*userIDs = append(*userIDs, strconv.Itoa(x))
	case int32:
		*userIDs = append(*userIDs, strconv.FormatInt(int64(x), 10))
	case int64:
		*userIDs = append(*userIDs, strconv.FormatInt(x, 10))
	case uint64:
		*userIDs = append(*userIDs, strconv.FormatUint(x, 10))
	case string:
		*screenNames = append(*screenNames, x)
	case User:
		collectUser(&x, userIDs, screenNames)
	case *User:
		collectUser(x, userIDs, screenNames)
	case []any:
		for _, item := range x {
			collectIDs(item, userIDs, screenNames)
		}
	case []int:
		for _, item := range x {
			collectIDs(item, userIDs, screenNames)
		}
	case []int64:
		for _, item := range x {
			collectIDs(item, userIDs, screenNames)
		}
	case []string:
		*screenNames = append(*screenNames, x...)
	case []*User:
		for _, item := range x {
			collectUser(item, userIDs, screenNames)
		}
	case []User:
		for i := range x {
			collectUser(&x[i], userIDs, screenNames)
		}
	}
}

func collectUser(u *User, userIDs, screenNames *[]string) {
	switch {
	case u == nil:
	case u.ID != 0:
		*userIDs = append(*userIDs, strconv.FormatInt(u.ID, 10))
	case u.ScreenName != "":
		*screenNames = append(*screenNames, u.ScreenName)
	}
}
