// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strconv"
)

const (
	Root              = "/"
	Health            = "/up"
	StaticPrefix      = "/static/"
	Users             = "/users"
	UsersPrefix       = "/users/"
	UserDetailPattern = UsersPrefix + "{userID}"
)

// Listing query parameters.
const (
	ParamKeyword = "keyword"
	ParamOffset  = "offset"
)

// UserDetail returns the detail page path for one user id.
func UserDetail(id int64) string {
	return UsersPrefix + url.PathEscape(strconv.FormatInt(id, 10))
}

// UsersPage returns the listing path for one keyword and offset. An empty
// keyword and a zero offset are omitted.
func UsersPage(keyword string, offset int) string {
	query := url.Values{}
	if keyword != "" {
		query.Set(ParamKeyword, keyword)
	}
	if offset > 0 {
		query.Set(ParamOffset, strconv.Itoa(offset))
	}
	if len(query) == 0 {
		return Users
	}
	return Users + "?" + query.Encode()
}
