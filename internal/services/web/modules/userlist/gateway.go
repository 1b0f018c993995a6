package userlist

import (
	"context"

	"github.com/louisbranch/userdesk/internal/services/web/integration/usersapi"
	module "github.com/louisbranch/userdesk/internal/services/web/module"
	apperrors "github.com/louisbranch/userdesk/internal/services/web/platform/errors"
)

const (
	keyFetchFailed  = "users.error.fetch_failed"
	keyUserNotFound = "error.user_not_found"
)

// User is one user as the listing renders it.
type User struct {
	ID        int64
	Username  string
	Age       string
	CreatedAt string
}

// PageQuery selects one page of users.
type PageQuery struct {
	Keyword string
	Limit   int
	Offset  int
}

// PageResult is one page of users plus the total matching the keyword.
type PageResult struct {
	Users []User
	Total int
}

// UserListGateway loads users from the users backend.
type UserListGateway interface {
	ListUsers(context.Context, PageQuery) (PageResult, error)
	GetUser(context.Context, int64) (User, error)
}

type apiGateway struct {
	client module.UsersClient
}

// NewAPIGateway returns a users API backed listing gateway, or the
// unavailable gateway when client is nil.
func NewAPIGateway(client module.UsersClient) UserListGateway {
	if client == nil {
		return unavailableGateway{}
	}
	return apiGateway{client: client}
}

func (g apiGateway) ListUsers(ctx context.Context, query PageQuery) (PageResult, error) {
	page, err := g.client.ListUsers(ctx, usersapi.ListUsersParams{
		Keyword: query.Keyword,
		Limit:   query.Limit,
		Offset:  query.Offset,
	})
	if err != nil {
		return PageResult{}, apperrors.Wrap(apperrors.KindBadGateway, keyFetchFailed, err)
	}
	users := make([]User, 0, len(page.Users))
	for _, u := range page.Users {
		users = append(users, userFromAPI(u))
	}
	return PageResult{Users: users, Total: page.Total}, nil
}

func (g apiGateway) GetUser(ctx context.Context, id int64) (User, error) {
	u, err := g.client.GetUser(ctx, id)
	if err != nil {
		if usersapi.IsNotFound(err) {
			return User{}, apperrors.Wrap(apperrors.KindNotFound, keyUserNotFound, err)
		}
		return User{}, apperrors.Wrap(apperrors.KindBadGateway, keyFetchFailed, err)
	}
	return userFromAPI(u), nil
}

func userFromAPI(u usersapi.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Age:       string(u.Age),
		CreatedAt: u.CreatedAt,
	}
}
