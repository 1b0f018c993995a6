package userlist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/userdesk/internal/services/web/integration/usersapi"
	"github.com/louisbranch/userdesk/internal/services/web/platform/viewstate"
)

// fakeGateway implements UserListGateway over an in-memory user set. listFunc,
// when set, replaces the in-memory listing for the given call number.
type fakeGateway struct {
	mu       sync.Mutex
	users    []User
	listErr  error
	getErr   error
	queries  []PageQuery
	getIDs   []int64
	listFunc func(call int, query PageQuery) (PageResult, error)
}

func (f *fakeGateway) ListUsers(_ context.Context, query PageQuery) (PageResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	call := len(f.queries)
	listFunc := f.listFunc
	err := f.listErr
	users := append([]User(nil), f.users...)
	f.mu.Unlock()

	if listFunc != nil {
		return listFunc(call, query)
	}
	if err != nil {
		return PageResult{}, err
	}
	return pageOf(users, query), nil
}

func (f *fakeGateway) GetUser(_ context.Context, id int64) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getIDs = append(f.getIDs, id)
	if f.getErr != nil {
		return User{}, f.getErr
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, fmt.Errorf("user %d missing from fake", id)
}

func (f *fakeGateway) setUsers(users []User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = users
}

func (f *fakeGateway) setListErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

func (f *fakeGateway) listCalls() []PageQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PageQuery(nil), f.queries...)
}

func pageOf(users []User, query PageQuery) PageResult {
	matched := make([]User, 0, len(users))
	for _, u := range users {
		if query.Keyword == "" || strings.Contains(u.Username, query.Keyword) {
			matched = append(matched, u)
		}
	}
	page := []User{}
	for i := query.Offset; i < len(matched) && i < query.Offset+query.Limit; i++ {
		page = append(page, matched[i])
	}
	return PageResult{Users: page, Total: len(matched)}
}

func seedUsers(n int) []User {
	users := make([]User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, User{
			ID:        int64(i),
			Username:  fmt.Sprintf("user%d", i),
			Age:       fmt.Sprintf("%d", 20+i),
			CreatedAt: fmt.Sprintf("2024-01-%02dT08:00:00Z", i),
		})
	}
	return users
}

// fakeUsersClient implements module.UsersClient for gateway tests.
type fakeUsersClient struct {
	page    usersapi.UserPage
	user    usersapi.User
	err     error
	params  []usersapi.ListUsersParams
	userIDs []int64
}

func (f *fakeUsersClient) ListUsers(_ context.Context, params usersapi.ListUsersParams) (usersapi.UserPage, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return usersapi.UserPage{}, f.err
	}
	return f.page, nil
}

func (f *fakeUsersClient) CreateUser(context.Context, usersapi.CreateUserInput) (usersapi.User, error) {
	return usersapi.User{}, nil
}

func (f *fakeUsersClient) GetUser(_ context.Context, id int64) (usersapi.User, error) {
	f.userIDs = append(f.userIDs, id)
	if f.err != nil {
		return usersapi.User{}, f.err
	}
	return f.user, nil
}

func newTestStore(t *testing.T) *viewstate.Store[listState] {
	t.Helper()
	store := viewstate.New[listState](time.Minute, nil)
	t.Cleanup(store.Close)
	return store
}

func newTestService(t *testing.T, gw UserListGateway) service {
	t.Helper()
	return newService(gw, newTestStore(t), 5, time.UTC)
}
