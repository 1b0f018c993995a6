package registration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/userdesk/internal/services/web/integration/usersapi"
	"github.com/louisbranch/userdesk/internal/services/web/platform/viewstate"
)

// fakeGateway implements RegistrationGateway for tests with configurable
// failures, call tracking and an optional gate that holds calls open.
type fakeGateway struct {
	mu      sync.Mutex
	err     error
	calls   int
	drafts  []Draft
	started chan struct{}
	release chan struct{}
}

func (f *fakeGateway) CreateUser(_ context.Context, draft Draft) error {
	f.mu.Lock()
	f.calls++
	f.drafts = append(f.drafts, draft)
	err := f.err
	started, release := f.started, f.release
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return err
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeUsersClient implements module.UsersClient for gateway tests.
type fakeUsersClient struct {
	created []usersapi.CreateUserInput
	err     error
}

func (f *fakeUsersClient) ListUsers(context.Context, usersapi.ListUsersParams) (usersapi.UserPage, error) {
	return usersapi.UserPage{}, nil
}

func (f *fakeUsersClient) CreateUser(_ context.Context, input usersapi.CreateUserInput) (usersapi.User, error) {
	f.created = append(f.created, input)
	if f.err != nil {
		return usersapi.User{}, f.err
	}
	return usersapi.User{ID: 1, Username: input.Username, Age: usersapi.FlexString(input.Age)}, nil
}

func (f *fakeUsersClient) GetUser(context.Context, int64) (usersapi.User, error) {
	return usersapi.User{}, nil
}

// fakeLimiter admits events while allow is true.
type fakeLimiter struct {
	allow bool
	keys  []string
}

func (f *fakeLimiter) Allow(key string) bool {
	f.keys = append(f.keys, key)
	return f.allow
}

func newTestStore(t *testing.T) *viewstate.Store[formState] {
	t.Helper()
	store := viewstate.New[formState](time.Minute, nil)
	t.Cleanup(store.Close)
	return store
}
