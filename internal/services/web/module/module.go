// Package module defines the feature contract used by web composition.
package module

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/userdesk/internal/services/web/integration/usersapi"
	"github.com/louisbranch/userdesk/internal/services/web/platform/requestmeta"
)

// ResolveLanguage returns the effective request language.
type ResolveLanguage func(*http.Request) string

// UsersClient is the users API surface modules depend on.
type UsersClient interface {
	ListUsers(ctx context.Context, params usersapi.ListUsersParams) (usersapi.UserPage, error)
	CreateUser(ctx context.Context, input usersapi.CreateUserInput) (usersapi.User, error)
	GetUser(ctx context.Context, id int64) (usersapi.User, error)
}

// Limiter admits or rejects one event for a key.
type Limiter interface {
	Allow(key string) bool
}

// Dependencies carries the shared collaborators modules mount with.
type Dependencies struct {
	UsersClient     UsersClient
	ResolveLanguage ResolveLanguage
	SchemePolicy    requestmeta.SchemePolicy
	// PageSize is the fixed listing limit.
	PageSize int
	// ViewTTL bounds how long idle view instance state is kept.
	ViewTTL time.Duration
	// DisplayLocation is the time zone used to render timestamps.
	DisplayLocation *time.Location
	SubmitLimiter   Limiter
	Logger          *log.Logger
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is an optional interface for modules that can report their
// operational availability.
type HealthReporter interface {
	Healthy() bool
}

// Closer is an optional interface for modules that own background resources.
type Closer interface {
	Close()
}
