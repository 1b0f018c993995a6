package registration

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/userdesk/internal/services/web/integration/usersapi"
	module "github.com/louisbranch/userdesk/internal/services/web/module"
	apperrors "github.com/louisbranch/userdesk/internal/services/web/platform/errors"
)

const (
	keySubmitFailed      = "registration.error.submit_failed"
	keySubmitUnavailable = "registration.error.submit_unavailable"
)

// RegistrationGateway submits one registration draft to the users backend.
//
// Failures are apperrors.Error values. For rejections by the backend, Message
// carries the backend's own error text when it sent one.
type RegistrationGateway interface {
	CreateUser(context.Context, Draft) error
}

type apiGateway struct {
	client module.UsersClient
}

// NewAPIGateway returns a users API backed registration gateway, or the
// unavailable gateway when client is nil.
func NewAPIGateway(client module.UsersClient) RegistrationGateway {
	if client == nil {
		return unavailableGateway{}
	}
	return apiGateway{client: client}
}

func (g apiGateway) CreateUser(ctx context.Context, draft Draft) error {
	_, err := g.client.CreateUser(ctx, usersapi.CreateUserInput{
		Username: draft.Username,
		Age:      draft.Age,
	})
	if err == nil {
		return nil
	}
	var statusErr *usersapi.StatusError
	if errors.As(err, &statusErr) {
		kind := apperrors.KindBadGateway
		if statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 {
			kind = apperrors.KindInvalidInput
		}
		return apperrors.Error{
			Kind:    kind,
			Key:     keySubmitFailed,
			Message: strings.TrimSpace(statusErr.Message),
			Cause:   err,
		}
	}
	return apperrors.Error{Kind: apperrors.KindBadGateway, Key: keySubmitUnavailable, Cause: err}
}
