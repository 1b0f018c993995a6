package userlist

import (
	"context"

	apperrors "github.com/louisbranch/userdesk/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) ListUsers(context.Context, PageQuery) (PageResult, error) {
	return PageResult{}, apperrors.EK(apperrors.KindUnavailable, keyFetchFailed, "user listing service is not configured")
}

func (unavailableGateway) GetUser(context.Context, int64) (User, error) {
	return User{}, apperrors.EK(apperrors.KindUnavailable, keyFetchFailed, "user listing service is not configured")
}
