package registration

import (
	"context"

	apperrors "github.com/louisbranch/userdesk/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) CreateUser(context.Context, Draft) error {
	return apperrors.EK(apperrors.KindUnavailable, keySubmitUnavailable, "registration service is not configured")
}
