package registration

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"

	apperrors "github.com/louisbranch/userdesk/internal/services/web/platform/errors"
	"github.com/louisbranch/userdesk/internal/services/web/platform/viewstate"
	webtemplates "github.com/louisbranch/userdesk/internal/services/web/templates"
)

// Draft is the registration form input as typed by the user.
type Draft struct {
	Username string
	Age      string
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var errSubmitInFlight = apperrors.EK(apperrors.KindConflict, "registration.error.in_flight", "registration submit already in flight")

// formState is one view instance's registration form.
type formState struct {
	mu         sync.Mutex
	draft      Draft
	errText    string
	submitting bool
}

type service struct {
	gateway RegistrationGateway
	states  *viewstate.Store[formState]
}

func newService(gateway RegistrationGateway, states *viewstate.Store[formState]) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway, states: states}
}

// view snapshots the instance's form for rendering.
func (s service) view(instanceID string) webtemplates.RegistrationView {
	if s.states == nil {
		return webtemplates.RegistrationView{}
	}
	st, ok := s.states.Get(instanceID)
	if !ok {
		return webtemplates.RegistrationView{}
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return webtemplates.RegistrationView{
		Username:   st.draft.Username,
		Age:        st.draft.Age,
		Error:      st.errText,
		Submitting: st.submitting,
	}
}

// submit validates the draft and sends it. On success the stored draft and
// error are cleared; on failure the draft stays and the error text is kept.
func (s service) submit(ctx context.Context, instanceID string, draft Draft) error {
	if s.states == nil {
		return apperrors.EK(apperrors.KindUnavailable, keySubmitUnavailable, "registration state is not configured")
	}
	st, _ := s.states.GetOrCreate(instanceID)

	st.mu.Lock()
	if st.submitting {
		st.mu.Unlock()
		return errSubmitInFlight
	}
	st.draft = draft
	if err := validateDraft(draft); err != nil {
		st.errText = apperrors.LocalizationKey(err)
		st.mu.Unlock()
		return err
	}
	st.submitting = true
	st.errText = ""
	st.mu.Unlock()

	err := s.gateway.CreateUser(ctx, draft)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.submitting = false
	if err != nil {
		st.errText = failureText(err)
		return err
	}
	st.draft = Draft{}
	st.errText = ""
	return nil
}

func validateDraft(draft Draft) error {
	username := draft.Username
	if len(username) < webtemplates.UsernameMinLength ||
		len(username) > webtemplates.UsernameMaxLength ||
		!usernamePattern.MatchString(username) {
		return apperrors.EK(apperrors.KindInvalidInput, "registration.error.invalid_username", "username must be 3-20 letters, digits or underscores")
	}
	age, err := strconv.Atoi(strings.TrimSpace(draft.Age))
	if err != nil || age < webtemplates.AgeMin || age > webtemplates.AgeMax {
		return apperrors.EK(apperrors.KindInvalidInput, "registration.error.invalid_age", "age must be an integer between 1 and 120")
	}
	return nil
}

// failureText returns the backend's error text when it sent one, otherwise
// the localization key of the fallback message.
func failureText(err error) string {
	var appErr apperrors.Error
	if !errors.As(err, &appErr) {
		return keySubmitUnavailable
	}
	if appErr.Key == keySubmitFailed {
		if text := strings.TrimSpace(appErr.Message); text != "" {
			return text
		}
	}
	if appErr.Key != "" {
		return appErr.Key
	}
	return keySubmitUnavailable
}
