package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
)

// Username and age constraints shared by the form and server-side checks.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 20
	UsernamePattern   = "[a-zA-Z0-9_]+"
	AgeMin            = 1
	AgeMax            = 120
)

// RegistrationView is the render model of the registration form.
type RegistrationView struct {
	Username   string
	Age        string
	Error      string
	Submitting bool
}

// RegistrationForm renders the user registration form.
func RegistrationForm(view RegistrationView, loc Localizer) templ.Component {
	return render(func(_ context.Context, h *htmlWriter) {
		busyLabel := T(loc, "registration.submitting")
		h.raw(`<section class="card registration"><h1>`)
		h.text(T(loc, "registration.title"))
		h.raw("</h1>")

		if view.Error != "" {
			h.raw(`<div class="alert alert-error" role="alert">`)
			h.text(Text(loc, view.Error))
			h.raw("</div>")
		}

		h.raw(`<form method="post" data-busy-form`)
		h.attr("action", routepath.Root)
		h.attr("data-busy-label", busyLabel)
		h.flag("aria-busy", view.Submitting)
		h.raw(`><div class="field"><label for="username">`)
		h.text(T(loc, "registration.username"))
		h.raw(`</label><input id="username" name="username" type="text" autocomplete="off" required`)
		h.attr("minlength", strconv.Itoa(UsernameMinLength))
		h.attr("maxlength", strconv.Itoa(UsernameMaxLength))
		h.attr("pattern", UsernamePattern)
		h.attr("title", T(loc, "registration.username_hint"))
		h.attr("value", view.Username)
		h.flag("disabled", view.Submitting)
		h.raw(`><small class="hint">`)
		h.text(T(loc, "registration.username_hint"))
		h.raw(`</small></div><div class="field"><label for="age">`)
		h.text(T(loc, "registration.age"))
		h.raw(`</label><input id="age" name="age" type="number" step="1" required`)
		h.attr("min", strconv.Itoa(AgeMin))
		h.attr("max", strconv.Itoa(AgeMax))
		h.attr("value", view.Age)
		h.flag("disabled", view.Submitting)
		h.raw(`></div><button type="submit"`)
		h.flag("disabled", view.Submitting)
		h.raw(">")
		if view.Submitting {
			h.text(busyLabel)
		} else {
			h.text(T(loc, "registration.submit"))
		}
		h.raw(`</button></form><p class="registration-footer"><a`)
		h.attr("href", routepath.Users)
		h.raw(">")
		h.text(T(loc, "registration.view_list"))
		h.raw("</a></p></section>")
	})
}
