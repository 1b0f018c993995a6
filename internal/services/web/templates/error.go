package templates

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
)

const (
	errorPageTitleNotFoundKey  = "error.page_title_not_found"
	errorPageTitleServerErrKey = "error.page_title_server_error"
	errorHeadingNotFoundKey    = "error.title_not_found"
	errorHeadingServerErrKey   = "error.title_server_error"
	errorMessageNotFoundKey    = "error.message_not_found"
	errorMessageServerErrKey   = "error.message_server_error"
	errorBackHomeKey           = "error.action_back_home"
)

// ErrorPageTitleKey returns the localization key of an error page title.
func ErrorPageTitleKey(statusCode int) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return errorPageTitleNotFoundKey
	}
	return errorPageTitleServerErrKey
}

// ErrorState renders the body of an error page. A non-empty detail replaces
// the generic message.
func ErrorState(statusCode int, detail string, loc Localizer) templ.Component {
	return render(func(_ context.Context, h *htmlWriter) {
		heading, message := T(loc, errorHeadingServerErrKey), T(loc, errorMessageServerErrKey)
		if normalizeErrorStatus(statusCode) == http.StatusNotFound {
			heading, message = T(loc, errorHeadingNotFoundKey), T(loc, errorMessageNotFoundKey)
		}
		if detail != "" {
			message = Text(loc, detail)
		}
		h.raw(`<section class="card error-state"><p class="status-code">`)
		h.text(strconv.Itoa(statusCode))
		h.raw("</p><h1>")
		h.text(heading)
		h.raw("</h1><p>")
		h.text(message)
		h.raw(`</p><a`)
		h.attr("href", routepath.Root)
		h.raw(">")
		h.text(T(loc, errorBackHomeKey))
		h.raw("</a></section>")
	})
}

func normalizeErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
