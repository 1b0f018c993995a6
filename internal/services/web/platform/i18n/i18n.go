// Package i18n resolves request localizers for module rendering.
package i18n

import (
	"net/http"
	"strings"

	webi18n "github.com/louisbranch/userdesk/internal/services/web/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localizer provides translated strings.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// ResolveTag resolves the request language through resolveLanguage when set,
// falling back to the shared request resolution.
func ResolveTag(r *http.Request, resolveLanguage func(*http.Request) string) language.Tag {
	if resolveLanguage != nil {
		if lang := strings.TrimSpace(resolveLanguage(r)); lang != "" {
			return webi18n.NormalizeTag(lang)
		}
	}
	tag, _ := webi18n.ResolveTag(r)
	return tag
}

// ResolveLocalizer returns a printer for the request language and persists an
// explicit ?lang= choice as a cookie.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request, resolveLanguage func(*http.Request) string) (*message.Printer, string) {
	if selected, persist := webi18n.ResolveTag(r); persist {
		webi18n.SetLanguageCookie(w, selected)
	}
	tag := ResolveTag(r, resolveLanguage)
	return webi18n.Printer(tag), tag.String()
}

// Message localizes key, returning fallback when the catalog has no entry.
func Message(loc Localizer, key string, fallback string) string {
	key = strings.TrimSpace(key)
	if loc == nil || key == "" {
		return fallback
	}
	localized := strings.TrimSpace(loc.Sprintf(key))
	if localized == "" || localized == key {
		return fallback
	}
	return localized
}
