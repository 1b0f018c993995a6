// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	webi18n "github.com/louisbranch/userdesk/internal/services/web/i18n"
	flashnotice "github.com/louisbranch/userdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/userdesk/internal/services/web/platform/httpx"
	platformi18n "github.com/louisbranch/userdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/userdesk/internal/services/web/platform/requestmeta"
	webtemplates "github.com/louisbranch/userdesk/internal/services/web/templates"
)

// RequestResolver resolves language and scheme policy for a request.
// This decouples platform rendering from the module-layer Dependencies type.
type RequestResolver interface {
	ResolveRequestLanguage(r *http.Request) string
	RequestSchemePolicy() requestmeta.SchemePolicy
}

// ModulePage describes one full-page module response.
type ModulePage struct {
	// TitleKey is localized for the document title.
	TitleKey   string
	StatusCode int
	Fragment   templ.Component
}

// WriteModulePage renders fragment inside the shared layout. The page is
// buffered so a render failure never leaves a half-written response.
func WriteModulePage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}

	var resolveLanguage func(*http.Request) string
	policy := requestmeta.SchemePolicy{}
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
		policy = resolver.RequestSchemePolicy()
	}
	loc, lang := platformi18n.ResolveLocalizer(w, r, resolveLanguage)

	currentPath := "/"
	if r != nil && r.URL != nil {
		currentPath = r.URL.Path
	}
	title := ""
	if key := strings.TrimSpace(page.TitleKey); key != "" {
		title = loc.Sprintf(key)
	}
	layout := webtemplates.Layout(webtemplates.PageContext{
		Title:       title,
		Lang:        lang,
		Loc:         loc,
		CurrentPath: currentPath,
		Languages:   webi18n.BuildLanguageOptions(r, lang, loc),
		Toast:       resolveFlashToast(w, r, loc, policy),
	})

	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(httpx.RequestContext(r), fragment), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc platformi18n.Localizer, policy requestmeta.SchemePolicy) *webtemplates.Toast {
	notice, ok := flashnotice.ReadAndClear(w, r, policy)
	if !ok {
		return nil
	}
	message := platformi18n.Message(loc, notice.Key, notice.Key)
	if message == "" {
		return nil
	}
	return &webtemplates.Toast{
		Kind:    string(notice.Kind),
		Message: message,
	}
}
