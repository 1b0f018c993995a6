package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"
	webi18n "github.com/louisbranch/userdesk/internal/services/web/i18n"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
)

// Toast is a one-time notice shown above the page content.
type Toast struct {
	Kind    string
	Message string
}

// PageContext provides shared layout context for pages.
type PageContext struct {
	Title       string
	Lang        string
	Loc         Localizer
	CurrentPath string
	Languages   []webi18n.LanguageOption
	Toast       *Toast
}

// Layout renders the HTML document shell around the children in ctx.
func Layout(page PageContext) templ.Component {
	return render(func(ctx context.Context, h *htmlWriter) {
		appTitle := T(page.Loc, "common.app_title")
		title := appTitle
		if page.Title != "" {
			title = page.Title + " | " + appTitle
		}

		h.raw("<!DOCTYPE html><html")
		h.attr("lang", page.Lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="` + routepath.StaticPrefix + `app.css">`)
		h.raw(`<script defer src="` + routepath.StaticPrefix + `app.js"></script></head><body>`)

		h.raw(`<header class="app-header"><a class="app-brand" href="` + routepath.Root + `">`)
		h.text(appTitle)
		h.raw(`</a><nav class="app-nav">`)
		navLink(h, routepath.Root, T(page.Loc, "common.nav_register"), page.CurrentPath == routepath.Root)
		navLink(h, routepath.Users, T(page.Loc, "common.nav_users"), isUsersPath(page.CurrentPath))
		h.raw(`</nav><div class="app-lang">`)
		for _, option := range page.Languages {
			h.raw("<a")
			h.attr("href", option.URL)
			h.attr("hreflang", option.Tag)
			if option.Active {
				h.raw(` class="active" aria-current="true"`)
			}
			h.raw(">")
			h.text(option.Label)
			h.raw("</a>")
		}
		h.raw(`</div></header><main class="app-main">`)

		if page.Toast != nil && page.Toast.Message != "" {
			h.raw(`<div role="status"`)
			h.attr("class", "toast toast-"+page.Toast.Kind)
			h.raw(">")
			h.text(page.Toast.Message)
			h.raw("</div>")
		}
		h.component(ctx, templ.GetChildren(ctx))
		h.raw("</main></body></html>")
	})
}

func navLink(h *htmlWriter, href string, label string, active bool) {
	h.raw("<a")
	h.attr("href", href)
	if active {
		h.raw(` class="active" aria-current="page"`)
	}
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

func isUsersPath(path string) bool {
	return path == routepath.Users || strings.HasPrefix(path, routepath.UsersPrefix)
}
