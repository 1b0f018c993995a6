package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
)

// UserRow is one rendered user.
type UserRow struct {
	ID        int64
	Username  string
	Age       string
	CreatedAt string
}

// UserListView is the render model of the user listing.
type UserListView struct {
	Keyword     string
	Offset      int
	PrevOffset  int
	NextOffset  int
	Users       []UserRow
	Total       int
	RangeFrom   int
	RangeTo     int
	PrevEnabled bool
	NextEnabled bool
	Loading     bool
	Error       string
}

// UserDetailView is the render model of one user's page.
type UserDetailView struct {
	User UserRow
}

// UserList renders the searchable, paginated user table.
func UserList(view UserListView, loc Localizer) templ.Component {
	return render(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="card users"`)
		h.flag("data-loading", view.Loading)
		h.raw(`><div class="users-header"><h1>`)
		h.text(T(loc, "users.title"))
		h.raw(`</h1><a class="back"`)
		h.attr("href", routepath.Root)
		h.raw(">")
		h.text(T(loc, "users.back"))
		h.raw(`</a></div><div class="users-toolbar">`)

		h.raw(`<form class="search" method="get" data-busy-form`)
		h.attr("action", routepath.Users)
		h.attr("data-busy-label", T(loc, "users.loading"))
		h.raw(`><input type="search"`)
		h.attr("name", routepath.ParamKeyword)
		h.attr("placeholder", T(loc, "users.search_placeholder"))
		h.attr("value", view.Keyword)
		h.flag("disabled", view.Loading)
		h.raw(`><button type="submit"`)
		h.flag("disabled", view.Loading)
		h.raw(">")
		h.text(T(loc, "users.search"))
		h.raw("</button></form>")

		h.raw(`<form class="refresh" method="get" data-busy-form`)
		h.attr("action", routepath.Users)
		h.attr("data-busy-label", T(loc, "users.refreshing"))
		h.raw(">")
		if view.Keyword != "" {
			hiddenInput(h, routepath.ParamKeyword, view.Keyword)
		}
		if view.Offset > 0 {
			hiddenInput(h, routepath.ParamOffset, strconv.Itoa(view.Offset))
		}
		h.raw(`<button type="submit"`)
		h.flag("disabled", view.Loading)
		h.raw(">")
		if view.Loading {
			h.text(T(loc, "users.refreshing"))
		} else {
			h.text(T(loc, "users.refresh"))
		}
		h.raw("</button></form></div>")

		if view.Error != "" {
			h.raw(`<div class="alert alert-error" role="alert">`)
			h.text(Text(loc, view.Error))
			h.raw("</div>")
		}

		switch {
		case view.Loading:
			h.raw(`<p class="loading" aria-live="polite">`)
			h.text(T(loc, "users.loading"))
			h.raw("</p>")
		case len(view.Users) == 0:
			h.raw(`<p class="empty">`)
			h.text(T(loc, "users.empty"))
			h.raw("</p>")
		default:
			userTable(h, view.Users, loc)
			pagination(h, view, loc)
		}
		h.raw("</section>")
	})
}

func hiddenInput(h *htmlWriter, name string, value string) {
	h.raw(`<input type="hidden"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(">")
}

func userTable(h *htmlWriter, users []UserRow, loc Localizer) {
	h.raw(`<table class="users-table"><thead><tr>`)
	for _, key := range []string{"users.col_id", "users.col_username", "users.col_age", "users.col_created_at"} {
		h.raw("<th>")
		h.text(T(loc, key))
		h.raw("</th>")
	}
	h.raw("</tr></thead><tbody>")
	for _, user := range users {
		h.raw("<tr><td>")
		h.text(strconv.FormatInt(user.ID, 10))
		h.raw("</td><td><a")
		h.attr("href", routepath.UserDetail(user.ID))
		h.raw(">")
		h.text(user.Username)
		h.raw("</a></td><td>")
		h.text(user.Age)
		h.raw("</td><td>")
		h.text(user.CreatedAt)
		h.raw("</td></tr>")
	}
	h.raw("</tbody></table>")
}

func pagination(h *htmlWriter, view UserListView, loc Localizer) {
	h.raw(`<nav class="pagination">`)
	pageLink(h, "prev", routepath.UsersPage(view.Keyword, view.PrevOffset), T(loc, "users.prev"), view.PrevEnabled && !view.Loading)
	h.raw(`<span class="range">`)
	h.text(T(loc, "users.range", view.RangeFrom, view.RangeTo, view.Total))
	h.raw("</span>")
	pageLink(h, "next", routepath.UsersPage(view.Keyword, view.NextOffset), T(loc, "users.next"), view.NextEnabled && !view.Loading)
	h.raw("</nav>")
}

func pageLink(h *htmlWriter, direction string, href string, label string, enabled bool) {
	if !enabled {
		h.raw(`<span class="page-link disabled" aria-disabled="true"`)
		h.attr("data-page", direction)
		h.raw(">")
		h.text(label)
		h.raw("</span>")
		return
	}
	h.raw(`<a class="page-link" data-nav`)
	h.attr("data-page", direction)
	h.attr("href", href)
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

// UserDetail renders one user.
func UserDetail(view UserDetailView, loc Localizer) templ.Component {
	return render(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="card user-detail"><h1>`)
		h.text(T(loc, "users.detail_title"))
		h.raw("</h1><dl>")
		fields := []struct {
			key   string
			value string
		}{
			{key: "users.col_id", value: strconv.FormatInt(view.User.ID, 10)},
			{key: "users.col_username", value: view.User.Username},
			{key: "users.col_age", value: view.User.Age},
			{key: "users.col_created_at", value: view.User.CreatedAt},
		}
		for _, field := range fields {
			h.raw("<dt>")
			h.text(T(loc, field.key))
			h.raw("</dt><dd>")
			h.text(field.value)
			h.raw("</dd>")
		}
		h.raw(`</dl><a class="back"`)
		h.attr("href", routepath.Users)
		h.raw(">")
		h.text(T(loc, "users.detail_back"))
		h.raw("</a></section>")
	})
}
