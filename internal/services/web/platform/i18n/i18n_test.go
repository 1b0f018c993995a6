package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	webi18n "github.com/louisbranch/userdesk/internal/services/web/i18n"
)

func TestResolveLocalizerPersistsQueryLanguage(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?lang=en-US", nil)
	loc, lang := ResolveLocalizer(rr, req, nil)
	if lang != "en-US" {
		t.Fatalf("lang = %q, want en-US", lang)
	}
	if got := loc.Sprintf("users.empty"); got != "No users yet" {
		t.Fatalf("users.empty = %q", got)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != webi18n.LangCookieName {
		t.Fatalf("expected language cookie, got %+v", cookies)
	}
}

func TestResolveLocalizerDefaultsToChinese(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	loc, lang := ResolveLocalizer(rr, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if lang != "zh-CN" {
		t.Fatalf("lang = %q, want zh-CN", lang)
	}
	if got := loc.Sprintf("users.empty"); got != "暂无用户数据" {
		t.Fatalf("users.empty = %q", got)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookie without explicit lang")
	}
}

func TestResolveTagUsesResolver(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ResolveTag(req, func(*http.Request) string { return "en" }); got.String() != "en-US" {
		t.Fatalf("ResolveTag() = %s, want en-US", got)
	}
	if got := ResolveTag(req, func(*http.Request) string { return "" }); got.String() != "zh-CN" {
		t.Fatalf("ResolveTag(blank) = %s, want zh-CN", got)
	}
}

func TestMessageFallsBackForUnknownKeys(t *testing.T) {
	t.Parallel()

	loc := webi18n.Printer(webi18n.Default())
	if got := Message(loc, "registration.success", "x"); got != "创建成功！" {
		t.Fatalf("Message(known) = %q", got)
	}
	if got := Message(loc, "missing.key", "fallback"); got != "fallback" {
		t.Fatalf("Message(unknown) = %q", got)
	}
	if got := Message(nil, "registration.success", "fallback"); got != "fallback" {
		t.Fatalf("Message(nil) = %q", got)
	}
}
