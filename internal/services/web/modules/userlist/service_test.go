package userlist

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	apperrors "github.com/louisbranch/userdesk/internal/services/web/platform/errors"
	webtemplates "github.com/louisbranch/userdesk/internal/services/web/templates"
)

const testInstance = "6a0c1b44-91f2-4d3e-8a57-0f2d9c7e1b23"

func mustLoad(t *testing.T, svc service, query listQuery) webtemplates.UserListView {
	t.Helper()
	view, err := svc.load(context.Background(), testInstance, query)
	if err != nil {
		t.Fatalf("load(%+v) error = %v", query, err)
	}
	return view
}

func assertPage(t *testing.T, view webtemplates.UserListView, from, to, total int, prev, next bool) {
	t.Helper()
	if view.RangeFrom != from || view.RangeTo != to || view.Total != total {
		t.Fatalf("range = %d-%d of %d, want %d-%d of %d", view.RangeFrom, view.RangeTo, view.Total, from, to, total)
	}
	if view.PrevEnabled != prev {
		t.Fatalf("PrevEnabled = %v, want %v", view.PrevEnabled, prev)
	}
	if view.NextEnabled != next {
		t.Fatalf("NextEnabled = %v, want %v", view.NextEnabled, next)
	}
	if got, want := len(view.Users), to-from+1; got != want {
		t.Fatalf("users = %d, want %d", got, want)
	}
}

// follow loads the page a rendered prev or next link points at.
func follow(t *testing.T, svc service, view webtemplates.UserListView, next bool) webtemplates.UserListView {
	t.Helper()
	offset := view.PrevOffset
	if next {
		offset = view.NextOffset
	}
	return mustLoad(t, svc, listQuery{Keyword: view.Keyword, Offset: offset})
}

func TestLoadPaginatesTwelveUsers(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(12)}
	svc := newTestService(t, gw)

	first := mustLoad(t, svc, listQuery{})
	assertPage(t, first, 1, 5, 12, false, true)
	second := follow(t, svc, first, true)
	assertPage(t, second, 6, 10, 12, true, true)
	last := follow(t, svc, second, true)
	assertPage(t, last, 11, 12, 12, true, false)
	if last.Users[0].Username != "user11" {
		t.Fatalf("first user on last page = %q, want %q", last.Users[0].Username, "user11")
	}
	back := follow(t, svc, last, false)
	assertPage(t, back, 6, 10, 12, true, true)
	assertPage(t, follow(t, svc, back, false), 1, 5, 12, false, true)

	for _, q := range gw.listCalls() {
		if q.Limit != 5 {
			t.Fatalf("query limit = %d, want 5", q.Limit)
		}
		if q.Offset < 0 || q.Offset%5 != 0 {
			t.Fatalf("query offset = %d, want non-negative multiple of 5", q.Offset)
		}
	}
}

func TestLoadNormalizesOffset(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(12)}
	svc := newTestService(t, gw)

	assertPage(t, mustLoad(t, svc, listQuery{Offset: -5}), 1, 5, 12, false, true)
	assertPage(t, mustLoad(t, svc, listQuery{Offset: 7}), 6, 10, 12, true, true)
	calls := gw.listCalls()
	if calls[0].Offset != 0 || calls[1].Offset != 5 {
		t.Fatalf("offsets = %d and %d, want 0 and 5", calls[0].Offset, calls[1].Offset)
	}
}

func TestLoadSearchStartsAtFirstPage(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(12)}
	svc := newTestService(t, gw)

	mustLoad(t, svc, listQuery{Offset: 5})
	view := mustLoad(t, svc, parseListQuery(url.Values{"keyword": {"user1"}}, 5))

	assertPage(t, view, 1, 4, 4, false, false)
	if view.Keyword != "user1" {
		t.Fatalf("Keyword = %q, want %q", view.Keyword, "user1")
	}
	calls := gw.listCalls()
	last := calls[len(calls)-1]
	if last.Keyword != "user1" || last.Offset != 0 {
		t.Fatalf("last query = %+v, want keyword user1 offset 0", last)
	}
}

func TestLoadSendsKeywordAsTyped(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(3)}
	svc := newTestService(t, gw)

	view := mustLoad(t, svc, parseListQuery(url.Values{"keyword": {"  "}}, 5))
	if view.Keyword != "  " {
		t.Fatalf("Keyword = %q, want whitespace kept", view.Keyword)
	}
	if got := gw.listCalls()[0].Keyword; got != "  " {
		t.Fatalf("query keyword = %q, want %q", got, "  ")
	}
}

func TestParseListQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values url.Values
		want   listQuery
	}{
		{name: "empty", values: url.Values{}, want: listQuery{}},
		{name: "keyword and offset", values: url.Values{"keyword": {"ann"}, "offset": {"10"}}, want: listQuery{Keyword: "ann", Offset: 10}},
		{name: "unaligned offset", values: url.Values{"offset": {"12"}}, want: listQuery{Offset: 10}},
		{name: "negative offset", values: url.Values{"offset": {"-3"}}, want: listQuery{}},
		{name: "garbage offset", values: url.Values{"offset": {"two"}}, want: listQuery{}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := parseListQuery(tc.values, 5); got != tc.want {
				t.Fatalf("parseListQuery() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestLoadRefreshReissuesSameQuery(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(12)}
	svc := newTestService(t, gw)

	query := listQuery{Keyword: "user", Offset: 5}
	first := mustLoad(t, svc, query)
	second := mustLoad(t, svc, query)

	if second.RangeFrom != first.RangeFrom || second.Total != first.Total || len(second.Users) != len(first.Users) {
		t.Fatalf("refreshed view = %+v, want same page as %+v", second, first)
	}
	calls := gw.listCalls()
	if len(calls) != 2 || calls[0] != calls[1] {
		t.Fatalf("queries = %+v, want the same query twice", calls)
	}
}

func TestLoadEmptyResult(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeGateway{})
	view := mustLoad(t, svc, listQuery{})
	if len(view.Users) != 0 || view.Total != 0 {
		t.Fatalf("view = %+v, want empty", view)
	}
	if view.PrevEnabled || view.NextEnabled {
		t.Fatalf("pagination enabled on empty result")
	}
}

func TestLoadFailureKeepsStaleUsers(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(12)}
	svc := newTestService(t, gw)
	mustLoad(t, svc, listQuery{})

	gw.setListErr(apperrors.Wrap(apperrors.KindBadGateway, keyFetchFailed, errors.New("connection refused")))
	view, err := svc.load(context.Background(), testInstance, listQuery{})
	if err == nil {
		t.Fatal("expected load error")
	}
	if view.Error != keyFetchFailed {
		t.Fatalf("Error = %q, want %q", view.Error, keyFetchFailed)
	}
	if len(view.Users) != 5 || view.Total != 12 {
		t.Fatalf("stale data lost: users=%d total=%d", len(view.Users), view.Total)
	}

	gw.setListErr(nil)
	view = mustLoad(t, svc, listQuery{})
	if view.Error != "" {
		t.Fatalf("Error = %q, want cleared", view.Error)
	}
}

func TestLoadWithoutInstanceKeepsNothing(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(12)}
	store := newTestStore(t)
	svc := newService(gw, store, 5, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := svc.load(context.Background(), "", listQuery{}); err != nil {
			t.Fatalf("load() error = %v", err)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("store Len() = %d, want 0", store.Len())
	}
}

func TestLoadShrunkTotalShowsEmptyPage(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(12)}
	svc := newTestService(t, gw)
	mustLoad(t, svc, listQuery{Offset: 10})

	gw.setUsers(seedUsers(3))
	view := mustLoad(t, svc, listQuery{Offset: 10})
	if len(view.Users) != 0 || view.Total != 3 {
		t.Fatalf("view users=%d total=%d, want 0 and 3", len(view.Users), view.Total)
	}
	if view.NextEnabled || !view.PrevEnabled {
		t.Fatalf("pagination = prev %v next %v, want prev only", view.PrevEnabled, view.NextEnabled)
	}
}

func TestLoadDiscardsStaleResponse(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	stale := []User{{ID: 99, Username: "stale", Age: "50"}}
	fresh := []User{{ID: 1, Username: "fresh", Age: "20"}}
	gw := &fakeGateway{listFunc: func(call int, _ PageQuery) (PageResult, error) {
		if call == 1 {
			close(started)
			<-release
			return PageResult{Users: stale, Total: 1}, nil
		}
		return PageResult{Users: fresh, Total: 1}, nil
	}}
	svc := newTestService(t, gw)

	type result struct {
		view webtemplates.UserListView
		err  error
	}
	done := make(chan result, 1)
	go func() {
		view, err := svc.load(context.Background(), testInstance, listQuery{})
		done <- result{view: view, err: err}
	}()
	<-started

	during := mustLoad(t, svc, listQuery{})
	if !during.Loading {
		t.Fatal("expected loading while an earlier fetch is in flight")
	}
	if during.PrevEnabled || during.NextEnabled {
		t.Fatal("expected pagination disabled while loading")
	}

	close(release)
	first := <-done
	if first.err != nil {
		t.Fatalf("first load error = %v", first.err)
	}
	if first.view.Loading {
		t.Fatal("expected loading cleared once all fetches settle")
	}
	if len(first.view.Users) != 1 || first.view.Users[0].Username != "fresh" {
		t.Fatalf("users = %+v, want the newer response", first.view.Users)
	}
}

func TestLoadStateIsPerInstance(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(12)}
	svc := newTestService(t, gw)
	ctx := context.Background()

	_, _ = svc.load(ctx, "instance-a", listQuery{})
	gw.setListErr(errors.New("connection refused"))
	a, _ := svc.load(ctx, "instance-a", listQuery{})
	b, _ := svc.load(ctx, "instance-b", listQuery{})
	if len(a.Users) != 5 || len(b.Users) != 0 {
		t.Fatalf("users = %d and %d, want 5 stale and 0", len(a.Users), len(b.Users))
	}
}

func TestLoadBoundsRememberedPages(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: seedUsers(3)}
	store := newTestStore(t)
	svc := newService(gw, store, 5, time.UTC)

	for i := 0; i < maxCachedPages+5; i++ {
		mustLoad(t, svc, listQuery{Keyword: fmt.Sprintf("k%d", i)})
	}
	st, ok := store.Get(testInstance)
	if !ok {
		t.Fatal("expected instance state")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.pages) != maxCachedPages {
		t.Fatalf("pages = %d, want %d", len(st.pages), maxCachedPages)
	}
	if _, ok := st.pages[listQuery{Keyword: "k0"}]; ok {
		t.Fatal("expected the oldest page to be dropped")
	}
}

func TestLoadFormatsCreatedAt(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{users: []User{{ID: 1, Username: "tz", Age: "30", CreatedAt: "2024-03-05T08:09:10Z"}}}
	svc := newService(gw, newTestStore(t), 5, time.FixedZone("UTC+8", 8*60*60))
	view := mustLoad(t, svc, listQuery{})
	if got := view.Users[0].CreatedAt; got != "2024-03-05 16:09:10" {
		t.Fatalf("CreatedAt = %q, want %q", got, "2024-03-05 16:09:10")
	}
}

func TestFormatCreatedAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "utc suffix", raw: "2024-03-05T08:09:10Z", want: "2024-03-05 08:09:10"},
		{name: "fractional seconds", raw: "2024-03-05T08:09:10.123456Z", want: "2024-03-05 08:09:10"},
		{name: "offset", raw: "2024-03-05T08:09:10+02:00", want: "2024-03-05 06:09:10"},
		{name: "zoneless", raw: "2024-03-05T08:09:10.5", want: "2024-03-05 08:09:10"},
		{name: "unparseable", raw: "yesterday", want: "yesterday"},
		{name: "empty", raw: "", want: ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := formatCreatedAt(tc.raw, time.UTC); got != tc.want {
				t.Fatalf("formatCreatedAt(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		offset int
		limit  int
		want   int
	}{
		{offset: -5, limit: 5, want: 0},
		{offset: 0, limit: 5, want: 0},
		{offset: 7, limit: 5, want: 5},
		{offset: 10, limit: 5, want: 10},
		{offset: 3, limit: 0, want: 0},
	}
	for _, tc := range tests {
		if got := normalizeOffset(tc.offset, tc.limit); got != tc.want {
			t.Fatalf("normalizeOffset(%d, %d) = %d, want %d", tc.offset, tc.limit, got, tc.want)
		}
	}
}

func TestNewServiceDefaults(t *testing.T) {
	t.Parallel()

	svc := newService(nil, newTestStore(t), 0, nil)
	if svc.pageSize != defaultPageSize {
		t.Fatalf("pageSize = %d, want %d", svc.pageSize, defaultPageSize)
	}
	if svc.location != time.Local {
		t.Fatalf("location = %v, want Local", svc.location)
	}
	view, err := svc.load(context.Background(), testInstance, listQuery{})
	if got := apperrors.KindOf(err); got != apperrors.KindUnavailable {
		t.Fatalf("KindOf(err) = %q, want %q", got, apperrors.KindUnavailable)
	}
	if view.Error != keyFetchFailed {
		t.Fatalf("Error = %q, want %q", view.Error, keyFetchFailed)
	}
}

func TestDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rawID     string
		getErr    error
		wantKind  apperrors.Kind
		wantCalls int
	}{
		{name: "found", rawID: "3", wantCalls: 1},
		{name: "non numeric", rawID: "abc", wantKind: apperrors.KindNotFound},
		{name: "zero", rawID: "0", wantKind: apperrors.KindNotFound},
		{name: "negative", rawID: "-4", wantKind: apperrors.KindNotFound},
		{name: "backend not found", rawID: "3", getErr: apperrors.Wrap(apperrors.KindNotFound, keyUserNotFound, errors.New("404")), wantKind: apperrors.KindNotFound, wantCalls: 1},
		{name: "backend failure", rawID: "3", getErr: apperrors.Wrap(apperrors.KindBadGateway, keyFetchFailed, errors.New("503")), wantKind: apperrors.KindBadGateway, wantCalls: 1},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gw := &fakeGateway{users: seedUsers(5), getErr: tc.getErr}
			svc := newTestService(t, gw)

			view, err := svc.detail(context.Background(), tc.rawID)
			if len(gw.getIDs) != tc.wantCalls {
				t.Fatalf("GetUser calls = %d, want %d", len(gw.getIDs), tc.wantCalls)
			}
			if tc.wantKind == "" {
				if err != nil {
					t.Fatalf("detail() error = %v", err)
				}
				if view.User.Username != "user3" || view.User.CreatedAt != "2024-01-03 08:00:00" {
					t.Fatalf("user = %+v", view.User)
				}
				return
			}
			if got := apperrors.KindOf(err); got != tc.wantKind {
				t.Fatalf("KindOf(err) = %q, want %q", got, tc.wantKind)
			}
		})
	}
}
