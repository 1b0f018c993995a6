package userlist

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/louisbranch/userdesk/internal/services/web/platform/errors"
	"github.com/louisbranch/userdesk/internal/services/web/platform/viewstate"
	"github.com/louisbranch/userdesk/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/userdesk/internal/services/web/templates"
)

const (
	defaultPageSize = 5
	createdAtLayout = "2006-01-02 15:04:05"
)

// maxCachedPages bounds the pages one view instance remembers.
const maxCachedPages = 20

// listQuery is the page a listing URL asks for.
type listQuery struct {
	Keyword string
	Offset  int
}

// parseListQuery reads the keyword and offset from a listing URL. The
// keyword is kept as typed; the offset is normalized to a page boundary.
func parseListQuery(values url.Values, limit int) listQuery {
	offset, err := strconv.Atoi(strings.TrimSpace(values.Get(routepath.ParamOffset)))
	if err != nil {
		offset = 0
	}
	return listQuery{
		Keyword: values.Get(routepath.ParamKeyword),
		Offset:  normalizeOffset(offset, limit),
	}
}

// pageState is the last known result of one query. Fetches are fenced by
// sequence number: only the latest issued fetch may replace users and total.
type pageState struct {
	users    []User
	total    int
	errKey   string
	inFlight int
	issued   uint64
	applied  uint64
	lastUsed uint64
}

// listState is one view instance's remembered pages.
type listState struct {
	mu    sync.Mutex
	pages map[listQuery]*pageState
	tick  uint64
}

func (st *listState) page(query listQuery) *pageState {
	if st.pages == nil {
		st.pages = make(map[listQuery]*pageState)
	}
	st.tick++
	page, ok := st.pages[query]
	if !ok {
		page = &pageState{}
		st.pages[query] = page
	}
	page.lastUsed = st.tick
	return page
}

// pruneLocked drops the least recently used idle pages beyond the cap.
func (st *listState) pruneLocked() {
	for len(st.pages) > maxCachedPages {
		var (
			oldest  listQuery
			minUsed uint64
			found   bool
		)
		for query, page := range st.pages {
			if page.inFlight > 0 {
				continue
			}
			if !found || page.lastUsed < minUsed {
				oldest, minUsed, found = query, page.lastUsed, true
			}
		}
		if !found {
			return
		}
		delete(st.pages, oldest)
	}
}

type service struct {
	gateway  UserListGateway
	states   *viewstate.Store[listState]
	pageSize int
	location *time.Location
}

func newService(gateway UserListGateway, states *viewstate.Store[listState], pageSize int, location *time.Location) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if location == nil {
		location = time.Local
	}
	return service{gateway: gateway, states: states, pageSize: pageSize, location: location}
}

// load fetches the page query names and returns the render model. Pages are
// remembered per view instance so a failed fetch keeps that page's previous
// users on screen; an empty instance id uses throwaway state. The returned
// error is for logging only.
func (s service) load(ctx context.Context, instanceID string, query listQuery) (webtemplates.UserListView, error) {
	if s.states == nil {
		return webtemplates.UserListView{Error: keyFetchFailed}, apperrors.EK(apperrors.KindUnavailable, keyFetchFailed, "listing state is not configured")
	}
	query.Offset = normalizeOffset(query.Offset, s.pageSize)
	st := &listState{}
	if instanceID != "" {
		st, _ = s.states.GetOrCreate(instanceID)
	}

	st.mu.Lock()
	page := st.page(query)
	page.issued++
	seq := page.issued
	page.inFlight++
	st.mu.Unlock()

	result, err := s.gateway.ListUsers(ctx, PageQuery{Keyword: query.Keyword, Limit: s.pageSize, Offset: query.Offset})

	st.mu.Lock()
	defer st.mu.Unlock()
	page.inFlight--
	if seq == page.issued && seq > page.applied {
		page.applied = seq
		if err != nil {
			page.errKey = keyFetchFailed
		} else {
			page.users = result.Users
			if page.users == nil {
				page.users = []User{}
			}
			page.total = result.Total
			page.errKey = ""
		}
	}
	st.pruneLocked()
	return s.viewLocked(query, page), err
}

func (s service) viewLocked(query listQuery, page *pageState) webtemplates.UserListView {
	rows := make([]webtemplates.UserRow, 0, len(page.users))
	for _, u := range page.users {
		rows = append(rows, webtemplates.UserRow{
			ID:        u.ID,
			Username:  u.Username,
			Age:       u.Age,
			CreatedAt: formatCreatedAt(u.CreatedAt, s.location),
		})
	}
	return webtemplates.UserListView{
		Keyword:     query.Keyword,
		Offset:      query.Offset,
		PrevOffset:  max(query.Offset-s.pageSize, 0),
		NextOffset:  query.Offset + s.pageSize,
		Users:       rows,
		Total:       page.total,
		RangeFrom:   query.Offset + 1,
		RangeTo:     min(query.Offset+s.pageSize, page.total),
		PrevEnabled: prevEnabled(query.Offset, s.pageSize),
		NextEnabled: nextEnabled(query.Offset, s.pageSize, page.total),
		Loading:     page.inFlight > 0,
		Error:       page.errKey,
	}
}

// detail loads one user by the raw path id. Ids that are not positive
// integers are reported as not found without calling the backend.
func (s service) detail(ctx context.Context, rawID string) (webtemplates.UserDetailView, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		return webtemplates.UserDetailView{}, apperrors.EK(apperrors.KindNotFound, keyUserNotFound, "user not found")
	}
	u, err := s.gateway.GetUser(ctx, id)
	if err != nil {
		return webtemplates.UserDetailView{}, err
	}
	return webtemplates.UserDetailView{User: webtemplates.UserRow{
		ID:        u.ID,
		Username:  u.Username,
		Age:       u.Age,
		CreatedAt: formatCreatedAt(u.CreatedAt, s.location),
	}}, nil
}

func prevEnabled(offset int, limit int) bool {
	return offset-limit >= 0
}

func nextEnabled(offset int, limit int, total int) bool {
	return offset+limit < total
}

// normalizeOffset clamps negatives to zero and rounds down to a page boundary.
func normalizeOffset(offset int, limit int) int {
	if offset < 0 || limit <= 0 {
		return 0
	}
	return offset - offset%limit
}

var createdAtInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// formatCreatedAt renders an API timestamp in loc. Zone-less timestamps are
// read as UTC; anything unparseable is returned unchanged.
func formatCreatedAt(raw string, loc *time.Location) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return raw
	}
	for _, layout := range createdAtInputLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.In(loc).Format(createdAtLayout)
		}
	}
	return raw
}
