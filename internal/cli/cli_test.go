package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/logging"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/router"
	"github.com/iliyamo/table-reservation/internal/utils"
)

const testSecret = "cli-test-secret"

// memStore is an in-memory handler.ReservationStore.
type memStore struct {
	mu       sync.Mutex
	rows     []model.Reservation
	capacity map[uint64]int
}

func (s *memStore) List(_ context.Context, p repository.ListParams) (model.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.Reservation
	for _, r := range s.rows {
		if !p.AllUsers && r.UserID != p.UserID {
			continue
		}
		if p.Status != model.StatusAll && r.StatusName != p.Status {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].CreatedAt, matched[j].CreatedAt
		if p.Sort.Key == model.SortReservationTime {
			a, b = matched[i].ReservationTime, matched[j].ReservationTime
		}
		if p.Sort.Descending() {
			return a.After(b)
		}
		return a.Before(b)
	})

	page := model.Page{Content: []model.Reservation{}, TotalElements: int64(len(matched)), Page: p.Page, Size: p.Size}
	page.TotalPages = (len(matched) + p.Size - 1) / p.Size
	for i := p.Page * p.Size; i < len(matched) && i < (p.Page+1)*p.Size; i++ {
		page.Content = append(page.Content, matched[i])
	}
	return page, nil
}

func (s *memStore) UpdateForUser(_ context.Context, publicID string, userID uint64, apply repository.UpdateFunc) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.PublicID != publicID || r.UserID != userID {
			continue
		}
		capacity := 0
		for _, id := range r.TableIDs {
			capacity += s.capacity[id]
		}
		next, err := apply(repository.Locked{Reservation: r, Capacity: capacity})
		if err != nil {
			return model.Reservation{}, err
		}
		next.UpdatedAt = time.Now()
		s.rows[i] = next
		return next, nil
	}
	return model.Reservation{}, repository.ErrNotFound
}

func (s *memStore) get(publicID string) model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.PublicID == publicID {
			return r
		}
	}
	return model.Reservation{}
}

type tableList []model.Table

func (t tableList) ListActive(context.Context) ([]model.Table, error) { return t, nil }

type userList map[string]model.User

func (u userList) GetByEmail(_ context.Context, email string) (model.User, error) {
	if usr, ok := u[email]; ok {
		return usr, nil
	}
	return model.User{}, repository.ErrNotFound
}

func pid(i int) string { return fmt.Sprintf("00000000-0000-4000-8000-%012d", i) }

// seed gives user 7 reservations 1..7, created an hour apart, and user 8 one
// more.  1..5 are PENDING, 6 CANCELLED and 7 COMPLETED.  Odd ids sit at T1
// (2 seats), even ids at T5 (4 seats).
func seed() *memStore {
	base := time.Now().Add(-24 * time.Hour).UTC()
	s := &memStore{capacity: map[uint64]int{1: 2, 5: 4}}
	for i := 1; i <= 8; i++ {
		status := model.StatusPending
		switch i {
		case 6:
			status = model.StatusCancelled
		case 7:
			status = model.StatusCompleted
		}
		table := uint64(1)
		if i%2 == 0 {
			table = 5
		}
		user := uint64(7)
		if i == 8 {
			user = 8
		}
		s.rows = append(s.rows, model.Reservation{
			ID:              uint64(i),
			PublicID:        pid(i),
			UserID:          user,
			ReservationTime: time.Now().Add(time.Duration(48+i) * time.Hour).UTC().Truncate(time.Minute),
			NumberOfPeople:  2,
			Note:            fmt.Sprintf("note %d", i),
			StatusName:      status,
			TableIDs:        []uint64{table},
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		})
	}
	return s
}

func startBackend(t *testing.T, store *memStore) string {
	t.Helper()
	log := logging.Discard()
	hash, err := utils.HashPassword("secret", 4)
	require.NoError(t, err)
	users := userList{"ana@example.com": {ID: 7, Email: "ana@example.com", PasswordHash: hash, Role: model.RoleCustomer, IsActive: true}}
	tables := tableList{{ID: 1, Name: "T1", Capacity: 2}, {ID: 5, Name: "T5", Capacity: 4, Location: "terrace"}}

	e := echo.New()
	router.RegisterAuth(e, handler.NewAuthHandler(config.Config{JWTSecret: testSecret, AccessTTLMin: 15}, users, log))
	router.RegisterPublic(e, handler.NewTableHandler(tables, log), middleware.NewRedisCache(config.CacheConfig{}, nil, log))
	router.RegisterReservations(e, handler.NewReservationHandler(store, nil, log), testSecret,
		middleware.NewTokenBucket(config.RateLimitConfig{}, nil, log))

	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)
	return ts.URL
}

func customerToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, 7, model.RoleCustomer, 15)
	require.NoError(t, err)
	return tok.Token
}

type result struct {
	out, errOut string
	err         error
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"HISTORY_SERVER", "HISTORY_TOKEN", "HISTORY_PAGE_SIZE", "HISTORY_LANG"} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	root := NewRootCmd()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

// run invokes the CLI as the seeded customer with five rows per page.
func run(t *testing.T, url, stdin string, args ...string) result {
	t.Helper()
	base := []string{"--server", url, "--token", customerToken(t), "--page-size", "5"}
	return runCLI(t, stdin, append(base, args...)...)
}

func TestTablesCommand(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := runCLI(t, "", "--server", url, "tables")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "T1")
	assert.Contains(t, res.out, "terrace")
}

func TestListCommand_FirstPage(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := run(t, url, "", "list")
	require.NoError(t, res.err, res.errOut)
	assert.Contains(t, res.out, "Page 1/2")
	assert.Contains(t, res.out, pid(7))
	assert.Contains(t, res.out, pid(3))
	assert.NotContains(t, res.out, pid(2))
	assert.NotContains(t, res.out, pid(8), "other customers are never listed")
	assert.Contains(t, res.out, "Completed")
	assert.Empty(t, res.errOut)
}

func TestListCommand_SecondPageNumbersRows(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := run(t, url, "", "list", "--page", "2")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Page 2/2")
	assert.Regexp(t, `(?m)^6\s+`+pid(2), res.out)
	assert.Regexp(t, `(?m)^7\s+`+pid(1), res.out)
}

func TestListCommand_FilterAndSort(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := run(t, url, "", "list", "--status", "cancelled", "--sort", "time-asc")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, pid(6))
	assert.NotContains(t, res.out, pid(5))
	assert.Contains(t, res.out, "Reservation time, earliest first")
}

func TestListCommand_Empty(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, &memStore{})

	res := run(t, url, "", "--lang", "vi", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Bạn chưa có đặt bàn nào.")
}

func TestListCommand_RejectsBadFlags(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	assert.Error(t, run(t, url, "", "list", "--page", "0").err)
	assert.Error(t, run(t, url, "", "list", "--status", "lost").err)
	assert.Error(t, run(t, url, "", "list", "--sort", "price").err)
}

func TestListCommand_Unauthorized(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := runCLI(t, "", "--server", url, "list")
	require.Error(t, res.err)
	assert.Equal(t, 1, strings.Count(res.errOut, "error: Could not load your reservations."))
}

func TestEditCommand(t *testing.T) {
	isolateEnv(t)
	store := seed()
	url := startBackend(t, store)
	before := store.get(pid(2))

	res := run(t, url, "", "edit", pid(2), "--people", "4", "--note", "window seat")
	require.NoError(t, res.err, res.errOut)
	assert.Contains(t, res.errOut, "ok: Reservation updated.")

	got := store.get(pid(2))
	assert.Equal(t, 4, got.NumberOfPeople)
	assert.Equal(t, "window seat", got.Note)
	assert.Equal(t, model.StatusPending, got.StatusName)
	assert.True(t, got.ReservationTime.Equal(before.ReservationTime))
}

func TestEditCommand_OverCapacity(t *testing.T) {
	isolateEnv(t)
	store := seed()
	url := startBackend(t, store)

	res := run(t, url, "", "edit", pid(3), "--people", "3")
	require.Error(t, res.err)
	assert.Contains(t, res.errOut, "error: Could not update the reservation.")
	assert.Equal(t, 2, store.get(pid(3)).NumberOfPeople)
}

func TestEditCommand_ClosedReservation(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := run(t, url, "", "edit", pid(7), "--note", "x")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "can no longer be edited")
}

func TestCancelCommand_Confirmed(t *testing.T) {
	isolateEnv(t)
	store := seed()
	url := startBackend(t, store)

	res := run(t, url, "y\n", "cancel", pid(1))
	require.NoError(t, res.err, res.errOut)
	assert.Contains(t, res.out, "Are you sure you want to cancel this reservation?")
	assert.Contains(t, res.errOut, "ok: Reservation cancelled.")
	assert.Equal(t, model.StatusCancelled, store.get(pid(1)).StatusName)
}

func TestCancelCommand_Declined(t *testing.T) {
	isolateEnv(t)
	store := seed()
	url := startBackend(t, store)

	res := run(t, url, "n\n", "cancel", pid(1))
	require.NoError(t, res.err)
	assert.Empty(t, res.errOut)
	assert.Equal(t, model.StatusPending, store.get(pid(1)).StatusName)
}

func TestCancelCommand_YesInVietnamese(t *testing.T) {
	isolateEnv(t)
	store := seed()
	url := startBackend(t, store)

	res := run(t, url, "", "--lang", "vi", "cancel", "--yes", pid(4))
	require.NoError(t, res.err)
	assert.Contains(t, res.errOut, "ok: Đã hủy đặt bàn.")
	assert.Equal(t, model.StatusCancelled, store.get(pid(4)).StatusName)
}

func TestCancelCommand_AlreadyCancelled(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := run(t, url, "", "cancel", "--yes", pid(6))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "can no longer be cancelled")
}

func TestCancelCommand_UnknownReservation(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := run(t, url, "", "cancel", "--yes", pid(8))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "not found")
}

func TestBrowseCommand(t *testing.T) {
	isolateEnv(t)
	store := seed()
	url := startBackend(t, store)

	script := strings.Join([]string{
		"n",
		"n",
		"filter pending",
		"cancel 1",
		"y",
		"edit 1",
		"",
		"3",
		"",
		"page 0",
		"bogus",
		"q",
	}, "\n") + "\n"
	res := run(t, url, script, "browse")
	require.NoError(t, res.err, res.errOut)

	assert.Contains(t, res.out, "Page 2/2")
	assert.Contains(t, res.out, "already on the last page")
	assert.Contains(t, res.out, "page must not be negative")
	assert.Contains(t, res.out, `unknown command "bogus"`)
	assert.Contains(t, res.errOut, "ok: Reservation cancelled.")
	assert.Contains(t, res.errOut, "ok: Reservation updated.")

	// Pending, newest first: 5, 4, 3, 2, 1.  Row 1 is cancelled, then row 1
	// of the refreshed page (4, 3, 2, 1) is edited.
	assert.Equal(t, model.StatusCancelled, store.get(pid(5)).StatusName)
	assert.Equal(t, 3, store.get(pid(4)).NumberOfPeople)
	assert.Equal(t, "note 4", store.get(pid(4)).Note)
}

func TestBrowseCommand_EditRetryAndClearNote(t *testing.T) {
	isolateEnv(t)
	store := seed()
	url := startBackend(t, store)

	// Pending, newest first: 5, 4, 3, 2, 1.  Odd ids sit at T1 (2 seats).
	script := strings.Join([]string{
		"filter pending",
		"edit 1",
		"",
		"3",
		"",
		"y",
		"",
		"2",
		"-",
		"edit 3",
		"",
		"5",
		"",
		"n",
		"q",
	}, "\n") + "\n"
	res := run(t, url, script, "browse")
	require.NoError(t, res.err, res.errOut)

	assert.Contains(t, res.out, "try again? [y/N]")
	assert.Contains(t, res.errOut, "error: ")
	assert.Contains(t, res.errOut, "ok: Reservation updated.")

	five := store.get(pid(5))
	assert.Equal(t, 2, five.NumberOfPeople)
	assert.Empty(t, five.Note)

	three := store.get(pid(3))
	assert.Equal(t, 2, three.NumberOfPeople)
	assert.Equal(t, "note 3", three.Note)
}

func TestBrowseCommand_EndOfInput(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := run(t, url, "refresh", "browse")
	require.NoError(t, res.err)
}

func TestLoginCommand(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := runCLI(t, "ana@example.com\nsecret\n", "--server", url, "login")
	require.NoError(t, res.err, res.errOut)
	assert.Contains(t, res.out, "Logged in as ana@example.com (CUSTOMER)")

	path := filepath.Join(os.Getenv("HOME"), ".table-reservation", credentialsFileName)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	token := LoadToken()
	require.NotEmpty(t, token)
	claims, err := utils.ParseAccessToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, claims.Role)

	// The saved token is used when no --token is given.
	res = runCLI(t, "", "--server", url, "list")
	require.NoError(t, res.err, res.errOut)
	assert.Contains(t, res.out, pid(7))
}

func TestLoginCommand_BadPassword(t *testing.T) {
	isolateEnv(t)
	url := startBackend(t, seed())

	res := runCLI(t, "", "--server", url, "login", "--email", "ana@example.com", "--password", "nope")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "401")
	assert.Empty(t, LoadToken())
}

func TestParseTime(t *testing.T) {
	got, err := parseTime("2030-05-01T19:30:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2030, 5, 1, 19, 30, 0, 0, time.UTC)))

	got, err = parseTime("2030-05-01 19:30")
	require.NoError(t, err)
	assert.Equal(t, 19, got.Hour())
	assert.Equal(t, time.Local, got.Location())

	_, err = parseTime("tomorrow")
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	s, err := parseSort("oldest")
	require.NoError(t, err)
	assert.Equal(t, model.Sort{Key: model.SortCreatedAt, Dir: model.Asc}, s)

	s, err = parseSort("reservationTime,desc")
	require.NoError(t, err)
	assert.Equal(t, model.Sort{Key: model.SortReservationTime, Dir: model.Desc}, s)
}
