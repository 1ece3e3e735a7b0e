package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func newMockView(t *testing.T) (*View, *MockService, *recorder) {
	t.Helper()
	svc := new(MockService)
	rec := &recorder{}
	return NewView(svc, WithNotifier(rec)), svc, rec
}

func TestActivate_InitialPage(t *testing.T) {
	v, svc, rec := newMockView(t)
	page := model.Page{
		Content: []model.Reservation{
			reservation("a", model.StatusPending, 5),
			reservation("b", model.StatusConfirmed, 1),
		},
		TotalPages: 1,
	}
	want := Query{Page: 0, PageSize: 10, Sort: model.Sort{Key: model.SortCreatedAt, Dir: model.Desc}, Status: model.StatusAll}
	svc.On("ListMine", mock.Anything, want).Return(page, nil).Once()
	svc.On("ListTables", mock.Anything).Return(testTables, nil).Once()

	require.NoError(t, v.Activate(context.Background()))

	rows := v.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Reservation.PublicID)
	assert.Equal(t, "T5", rows[0].Tables)
	assert.Equal(t, "b", rows[1].Reservation.PublicID)
	assert.Equal(t, PageInfo{Current: 0, Total: 1}, v.Pagination())
	assert.False(t, v.List.Loading())
	assert.Empty(t, rec.all())
	svc.AssertExpectations(t)
}

func TestSetFilter_ResetsPageAndKeepsSort(t *testing.T) {
	v, svc, _ := newMockView(t)
	svc.On("ListMine", mock.Anything, mock.Anything).Return(model.Page{TotalPages: 5}, nil)
	svc.On("ListTables", mock.Anything).Return(testTables, nil)
	ctx := context.Background()

	require.NoError(t, v.Activate(ctx))
	require.NoError(t, v.List.SetPage(ctx, 2))
	require.Equal(t, 2, v.List.Query().Page)

	require.NoError(t, v.List.SetFilter(ctx, model.StatusConfirmed))

	q := v.List.Query()
	assert.Equal(t, 0, q.Page)
	assert.Equal(t, model.StatusConfirmed, q.Status)
	assert.Equal(t, model.DefaultSort, q.Sort)

	queries := svc.listQueries()
	require.Len(t, queries, 3)
	assert.Equal(t, Query{Page: 0, PageSize: 10, Sort: model.DefaultSort, Status: model.StatusConfirmed}, queries[2])
}

func TestSetSort_ResetsPage(t *testing.T) {
	v, svc, _ := newMockView(t)
	svc.On("ListMine", mock.Anything, mock.Anything).Return(model.Page{TotalPages: 5}, nil)
	svc.On("ListTables", mock.Anything).Return(testTables, nil)
	ctx := context.Background()

	require.NoError(t, v.Activate(ctx))
	require.NoError(t, v.List.SetFilter(ctx, model.StatusPending))
	require.NoError(t, v.List.SetPage(ctx, 3))

	byTime := model.Sort{Key: model.SortReservationTime, Dir: model.Asc}
	require.NoError(t, v.List.SetSort(ctx, byTime))

	q := v.List.Query()
	assert.Equal(t, 0, q.Page)
	assert.Equal(t, byTime, q.Sort)
	assert.Equal(t, model.StatusPending, q.Status)
}

func TestSetPage_KeepsFilterAndSort(t *testing.T) {
	v, svc, _ := newMockView(t)
	svc.On("ListMine", mock.Anything, mock.Anything).Return(model.Page{TotalPages: 5}, nil)
	svc.On("ListTables", mock.Anything).Return(testTables, nil)
	ctx := context.Background()
	byTime := model.Sort{Key: model.SortReservationTime, Dir: model.Desc}

	require.NoError(t, v.Activate(ctx))
	require.NoError(t, v.List.SetFilter(ctx, model.StatusCancelled))
	require.NoError(t, v.List.SetSort(ctx, byTime))

	for _, p := range []int{1, 4, 0} {
		require.NoError(t, v.List.SetPage(ctx, p))
		q := v.List.Query()
		assert.Equal(t, p, q.Page)
		assert.Equal(t, model.StatusCancelled, q.Status)
		assert.Equal(t, byTime, q.Sort)
	}
}

func TestSetPage_RejectsNegative(t *testing.T) {
	v, svc, _ := newMockView(t)

	assert.ErrorIs(t, v.List.SetPage(context.Background(), -1), ErrInvalidPage)
	svc.AssertNotCalled(t, "ListMine", mock.Anything, mock.Anything)
}

func TestLoad_FailureKeepsPreviousList(t *testing.T) {
	v, svc, rec := newMockView(t)
	ctx := context.Background()
	first := model.Page{Content: []model.Reservation{reservation("a", model.StatusPending, 1)}, TotalPages: 3}
	svc.On("ListMine", mock.Anything, mock.Anything).Return(first, nil).Once()
	svc.On("ListTables", mock.Anything).Return(testTables, nil)
	require.NoError(t, v.Activate(ctx))

	svc.On("ListMine", mock.Anything, mock.Anything).Return(model.Page{}, errTransport).Once()
	err := v.List.SetPage(ctx, 1)
	require.ErrorIs(t, err, errTransport)

	snap := v.List.Snapshot()
	assert.False(t, snap.Loading)
	require.Len(t, snap.Content, 1)
	assert.Equal(t, "a", snap.Content[0].PublicID)
	assert.Equal(t, 3, snap.TotalPages)
	assert.Equal(t, []note{{kind: KindError, message: MsgErrorFetching}}, rec.all())
}

func TestLoad_InitialFailureLeavesEmptyList(t *testing.T) {
	v, svc, rec := newMockView(t)
	svc.On("ListMine", mock.Anything, mock.Anything).Return(model.Page{}, errTransport)
	svc.On("ListTables", mock.Anything).Return(testTables, nil)

	require.Error(t, v.Activate(context.Background()))

	assert.Empty(t, v.Rows())
	assert.False(t, v.List.Loading())
	assert.Len(t, rec.all(), 1)
}

func TestLoad_TableFailurePublishesNothing(t *testing.T) {
	v, svc, rec := newMockView(t)
	page := model.Page{Content: []model.Reservation{reservation("a", model.StatusPending, 1)}, TotalPages: 1}
	svc.On("ListMine", mock.Anything, mock.Anything).Return(page, nil)
	svc.On("ListTables", mock.Anything).Return(nil, errTransport).Once()

	require.Error(t, v.Activate(context.Background()))
	assert.Empty(t, v.List.Snapshot().Content)
	assert.Equal(t, 0, v.Pagination().Total)
	assert.Len(t, rec.all(), 1)
	assert.False(t, v.Catalog.Loaded())

	// The catalog was not cached, so the next load retries it.
	svc.On("ListTables", mock.Anything).Return(testTables, nil).Once()
	require.NoError(t, v.List.Reload(context.Background()))
	assert.Len(t, v.List.Snapshot().Content, 1)
	svc.AssertNumberOfCalls(t, "ListTables", 2)
}

func TestLoad_CatalogFetchedOncePerActivation(t *testing.T) {
	svc := &memService{tables: testTables, reservations: []model.Reservation{reservation("a", model.StatusPending, 9)}}
	v := NewView(svc)
	ctx := context.Background()

	require.NoError(t, v.Activate(ctx))
	require.NoError(t, v.List.SetFilter(ctx, model.StatusPending))
	require.NoError(t, v.List.SetPage(ctx, 0))
	assert.Equal(t, 1, svc.tableCalls)

	require.NoError(t, v.Activate(ctx))
	assert.Equal(t, 2, svc.tableCalls)
	assert.Equal(t, "Terrace", v.Rows()[0].Tables)
}

// blockingService answers ListMine for page 0 only after release is closed.
type blockingService struct {
	memService
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingService) ListMine(ctx context.Context, q Query) (model.Page, error) {
	if q.Page == 0 {
		s.once.Do(func() { close(s.started) })
		<-s.release
		return model.Page{Content: []model.Reservation{reservation("stale", model.StatusPending)}, TotalPages: 2}, nil
	}
	return model.Page{Content: []model.Reservation{reservation("fresh", model.StatusPending)}, TotalPages: 2}, nil
}

func TestLoad_DiscardsSupersededResponse(t *testing.T) {
	svc := &blockingService{
		memService: memService{tables: testTables},
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	v := NewView(svc)
	ctx := context.Background()

	firstErr := make(chan error, 1)
	go func() { firstErr <- v.Activate(ctx) }()
	<-svc.started
	assert.True(t, v.List.Loading())

	require.NoError(t, v.List.SetPage(ctx, 1))
	assert.True(t, v.List.Loading(), "older load still in flight")

	close(svc.release)
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrStale)
	case <-time.After(2 * time.Second):
		t.Fatal("first load did not finish")
	}

	snap := v.List.Snapshot()
	require.Len(t, snap.Content, 1)
	assert.Equal(t, "fresh", snap.Content[0].PublicID)
	assert.Equal(t, 1, snap.Query.Page)
	assert.False(t, snap.Loading)
}

func TestLoad_ContentAndTotalPagesReplacedTogether(t *testing.T) {
	v, svc, _ := newMockView(t)
	ctx := context.Background()
	svc.On("ListTables", mock.Anything).Return(testTables, nil)
	svc.On("ListMine", mock.Anything, mock.Anything).Return(model.Page{
		Content:    []model.Reservation{reservation("a", model.StatusPending), reservation("b", model.StatusPending)},
		TotalPages: 4,
	}, nil).Once()
	require.NoError(t, v.Activate(ctx))

	svc.On("ListMine", mock.Anything, mock.Anything).Return(model.Page{Content: nil, TotalPages: 0}, nil).Once()
	require.NoError(t, v.List.SetFilter(ctx, model.StatusCompleted))

	snap := v.List.Snapshot()
	assert.Empty(t, snap.Content)
	assert.NotNil(t, snap.Content)
	assert.Equal(t, 0, snap.TotalPages)
}
