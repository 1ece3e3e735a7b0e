package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Refresher reloads the displayed list after a successful mutation.
type Refresher interface {
	Reload(ctx context.Context) error
}

// MutationCoordinator sends reservation changes to the service and refreshes
// the list when they are applied.  It does not interpret failures: transport
// errors, rejected transitions and unknown reservations all surface as one
// error notification and a returned error.
type MutationCoordinator struct {
	svc     ReservationService
	refresh Refresher
	notify  Notifier
	t       Translator
	log     *slog.Logger
}

// NewMutationCoordinator returns a coordinator that refreshes through
// refresh, which may be nil.
func NewMutationCoordinator(svc ReservationService, refresh Refresher, notify Notifier, t Translator, log *slog.Logger) *MutationCoordinator {
	return &MutationCoordinator{svc: svc, refresh: refresh, notify: notify, t: t, log: log}
}

type mutation struct {
	publicID   string
	patch      model.Patch
	successKey string
	failureKey string
	// settle runs right after the service answers, before notifications and
	// the refresh.
	settle func(applied bool)
}

// Update applies patch to the reservation identified by publicID.
func (m *MutationCoordinator) Update(ctx context.Context, publicID string, patch model.Patch) (model.Reservation, error) {
	return m.run(ctx, mutation{publicID: publicID, patch: patch, successKey: MsgUpdateSuccess, failureKey: MsgUpdateFail})
}

// Cancel is Update with a patch that only sets the status to CANCELLED.  The
// service decides whether the transition is legal.
func (m *MutationCoordinator) Cancel(ctx context.Context, publicID string) error {
	_, err := m.run(ctx, m.cancelMutation(publicID, nil))
	return err
}

func (m *MutationCoordinator) cancelMutation(publicID string, settle func(bool)) mutation {
	return mutation{
		publicID:   publicID,
		patch:      model.CancelPatch(),
		successKey: MsgCancelSuccess,
		failureKey: MsgCancelFail,
		settle:     settle,
	}
}

func (m *MutationCoordinator) run(ctx context.Context, mu mutation) (model.Reservation, error) {
	updated, err := m.svc.UpdateReservation(ctx, mu.publicID, mu.patch)
	if mu.settle != nil {
		mu.settle(err == nil)
	}
	if err != nil {
		m.log.Warn("reservation update rejected", "public_id", mu.publicID, "error", err)
		m.notify.Notify(KindError, m.t.T(mu.failureKey))
		return model.Reservation{}, fmt.Errorf("update reservation %s: %w", mu.publicID, err)
	}

	m.log.Info("reservation updated", "public_id", mu.publicID, "status", updated.StatusName.String())
	m.notify.Notify(KindSuccess, m.t.T(mu.successKey))
	if m.refresh != nil {
		// The list reports its own failures; the mutation itself succeeded.
		if rerr := m.refresh.Reload(ctx); rerr != nil && !errors.Is(rerr, ErrStale) {
			m.log.Debug("refresh after update failed", "public_id", mu.publicID, "error", rerr)
		}
	}
	return updated, nil
}
