package history

import (
	"context"
	"sync"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ConfirmationGate holds at most one reservation awaiting cancel
// confirmation.  The cancel request is only sent from Confirm.
type ConfirmationGate struct {
	coord *MutationCoordinator

	mu      sync.Mutex
	target  string
	pending bool
}

// NewConfirmationGate returns a disarmed gate.
func NewConfirmationGate(coord *MutationCoordinator) *ConfirmationGate {
	return &ConfirmationGate{coord: coord}
}

// RequestCancel arms the gate with r and opens the confirmation prompt.
// Nothing is sent to the service.
func (g *ConfirmationGate) RequestCancel(r model.Reservation) error {
	if !r.Editable() {
		return ErrNotCancellable
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending {
		return nil
	}
	g.target = r.PublicID
	return nil
}

// Target returns the armed reservation id and whether the prompt is open.
func (g *ConfirmationGate) Target() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target, g.target != ""
}

// Confirm cancels the armed reservation.  The gate is disarmed once the
// service has answered, whatever the outcome.  A disarmed gate, or one whose
// request is already in flight, makes Confirm a no-op.
func (g *ConfirmationGate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	target := g.target
	if target == "" || g.pending {
		g.mu.Unlock()
		return nil
	}
	g.pending = true
	g.mu.Unlock()

	_, err := g.coord.run(ctx, g.coord.cancelMutation(target, func(bool) { g.disarm() }))
	return err
}

// Decline disarms the gate and closes the prompt without contacting the
// service.
func (g *ConfirmationGate) Decline() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending {
		return
	}
	g.target = ""
}

func (g *ConfirmationGate) disarm() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.target = ""
	g.pending = false
}
