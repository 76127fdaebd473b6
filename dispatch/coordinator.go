package dispatch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/openrms/records-api/models"
)

// Dispatcher is the surface the API layer calls to mutate call and unit
// state. Direct status writes outside the coordinator are forbidden.
type Dispatcher interface {
	Dispatch(ctx context.Context, callID string, unitIDs []string) (*models.Call, error)
	Resolve(ctx context.Context, callID string) (*models.Call, error)
}

// Coordinator orchestrates cross-entity transitions between the call ledger
// and the unit registry. It is the one place enforcing the global invariant
// that responding units are exactly those assigned to non-resolved calls.
type Coordinator struct {
	ledger   CallLedger
	units    UnitRegistry
	notifier Notifier
}

// NewCoordinator wires a coordinator over the given ledger and registry.
// A nil notifier disables change events.
func NewCoordinator(ledger CallLedger, units UnitRegistry, notifier Notifier) *Coordinator {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Coordinator{
		ledger:   ledger,
		units:    units,
		notifier: notifier,
	}
}

// Dispatch assigns the given units to a pending call. Either the units are
// marked responding and the call dispatched, or nothing changes: if the call
// transition is lost to a concurrent writer after the units were marked, the
// units are released again and the ledger's error is surfaced.
func (c *Coordinator) Dispatch(ctx context.Context, callID string, unitIDs []string) (*models.Call, error) {
	call, err := c.ledger.GetByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if call.Details.Status != models.CallStatusPending {
		return nil, &InvalidTransitionError{
			CallID: callID,
			From:   call.Details.Status,
			To:     models.CallStatusDispatched,
		}
	}

	unitIDs = dedupe(unitIDs)
	if len(unitIDs) == 0 {
		return nil, &EmptySelectionError{}
	}

	if err := c.units.MarkResponding(ctx, unitIDs, call.Details.Location); err != nil {
		return nil, err
	}

	dispatched, err := c.ledger.SetDispatched(ctx, callID, unitIDs)
	if err != nil {
		// Compensate only when the transition definitively lost a race. A
		// transient failure may mean the write committed and the ack was
		// lost; releasing then would strand assigned units, so the caller
		// retries the whole operation instead.
		var transErr *InvalidTransitionError
		if errors.As(err, &transErr) {
			if relErr := c.units.Release(ctx, unitIDs, LocationReturning); relErr != nil {
				zap.S().Errorw("failed to release units while rolling back dispatch",
					"callId", callID,
					"unitIds", unitIDs,
					"error", relErr,
				)
			}
		}
		return nil, err
	}

	c.notifier.Publish(Event{EntityType: EntityCall, ID: dispatched.ID, NewState: dispatched})
	for _, unitID := range unitIDs {
		c.notifier.Publish(Event{
			EntityType: EntityUnit,
			ID:         unitID,
			NewState: map[string]string{
				"status":   models.UnitStatusResponding,
				"location": call.Details.Location,
			},
		})
	}
	return dispatched, nil
}

// Resolve closes a dispatched call and releases its assigned units back to
// available. Releasing is idempotent per unit, so a retry after a partial
// failure does not double-release.
func (c *Coordinator) Resolve(ctx context.Context, callID string) (*models.Call, error) {
	if _, err := c.ledger.GetByID(ctx, callID); err != nil {
		return nil, err
	}

	resolved, unitIDs, err := c.ledger.SetResolved(ctx, callID)
	if err != nil {
		return nil, err
	}

	if len(unitIDs) > 0 {
		if err := c.units.Release(ctx, unitIDs, LocationReturning); err != nil {
			// The call is resolved but the units may still show responding.
			// The assignment audit job reconciles stragglers.
			zap.S().Errorw("failed to release units for resolved call",
				"callId", callID,
				"unitIds", unitIDs,
				"error", err,
			)
			return nil, err
		}
	}

	c.notifier.Publish(Event{EntityType: EntityCall, ID: resolved.ID, NewState: resolved})
	for _, unitID := range unitIDs {
		c.notifier.Publish(Event{
			EntityType: EntityUnit,
			ID:         unitID,
			NewState: map[string]string{
				"status":   models.UnitStatusAvailable,
				"location": LocationReturning,
			},
		})
	}
	return resolved, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
