package runtime

import (
	"fmt"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
)

// Snapshot captures the persistable state of the session.
func (s *Session) Snapshot() (*domain.Snapshot, error) {
	random, err := s.draws.State()
	if err != nil {
		return nil, err
	}
	snap := &domain.Snapshot{
		SessionID: s.id,
		Screen:    s.screen,
		Money:     s.money,
		Random:    random,
		History:   s.history.Meta(),
	}
	if s.last != nil {
		snap.LastFormula, err = formula.MarshalExpr(s.last)
		if err != nil {
			return nil, fmt.Errorf("failed to encode last formula: %w", err)
		}
	}
	return snap, nil
}

// Restore replaces the session state with snap. History entries come back
// as barriers: their names and the cursor survive but they cannot be undone.
func (s *Session) Restore(snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("restore: %w", domain.ErrSessionNotFound)
	}
	if err := s.draws.Restore(snap.Random); err != nil {
		return err
	}

	var last formula.Expr
	if len(snap.LastFormula) > 0 {
		var err error
		if last, err = formula.UnmarshalExpr(snap.LastFormula); err != nil {
			return err
		}
	}

	s.id = snap.SessionID
	s.screen = snap.Screen
	s.money = snap.Money
	s.last = last
	s.history.Restore(snap.History)

	s.logger.Debug("session restored", "session_id", s.id, "cursor", s.history.Cursor())
	s.changed()
	return nil
}
