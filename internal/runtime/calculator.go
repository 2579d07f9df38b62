package runtime

import (
	"errors"
	"time"

	"github.com/aretw0/calcgame/pkg/action"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/calcgame/pkg/formula"
)

// Calculation is the outcome of Calculate.
type Calculation struct {
	Source     string
	Value      domain.Number
	Display    string
	Operations int
	Expr       formula.Expr
}

// Press appends text to the screen as one undo step and emits a click.
func (s *Session) Press(text string) {
	var before string
	s.DoAction(action.New("press "+text,
		func(*domain.ActionContext) {
			before = s.screen
			s.SetScreen(s.screen + text)
		},
		func(*domain.ActionContext) {
			s.SetScreen(before)
		},
		action.WithContext(s.context(text)),
	))
	s.Emit(domain.EventClick, s.context(text).WithData(map[string]any{domain.KeyText: text}))
}

// Clear resets the screen as one undo step and emits a click.
func (s *Session) Clear() {
	var before string
	s.DoAction(action.New("clear",
		func(*domain.ActionContext) {
			before = s.screen
			s.SetScreen(domain.DefaultScreen)
		},
		func(*domain.ActionContext) {
			s.SetScreen(before)
		},
		action.WithContext(s.context(domain.ElementClear)),
	))
	s.Emit(domain.EventClick, s.context(domain.ElementClear))
}

// Calculate evaluates the screen. On success the screen shows the result
// and the number of operations is added to the money. A formula that does
// not parse or evaluate resets the screen to "0"; the error is returned
// after the reset has been recorded.
func (s *Session) Calculate() (*Calculation, error) {
	source := s.screen
	calc, err := s.evaluate(source)

	s.fireCalculate(source, calc, err)

	if err != nil {
		s.logger.Debug("calculation failed", "source", source, "err", err)
		var before string
		s.DoAction(action.New("calculate",
			func(*domain.ActionContext) {
				before = s.screen
				s.SetScreen(domain.DefaultScreen)
			},
			func(*domain.ActionContext) {
				s.SetScreen(before)
			},
			action.WithContext(s.context(domain.ElementCalculate)),
		))
		s.Emit(domain.EventClick, s.context(domain.ElementCalculate))
		return nil, err
	}

	reward := domain.Real(float64(calc.Operations))
	previous := s.last
	s.DoAction(action.New("calculate",
		func(*domain.ActionContext) {
			s.AddMoney(reward)
			s.SetScreen(calc.Display)
			s.last = calc.Expr
		},
		func(*domain.ActionContext) {
			s.AddMoney(-reward)
			s.SetScreen(source)
			s.last = previous
		},
		action.WithContext(s.context(domain.ElementCalculate)),
	))

	s.Emit(domain.EventClick, s.context(domain.ElementCalculate))
	s.Emit(domain.EventCalculated, s.context(domain.ElementCalculate).WithData(map[string]any{
		domain.KeySource:     source,
		domain.KeyResult:     calc.Display,
		domain.KeyOperations: calc.Operations,
	}))
	return calc, nil
}

func (s *Session) evaluate(source string) (*Calculation, error) {
	expr, err := s.engine.Parse(source)
	if err != nil {
		return nil, err
	}
	ops, err := formula.CountOperations(expr)
	if err != nil {
		return nil, err
	}
	value, err := s.engine.Evaluate(expr, nil)
	if err != nil {
		return nil, err
	}
	return &Calculation{
		Source:     source,
		Value:      value,
		Display:    value.String(),
		Operations: ops,
		Expr:       expr,
	}, nil
}

func (s *Session) fireCalculate(source string, calc *Calculation, err error) {
	if s.hooks.OnCalculate == nil {
		return
	}
	ev := &domain.CalculationEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCalculate},
		Source:    source,
		Err:       err,
	}
	if calc != nil {
		ev.Result = calc.Display
		ev.Operations = calc.Operations
	}
	s.hooks.OnCalculate(ev)
}

// Undo reverts the most recent undo step. Nothing to undo is reported as
// history.ErrNothingToUndo or history.ErrNotUndoable and changes nothing.
func (s *Session) Undo() error {
	err := s.history.Undo()
	s.changed()
	return err
}

// Redo re-applies the next undo step.
func (s *Session) Redo() error {
	err := s.history.Redo()
	s.changed()
	return err
}

// IsFormulaError reports whether err came from parsing or evaluating the screen.
func IsFormulaError(err error) bool {
	var perr *formula.ParseError
	var eerr *formula.EvalError
	return errors.As(err, &perr) || errors.As(err, &eerr)
}
