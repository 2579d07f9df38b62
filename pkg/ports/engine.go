package ports

import (
	"context"

	"github.com/aretw0/calcgame/pkg/domain"
)

// GameService is what the HTTP and MCP adapters drive. Every session operation
// returns the view after the change.
type GameService interface {
	// Create starts a new session and returns its ID.
	Create(ctx context.Context) (string, domain.View, error)

	// View returns the current view of a session.
	View(ctx context.Context, sessionID string) (domain.View, error)

	// Press types text on the calculator.
	Press(ctx context.Context, sessionID, text string) (domain.View, error)

	// Clear resets the screen.
	Clear(ctx context.Context, sessionID string) (domain.View, error)

	// Calculate evaluates the screen. A formula error is returned together
	// with the view showing the reset screen.
	Calculate(ctx context.Context, sessionID string) (domain.View, error)

	// Undo reverts the last step of a session.
	Undo(ctx context.Context, sessionID string) (domain.View, error)

	// Redo re-applies the next step of a session.
	Redo(ctx context.Context, sessionID string) (domain.View, error)

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)

	// Delete ends a session and removes its snapshot.
	Delete(ctx context.Context, sessionID string) error

	// Evaluate computes a formula without touching any session.
	Evaluate(ctx context.Context, source string, vars map[string]domain.Number) (domain.Evaluation, error)

	// Catalog lists the registered operators and functions.
	Catalog() domain.Catalog
}
