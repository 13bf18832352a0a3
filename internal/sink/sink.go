package sink

import (
	"context"

	"github.com/pfrederiksen/espn-lines/internal/game"
)

// Header names the row columns in order
var Header = []string{"Team", "Prediction", "Money Line", "Game ID", "League"}

// Sink defines the interface for appending game rows to a store
type Sink interface {
	// Append adds rows after the existing content
	Append(ctx context.Context, rows []game.Row) error
	// Name identifies the sink in logs and metrics
	Name() string
}
