package scraper

import (
	"errors"

	"github.com/pfrederiksen/espn-lines/internal/game"
	"github.com/pfrederiksen/espn-lines/internal/metrics"
)

// Error kinds returned (wrapped) by the scraper. Match them with errors.Is.
var (
	ErrNetwork        = errors.New("network error")
	ErrHTTPStatus     = errors.New("unexpected status code")
	ErrLayoutMismatch = errors.New("unexpected page layout")
	ErrParse          = errors.New("parse error")
	ErrUnknownLeague  = game.ErrUnknownLeague
)

// failureReason maps an error to its metrics label
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return metrics.ReasonNetwork
	case errors.Is(err, ErrHTTPStatus):
		return metrics.ReasonHTTPStatus
	case errors.Is(err, ErrLayoutMismatch):
		return metrics.ReasonLayout
	case errors.Is(err, ErrParse):
		return metrics.ReasonParse
	default:
		return metrics.ReasonOther
	}
}
