package server

import (
	"log/slog"

	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/system/eventd/storage"
)

// Spec holds what a server runs with.
// Config contains the serializable settings loaded from a file.
type Spec struct {
	Config  *Config
	Context *event.Context
	Storage *storage.Storage
	Log     *slog.Logger
}
