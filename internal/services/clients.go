package services

import (
	"kobogate/internal/config"
	"kobogate/internal/readeck"
)

// ReadeckFactory builds a backend client bound to one caller token.
// Clients are per-request: the bearer token travels with each inbound
// legacy call.
type ReadeckFactory func(token string) readeck.API

func NewReadeckFactory(cfg *config.Config) ReadeckFactory {
	return func(token string) readeck.API {
		return readeck.NewClient(cfg.ReadeckURL, token)
	}
}
