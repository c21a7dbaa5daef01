package handlers

import (
	"database/sql"

	"github.com/devalvin/storefront-golang/internal/config"
)

// Handlers holds all dependencies for the HTTP handlers.
// The DB handle is injected here rather than living as package state, so
// tests can run the full handler stack against their own database.
type Handlers struct {
	DB  *sql.DB
	Cfg *config.Config
}
