// Package app wires configuration, the remote client, and the local cache
// into the services that commands consume.
package app

import (
	"time"

	"github.com/brandonszeto/todo/internal/core/config"
	"github.com/brandonszeto/todo/internal/core/kv"
	"github.com/brandonszeto/todo/internal/data/db"
	"github.com/rs/zerolog"
)

// App is the central entry point for all todo operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks *TaskService

	Config *config.Config
	DB     *db.DB
	KV     kv.KV
	Now    func() time.Time
}

// NewApp constructs an App from explicit dependencies. A nil now uses
// time.Now.
func NewApp(cfg *config.Config, api TaskAPI, database *db.DB, store kv.KV, now func() time.Time, log zerolog.Logger) *App {
	if now == nil {
		now = time.Now
	}
	return &App{
		Tasks:  NewTaskService(api, store, cfg.Location(), now, log),
		Config: cfg,
		DB:     database,
		KV:     store,
		Now:    now,
	}
}
