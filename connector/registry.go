package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
)

// Registry resolves logical connection names to pools. Pools opened from
// configuration are cached per name and user and closed by Close; pools
// attached by the caller are never closed here.
type Registry struct {
	mu       sync.Mutex
	file     *File
	attached map[string]*sql.DB
	opened   map[string]*sql.DB
}

func NewRegistry(file *File) *Registry {
	if file == nil {
		file = &File{}
	}
	return &Registry{
		file:     file,
		attached: make(map[string]*sql.DB),
		opened:   make(map[string]*sql.DB),
	}
}

// Attach registers an already opened pool under name.
func (r *Registry) Attach(name string, db *sql.DB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attached[name] = db
}

// Driver reports the configured driver of a named connection.
func (r *Registry) Driver(name string) (string, bool) {
	cfg, _, ok := r.file.Lookup(name)
	return cfg.Driver, ok
}

// DB returns the pool for name, opening it on first use. Credentials, when
// set, select a separate pool for that user.
func (r *Registry) DB(ctx context.Context, name string, cred *Credentials) (*sql.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.attached[name]; ok && cred.IsZero() {
		return db, nil
	}

	cfg, resolved, ok := r.file.Lookup(name)
	if !ok {
		return nil, bulkerr.Configurationf("connector", bulkerr.ErrUnknownConnection, "%q", name)
	}
	cfg = cfg.WithCredentials(cred)

	key := resolved + "|" + cfg.Username
	if db, ok := r.opened[key]; ok {
		return db, nil
	}

	provider, err := lookupProvider(cfg.Driver)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	db, err := provider.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connector: open %s: %w", resolved, err)
	}
	if cfg.Retry != nil {
		if err := retryConnect(ctx, *cfg.Retry, db.PingContext); err != nil {
			db.Close()
			return nil, fmt.Errorf("connector: ping %s after %d attempts: %w", resolved, cfg.Retry.MaxRetries, err)
		}
	}

	r.opened[key] = db
	return db, nil
}

// Close closes every pool the registry opened.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for key, db := range r.opened {
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.opened, key)
	}
	return errors.Join(errs...)
}
