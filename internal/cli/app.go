// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Service wiring shared by all ledgerlock commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/morganforge/ledgerlock/internal/audit"
	"github.com/morganforge/ledgerlock/internal/auth"
	"github.com/morganforge/ledgerlock/internal/biometric"
	"github.com/morganforge/ledgerlock/internal/config"
	"github.com/morganforge/ledgerlock/internal/history"
	"github.com/morganforge/ledgerlock/internal/secrets"
	"github.com/morganforge/ledgerlock/internal/session"
)

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// App bundles the services every command handler needs.
type App struct {
	Config     *config.Config
	Store      secrets.Store
	Controller *auth.Controller
	Gate       *biometric.Gate
	Policy     *session.Policy
	Journal    *history.Journal
	Audit      *audit.Logger

	dataDir string
}

// NewApp loads configuration and opens the secret store, journal, and audit
// log. Callers must Close when done.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig wires the application over an explicit configuration.
func NewAppWithConfig(cfg *config.Config) (*App, error) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}

	// A custom data dir keeps its device key alongside the store; the
	// default uses the platform key store.
	var ks secrets.KeyStore
	if cfg.Storage.DataDir != "" {
		ks = secrets.NewFileKeyStore(filepath.Join(dataDir, "device.key"))
	} else {
		ks = secrets.NewKeyStore()
	}

	store, err := secrets.OpenFileStore(filepath.Join(dataDir, "secrets.llsec"), ks)
	if err != nil {
		return nil, fmt.Errorf("failed to open secret store: %w", err)
	}

	auditPath, err := cfg.AuditLogPath()
	if err != nil {
		return nil, err
	}
	auditLog := audit.NewLogger(auditPath, audit.WithEnabled(cfg.Audit.Enabled))

	journal, err := history.Open(filepath.Join(dataDir, "attempts.db"))
	if err != nil {
		// History is observational; a broken journal must not block unlock.
		fmt.Fprintf(os.Stderr, "Warning: attempt journal unavailable: %v\n", err)
		journal = nil
	}

	gate := biometric.NewGate(platformPrompter(), store)
	creds := auth.NewCredentialService(store)
	limiter := auth.NewRateLimiter(
		auth.WithMaxAttempts(cfg.Security.MaxFailedAttempts),
		auth.WithLockoutDuration(cfg.LockoutDuration()),
	)

	opts := []auth.ControllerOption{
		auth.WithAuditLogger(auditLog),
		auth.WithPINLengthBounds(cfg.Security.MinPINLength, cfg.Security.MaxPINLength),
	}
	if journal != nil {
		opts = append(opts, auth.WithAttemptSink(journal))
	}
	controller := auth.NewController(creds, limiter, gate, opts...)

	policy := session.NewPolicy(store, session.WithThreshold(cfg.AutoLockThreshold()))

	return &App{
		Config:     cfg,
		Store:      store,
		Controller: controller,
		Gate:       gate,
		Policy:     policy,
		Journal:    journal,
		Audit:      auditLog,
		dataDir:    dataDir,
	}, nil
}

// platformPrompter returns the biometric prompter for this platform. Desktop
// builds have no biometric bridge, so the gate reports unsupported; mobile
// shells inject their own Prompter through the controller instead.
func platformPrompter() biometric.Prompter {
	return biometric.Unavailable{}
}

// DataDir returns the resolved data directory.
func (a *App) DataDir() string {
	return a.dataDir
}

// Close releases the journal.
func (a *App) Close() {
	if a.Journal != nil {
		a.Journal.Close()
	}
}

// =============================================================================
// SHARED OUTPUT HELPERS
// =============================================================================

// formatRemaining renders a lockout countdown as whole seconds, rounding up
// so the display never reads "0s" while still locked.
func formatRemaining(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%ds", secs)
}
