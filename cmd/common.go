/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/valpere/mstranslate/internal/cache"
	"github.com/valpere/mstranslate/internal/config"
	"github.com/valpere/mstranslate/internal/metrics"
	"github.com/valpere/mstranslate/internal/store"
	"github.com/valpere/mstranslate/internal/terminal"
	"github.com/valpere/mstranslate/internal/translator"
	"github.com/valpere/mstranslate/internal/transport"
	"github.com/valpere/mstranslate/internal/widget"
)

type app struct {
	ctrl    *widget.Controller
	view    *terminal.View
	db      *store.Store
	metrics *metrics.Server
}

// newApp wires the widget against the configured service and local cache.
// A cache that cannot be opened is logged and the widget runs without one.
func newApp(view *terminal.View) (*app, error) {
	if strings.TrimSpace(cfg.SubscriptionKey) == "" {
		return nil, fmt.Errorf("subscription key is required (--subscription-key or %s_SUBSCRIPTION_KEY)", config.EnvPrefix)
	}

	a := &app{view: view}

	if cfg.MetricsAddr != "" {
		srv, err := metrics.Serve(cfg.MetricsAddr, logger)
		if err != nil {
			return nil, err
		}
		a.metrics = srv
	}

	var backend cache.Backend
	if !cfg.NoCache && cfg.CachePath != "" {
		db, err := openStore(cfg.CachePath)
		if err != nil {
			logger.WithError(err).Warn("Local cache unavailable, continuing without it")
		} else {
			a.db = db
			backend = db
		}
	}

	client := transport.New(transport.Options{
		Indicator: widget.Indicator{View: view},
		Logger:    logger,
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
	})
	svc := translator.NewMicrosoftService(cfg.SubscriptionKey, cfg.Endpoints, client)

	a.ctrl = widget.New(svc, cache.New(backend, logger), view, cfg.WidgetOptions(), logger)
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Metrics server shutdown failed")
		}
	}
}

func openStore(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// normalizeInput trims a trailing newline and composes the text to NFC so the
// same words typed on different terminals share a cache entry.
func normalizeInput(s string) string {
	return norm.NFC.String(strings.TrimRight(s, "\r\n"))
}

func snippet(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
