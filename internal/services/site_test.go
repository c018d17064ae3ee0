package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/anzhiyu-c/anheyu-cli/internal/models"
)

func TestSiteService(t *testing.T) {
	ctx := context.Background()

	t.Run("GetSiteConfig", func(t *testing.T) {
		client, calls := newTestServer(t, map[string]any{
			"APP_NAME":         "Gallery",
			"SITE_URL":         "https://example.com/",
			"LOGO_URL_192x192": "/logo-192.png",
			"PAGE_SIZE":        12,
		})

		config, err := NewSiteService(client).GetSiteConfig(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		assertCall(t, lastCall(t, calls), http.MethodGet, "/public/site-config")

		if config.Get(models.KeyAppName) != "Gallery" {
			t.Errorf("unexpected app name %q", config.Get(models.KeyAppName))
		}
		if config.Get(models.KeyLogoURL192) != "/logo-192.png" {
			t.Errorf("unexpected logo %q", config.Get(models.KeyLogoURL192))
		}
		if config.Get("PAGE_SIZE") != "12" {
			t.Errorf("expected numeric value kept as text, got %q", config.Get("PAGE_SIZE"))
		}
	})

	t.Run("SendTestEmail", func(t *testing.T) {
		client, calls := newTestServer(t, nil)

		if err := NewSiteService(client).SendTestEmail(ctx, "admin@example.com"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		call := lastCall(t, calls)
		assertCall(t, call, http.MethodPost, "/settings/test-email")
		if body := decodeBody(t, call.Body); body["to_email"] != "admin@example.com" {
			t.Errorf("unexpected body %v", body)
		}
	})
}
