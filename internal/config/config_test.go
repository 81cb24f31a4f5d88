package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itthad/dairy-bill/internal/layout"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.Server.Port != "12212" {
		t.Errorf("Expected default port 12212, got %q", cfg.Server.Port)
	}
	if cfg.Assets.Timeout != 10*time.Second {
		t.Errorf("Expected 10s asset timeout, got %v", cfg.Assets.Timeout)
	}
	if cfg.Render.ImageScale != 2 || cfg.Render.ImagePageGap != 20 {
		t.Errorf("Unexpected render defaults %+v", cfg.Render)
	}
	if cfg.Letterhead != layout.DefaultLetterhead() {
		t.Errorf("Expected default letterhead, got %+v", cfg.Letterhead)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("Expected wildcard origin, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=9000\nCOMPANY_NAME=Green Valley Dairy\nIMAGE_SCALE=3\nLOGO_URL=https://example.com/logo.png\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("PAYMENT_QR", "true")

	cfg := Load(envFile)

	if cfg.Server.Port != "9100" {
		t.Errorf("Expected environment to win, got port %q", cfg.Server.Port)
	}
	if cfg.Letterhead.Company != "Green Valley Dairy" {
		t.Errorf("Expected company from file, got %q", cfg.Letterhead.Company)
	}
	if cfg.Letterhead.Slogan != layout.DefaultLetterhead().Slogan {
		t.Errorf("Expected default slogan, got %q", cfg.Letterhead.Slogan)
	}
	if cfg.Render.ImageScale != 3 {
		t.Errorf("Expected image scale 3, got %v", cfg.Render.ImageScale)
	}
	if cfg.Assets.LogoURL != "https://example.com/logo.png" {
		t.Errorf("Unexpected logo url %q", cfg.Assets.LogoURL)
	}

	opts := cfg.LayoutOptions()
	if !opts.PaymentQR || opts.InvoiceBarcode {
		t.Errorf("Expected only payment QR enabled, got %+v", opts)
	}
	if opts.Letterhead.Company != "Green Valley Dairy" {
		t.Errorf("Expected letterhead in layout options, got %q", opts.Letterhead.Company)
	}
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORS.AllowedOrigins) != len(want) {
		t.Fatalf("Expected %v, got %v", want, cfg.CORS.AllowedOrigins)
	}
	for i, origin := range want {
		if cfg.CORS.AllowedOrigins[i] != origin {
			t.Errorf("Origin %d: expected %q, got %q", i, origin, cfg.CORS.AllowedOrigins[i])
		}
	}
}
