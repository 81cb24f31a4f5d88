// Package assets loads the optional logo and background template for bills
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/itthad/dairy-bill/internal/layout"
)

const maxAssetSize = 10 << 20

// Provider fetches assets from an http(s) URL or a file path. Every failure
// is logged and reported as a missing asset.
type Provider struct {
	LogoSource     string
	TemplateSource string

	Client  *http.Client
	Timeout time.Duration // Per fetch; zero means only the caller's context applies
}

// New creates a provider. Empty sources disable that asset.
func New(logoSource, templateSource string, timeout time.Duration) *Provider {
	return &Provider{
		LogoSource:     logoSource,
		TemplateSource: templateSource,
		Client:         http.DefaultClient,
		Timeout:        timeout,
	}
}

// Logo loads and decodes the logo image
func (p *Provider) Logo(ctx context.Context) (*layout.Image, bool) {
	if p.LogoSource == "" {
		return nil, false
	}

	data, err := p.load(ctx, p.LogoSource)
	if err != nil {
		log.Printf("assets: logo unavailable: %v", err)
		return nil, false
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		log.Printf("assets: failed to decode logo %s: %v", p.LogoSource, err)
		return nil, false
	}

	logo, err := layout.NewImage("logo", img)
	if err != nil {
		log.Printf("assets: %v", err)
		return nil, false
	}

	return logo, true
}

// Template loads the background PDF bytes
func (p *Provider) Template(ctx context.Context) ([]byte, bool) {
	if p.TemplateSource == "" {
		return nil, false
	}

	data, err := p.load(ctx, p.TemplateSource)
	if err != nil {
		log.Printf("assets: template unavailable: %v", err)
		return nil, false
	}
	if len(data) == 0 {
		log.Printf("assets: template %s is empty", p.TemplateSource)
		return nil, false
	}

	return data, true
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func (p *Provider) load(ctx context.Context, source string) ([]byte, error) {
	if isURL(source) {
		return p.fetch(ctx, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return data, nil
}

func (p *Provider) fetch(ctx context.Context, url string) ([]byte, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	return data, nil
}

var _ layout.AssetProvider = (*Provider)(nil)
