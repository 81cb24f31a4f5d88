// Package config loads service settings from a .env file and the environment
package config

import (
	"log"
	"strings"
	"time"

	"github.com/itthad/dairy-bill/internal/layout"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Assets     AssetsConfig
	Render     RenderConfig
	Letterhead layout.Letterhead
	CORS       CORSConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type AssetsConfig struct {
	LogoURL     string
	TemplateURL string
	Timeout     time.Duration
}

type RenderConfig struct {
	ImageScale     float64
	ImagePageGap   float64
	PaymentQR      bool
	InvoiceBarcode bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads envFile when it exists, then the environment. Environment
// variables win over the file.
func Load(envFile string) *Config {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Printf("config: %s not loaded, using environment variables: %v", envFile, err)
	}

	lh := layout.DefaultLetterhead()

	v.SetDefault("SERVER_PORT", "12212")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOGO_URL", "")
	v.SetDefault("TEMPLATE_URL", "")
	v.SetDefault("ASSET_TIMEOUT_SECONDS", 10)
	v.SetDefault("IMAGE_SCALE", 2.0)
	v.SetDefault("IMAGE_PAGE_GAP", 20.0)
	v.SetDefault("PAYMENT_QR", false)
	v.SetDefault("INVOICE_BARCODE", false)
	v.SetDefault("COMPANY_NAME", lh.Company)
	v.SetDefault("COMPANY_ADDRESS", lh.Address)
	v.SetDefault("COMPANY_CONTACT", lh.Contact)
	v.SetDefault("COMPANY_SLOGAN", lh.Slogan)
	v.SetDefault("ACCOUNT_TITLE", lh.AccountTitle)
	v.SetDefault("ACCOUNT_BANK", lh.AccountBank)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	lh.Company = v.GetString("COMPANY_NAME")
	lh.Address = v.GetString("COMPANY_ADDRESS")
	lh.Contact = v.GetString("COMPANY_CONTACT")
	lh.Slogan = v.GetString("COMPANY_SLOGAN")
	lh.AccountTitle = v.GetString("ACCOUNT_TITLE")
	lh.AccountBank = v.GetString("ACCOUNT_BANK")

	return &Config{
		Server: ServerConfig{
			Port:    v.GetString("SERVER_PORT"),
			GinMode: v.GetString("GIN_MODE"),
		},
		Assets: AssetsConfig{
			LogoURL:     v.GetString("LOGO_URL"),
			TemplateURL: v.GetString("TEMPLATE_URL"),
			Timeout:     time.Duration(v.GetInt("ASSET_TIMEOUT_SECONDS")) * time.Second,
		},
		Render: RenderConfig{
			ImageScale:     v.GetFloat64("IMAGE_SCALE"),
			ImagePageGap:   v.GetFloat64("IMAGE_PAGE_GAP"),
			PaymentQR:      v.GetBool("PAYMENT_QR"),
			InvoiceBarcode: v.GetBool("INVOICE_BARCODE"),
		},
		Letterhead: lh,
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

// LayoutOptions returns the layout settings carried by the config
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		Paper:          layout.A4,
		Letterhead:     c.Letterhead,
		InvoiceBarcode: c.Render.InvoiceBarcode,
		PaymentQR:      c.Render.PaymentQR,
	}
}

// splitList accepts comma or space separated values
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}
