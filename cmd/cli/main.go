package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/itthad/dairy-bill/internal/assets"
	"github.com/itthad/dairy-bill/internal/layout"
	"github.com/itthad/dairy-bill/internal/renderer"
	"github.com/itthad/dairy-bill/internal/slip"
	"github.com/itthad/dairy-bill/pkg/billformat"
	"github.com/urfave/cli/v2"
)

// Version is set during build via ldflags
var Version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	inputFlags := []cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "bill JSON file", Required: true},
		&cli.StringFlag{Name: "logo", Usage: "logo image path or URL"},
		&cli.StringFlag{Name: "template", Usage: "background PDF path or URL for page 1"},
		&cli.BoolFlag{Name: "barcode", Usage: "print the invoice number as a barcode"},
		&cli.BoolFlag{Name: "qr", Usage: "print a payment QR code under the footer"},
	}
	outputFlags := append([]cli.Flag{
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory", Value: "."},
	}, inputFlags...)
	imageFlags := append([]cli.Flag{
		&cli.Float64Flag{Name: "scale", Usage: "pixels per point", Value: 2},
		&cli.Float64Flag{Name: "gap", Usage: "space between pages in points", Value: 20},
	}, outputFlags...)

	return &cli.App{
		Name:    "dairy-bill",
		Usage:   "generate dairy bills as PDF or PNG",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "generate on a running server instead of locally",
				EnvVars: []string{"DAIRY_BILL_SERVER"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "pdf",
				Usage:  "write the bill as a PDF",
				Flags:  outputFlags,
				Action: generateAction("pdf"),
			},
			{
				Name:   "image",
				Usage:  "write the bill as one PNG with pages stacked",
				Flags:  imageFlags,
				Action: generateAction("png"),
			},
			{
				Name:   "preview",
				Usage:  "print the bill rows and totals as JSON",
				Flags:  inputFlags,
				Action: previewAction,
			},
		},
	}
}

func newGenerator(c *cli.Context) *slip.Generator {
	return slip.New(slip.Config{
		Assets: assets.New(c.String("logo"), c.String("template"), 10*time.Second),
		Options: layout.Options{
			InvoiceBarcode: c.Bool("barcode"),
			PaymentQR:      c.Bool("qr"),
		},
		Image: renderer.NewImage(c.Float64("scale"), c.Float64("gap")),
	})
}

func generateAction(ext string) cli.ActionFunc {
	return func(c *cli.Context) error {
		bill, err := billformat.ParseFile(c.String("input"))
		if err != nil {
			return err
		}

		var out []byte
		if server := c.String("server"); server != "" {
			route := "/bills/pdf"
			if ext == "png" {
				route = "/bills/image"
			}
			out, err = remoteGenerate(c.Context, server, route, bill)
		} else if ext == "pdf" {
			out, err = newGenerator(c).GenerateSlip(c.Context, bill.Customer, bill.Billing)
		} else {
			out, err = newGenerator(c).GenerateSlipImage(c.Context, bill.Customer, bill.Billing)
		}
		if err != nil {
			return err
		}

		dir := c.String("out")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		path := filepath.Join(dir, billformat.Filename(bill.Customer, bill.Billing, ext))
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fmt.Fprintf(c.App.Writer, "✅ Wrote %s (%d bytes)\n", path, len(out))
		return nil
	}
}

func previewAction(c *cli.Context) error {
	bill, err := billformat.ParseFile(c.String("input"))
	if err != nil {
		return err
	}

	var preview *slip.Preview
	if server := c.String("server"); server != "" {
		preview, err = remotePreview(c.Context, server, bill)
	} else {
		preview, err = newGenerator(c).Preview(bill.Customer, bill.Billing)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(preview)
}
