// Package api handles HTTP and WebSocket API endpoints
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/itthad/dairy-bill/internal/slip"
	"github.com/itthad/dairy-bill/pkg/billformat"
)

const maxBodySize = 5 << 20

// Generator produces bills for the API
type Generator interface {
	GenerateSlip(ctx context.Context, c billformat.Customer, b billformat.Billing) ([]byte, error)
	GenerateSlipImage(ctx context.Context, c billformat.Customer, b billformat.Billing) ([]byte, error)
	Preview(c billformat.Customer, b billformat.Billing) (*slip.Preview, error)
}

// Server is the API server
type Server struct {
	router    *gin.Engine
	generator Generator
	client    *http.Client
	upgrader  websocket.Upgrader
}

// NewServer creates a new API server. An empty origin list allows all origins.
func NewServer(generator Generator, allowedOrigins []string) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), corsMiddleware(allowedOrigins))

	server := &Server{
		router:    router,
		generator: generator,
		client:    http.DefaultClient,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	bills := s.router.Group("/bills")
	bills.POST("/preview", s.handlePreview)
	bills.POST("/pdf", s.handlePDF)
	bills.POST("/image", s.handleImage)

	// Live preview for the bill form
	s.router.GET("/ws", s.handleWebSocket)
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the API server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// billRequest is either an inline bill or a URL to fetch one from
type billRequest struct {
	billformat.Bill
	BillURL string `json:"bill_url"`
}

// bindBill decodes, recalculates and validates the request bill. On failure
// it writes a 400 response and returns false.
func (s *Server) bindBill(c *gin.Context) (*billformat.Bill, bool) {
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return nil, false
	}

	if req.BillURL != "" {
		bill, err := s.loadBillFromURL(c.Request.Context(), req.BillURL)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to load bill from URL: %v", err)})
			return nil, false
		}
		return bill, true
	}

	bill := req.Bill
	if err := billformat.Prepare(&bill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid bill: %v", err)})
		return nil, false
	}

	return &bill, true
}

func (s *Server) loadBillFromURL(ctx context.Context, url string) (*billformat.Bill, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("unsupported url %q", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bill: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch bill: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read bill: %w", err)
	}

	return billformat.Parse(data)
}

// fail reports a generation error: 400 for an invalid bill, 500 otherwise
func fail(c *gin.Context, err error) {
	_ = c.Error(err)

	status := http.StatusInternalServerError
	if errors.Is(err, slip.ErrInvalidBill) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handlePreview(c *gin.Context) {
	bill, ok := s.bindBill(c)
	if !ok {
		return
	}

	preview, err := s.generator.Preview(bill.Customer, bill.Billing)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

func (s *Server) handlePDF(c *gin.Context) {
	bill, ok := s.bindBill(c)
	if !ok {
		return
	}

	out, err := s.generator.GenerateSlip(c.Request.Context(), bill.Customer, bill.Billing)
	if err != nil {
		fail(c, err)
		return
	}

	attachment(c, billformat.Filename(bill.Customer, bill.Billing, "pdf"))
	c.Data(http.StatusOK, "application/pdf", out)
}

func (s *Server) handleImage(c *gin.Context) {
	bill, ok := s.bindBill(c)
	if !ok {
		return
	}

	out, err := s.generator.GenerateSlipImage(c.Request.Context(), bill.Customer, bill.Billing)
	if err != nil {
		fail(c, err)
		return
	}

	attachment(c, billformat.Filename(bill.Customer, bill.Billing, "png"))
	c.Data(http.StatusOK, "image/png", out)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}

// decodeBill parses a bill carried inside another JSON document
func decodeBill(data json.RawMessage) (*billformat.Bill, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("bill is required")
	}
	return billformat.Parse(data)
}
