package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/itthad/dairy-bill/pkg/billformat"
)

// WebSocket message types
const (
	EventPreview  = "preview"
	EventPDF      = "pdf"
	EventImage    = "image"
	EventResponse = "response"
	EventError    = "error"
)

const wsGenerateTimeout = 30 * time.Second

// WSRequest is a message from a client. Data holds a bill.
type WSRequest struct {
	Event string          `json:"event"`
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data"`
}

// WSMessage is a message to a client
type WSMessage struct {
	Event string      `json:"event"`
	ID    string      `json:"id,omitempty"`
	Data  interface{} `json:"data"`
}

// WSFile is a generated bill sent over the socket
type WSFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"` // Base64
}

// WSClient is a connected WebSocket client
type WSClient struct {
	conn   *websocket.Conn
	send   chan WSMessage
	done   chan struct{} // Closed when writePump exits
	server *Server
}

// handleWebSocket upgrades the connection and answers bill requests until
// the client goes away
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("api: websocket upgrade failed: %v", err)
		return
	}

	client := &WSClient{
		conn:   conn,
		send:   make(chan WSMessage, 16),
		done:   make(chan struct{}),
		server: s,
	}

	log.Printf("api: websocket client connected from %s", c.ClientIP())

	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("api: websocket write error: %v", err)
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() {
		close(c.send)
		log.Printf("api: websocket client disconnected")
	}()

	for {
		var req WSRequest
		if err := c.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("api: websocket error: %v", err)
			}
			return
		}

		if !c.deliver(c.handleMessage(&req)) {
			return
		}
	}
}

// deliver queues msg for writePump. It reports false once writePump has
// stopped.
func (c *WSClient) deliver(msg WSMessage) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	}
}

func (c *WSClient) handleMessage(req *WSRequest) WSMessage {
	switch req.Event {
	case EventPreview, EventPDF, EventImage:
	default:
		return errorMessage(req.ID, fmt.Sprintf("unknown event: %s", req.Event))
	}

	bill, err := decodeBill(req.Data)
	if err != nil {
		return errorMessage(req.ID, fmt.Sprintf("invalid bill: %v", err))
	}

	gen := c.server.generator
	if req.Event == EventPreview {
		preview, err := gen.Preview(bill.Customer, bill.Billing)
		if err != nil {
			return errorMessage(req.ID, err.Error())
		}
		return WSMessage{Event: EventResponse, ID: req.ID, Data: preview}
	}

	ctx, cancel := context.WithTimeout(context.Background(), wsGenerateTimeout)
	defer cancel()

	var (
		out         []byte
		contentType string
		ext         string
	)
	if req.Event == EventPDF {
		out, err = gen.GenerateSlip(ctx, bill.Customer, bill.Billing)
		contentType, ext = "application/pdf", "pdf"
	} else {
		out, err = gen.GenerateSlipImage(ctx, bill.Customer, bill.Billing)
		contentType, ext = "image/png", "png"
	}
	if err != nil {
		return errorMessage(req.ID, err.Error())
	}

	return WSMessage{
		Event: EventResponse,
		ID:    req.ID,
		Data: WSFile{
			Filename:    billformat.Filename(bill.Customer, bill.Billing, ext),
			ContentType: contentType,
			Content:     base64.StdEncoding.EncodeToString(out),
		},
	}
}

func errorMessage(id, message string) WSMessage {
	return WSMessage{
		Event: EventError,
		ID:    id,
		Data:  gin.H{"error": message},
	}
}
