package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/sarib95965/llm-agent/stream"
)

// wsSink bridges the orchestrator's message stream onto one WebSocket
// connection. Sends are serialized; a write failure means the peer is gone.
type wsSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSink) Send(ctx context.Context, msg stream.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wsjson.Write(ctx, s.conn, msg)
}

// handleWS upgrades the connection and streams one answer for the prompt
// given in the query string. The connection is write-only after the upgrade;
// CloseRead cancels the request context when the peer disconnects, which
// stops token production upstream.
func (s *Server) handleWS(c *gin.Context) {
	prompt := c.Query("prompt")
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "query parameter 'prompt' is required"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // accept any Origin
	})
	if err != nil {
		s.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	ctx := conn.CloseRead(c.Request.Context())

	if err := s.agent.RespondStreaming(ctx, prompt, &wsSink{conn: conn}); err != nil {
		s.logger.Warn("streaming session ended with error", "error", err)
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}
