package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/internal/repository"
	appErrors "github.com/noah-isme/career-roadmap-api/pkg/errors"
	"github.com/noah-isme/career-roadmap-api/pkg/kvstore"
	"github.com/noah-isme/career-roadmap-api/pkg/response"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type changeFeed interface {
	Subscribe(keys ...string) *kvstore.Subscription
}

type tokenAuthorizer interface {
	ValidateToken(token string) (*models.JWTClaims, error)
	Authorize(ctx context.Context, claims *models.JWTClaims) error
}

// DocumentHandler streams document changes over websockets.
type DocumentHandler struct {
	feed     changeFeed
	auth     tokenAuthorizer
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewDocumentHandler constructs DocumentHandler. allowedOrigins limits
// browser origins; "*" or an empty list allows any.
func NewDocumentHandler(feed changeFeed, auth tokenAuthorizer, allowedOrigins []string, logger *zap.Logger) *DocumentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[strings.TrimSpace(origin)] = struct{}{}
	}
	_, anyOrigin := origins["*"]
	return &DocumentHandler{
		feed: feed,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || anyOrigin || len(origins) == 0 {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		logger: logger,
	}
}

// Stream godoc
// @Summary Stream document changes
// @Description Upgrades to a websocket and sends one JSON message per changed document. Requires an administrator token in the access_token query parameter or the Authorization header.
// @Tags Documents
// @Param keys query string false "Comma separated document keys"
// @Param access_token query string false "Administrator access token"
// @Router /ws/documents [get]
func (h *DocumentHandler) Stream(c *gin.Context) {
	token := c.Query("access_token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}
	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.auth.Authorize(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}
	if claims.Role != models.RoleAdmin {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	keys := splitKeys(c.Query("keys"))
	for _, key := range keys {
		if !repository.IsDocumentKey(key) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown document key "+key))
			return
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	sub := h.feed.Subscribe(keys...)
	h.logger.Info("document stream opened", zap.String("username", claims.Username))

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, sub, done)
}

// readPump discards client messages and notices disconnects.
func (h *DocumentHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("document stream read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *DocumentHandler) writePump(conn *websocket.Conn, sub *kvstore.Subscription, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Close()
		_ = conn.Close()
	}()
	for {
		select {
		case change, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(change); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func splitKeys(raw string) []string {
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
