package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/armadillo-os/shell/internal/domain/cluster"
	"github.com/armadillo-os/shell/internal/geometry"
	"github.com/armadillo-os/shell/internal/infrastructure/monitoring"
	"github.com/armadillo-os/shell/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler manages WebSocket connections between the renderer and the
// cluster controller.
type Handler struct {
	clusters *cluster.Manager
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(clusters *cluster.Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		clusters: clusters,
		logger:   logger,
	}
}

// WithMetrics attaches a metrics collector.
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// client wraps one connection. Panel events arrive from the mutating
// goroutine while command replies come from the read loop, so all
// writes go through a mutex.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (cl *client) send(v interface{}) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	return cl.conn.WriteMessage(websocket.TextMessage, data)
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	cl := &client{conn: conn}

	// Push panel changes for the lifetime of the connection.
	cancel := h.clusters.Watch(func(ev cluster.Event) {
		if h.metrics != nil {
			h.metrics.RecordWSMessage("out", "panels_changed")
		}
		if err := cl.send(map[string]interface{}{
			"type":      "panels_changed",
			"event":     ev.Kind,
			"cluster":   ev.Cluster,
			"timestamp": time.Now().Unix(),
		}); err != nil {
			h.logger.Debug("Dropping panel event", zap.Error(err))
		}
	})
	defer cancel()

	h.sendSystem(cl, "Connected to Armadillo Shell (Go)")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", zap.Error(err))
			}
			break
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.sendError(cl, "malformed message")
			continue
		}

		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}
		h.dispatch(cl, msg)
	}
}

func (h *Handler) dispatch(cl *client, msg types.WSMessage) {
	switch msg.Type {
	case "create_cluster":
		h.reply(cl, msg.Type)(h.clusters.CreateCluster(msg.Title))
	case "add_story":
		h.reply(cl, msg.Type)(h.clusters.AddStory(msg.ClusterID, msg.Title, pointOf(msg.DropPoint)))
	case "drag_out":
		source, ghost, err := h.clusters.DragOut(msg.ClusterID, msg.StoryID)
		if err != nil {
			h.sendError(cl, err.Error())
			return
		}
		h.send(cl, map[string]interface{}{
			"type":      "drag_out",
			"source":    source,
			"ghost":     ghost,
			"timestamp": time.Now().Unix(),
		})
	case "end_drag":
		h.reply(cl, msg.Type)(h.clusters.EndDrag(msg.ClusterID))
	case "drop":
		h.reply(cl, msg.Type)(h.clusters.Drop(msg.SourceClusterID, msg.ClusterID, pointOf(msg.DropPoint)))
	case "focus":
		h.reply(cl, msg.Type)(h.clusters.Focus(msg.ClusterID, msg.StoryID))
	case "advance":
		h.reply(cl, msg.Type)(h.clusters.Advance(msg.ClusterID, msg.Event))
	case "display_mode":
		h.reply(cl, msg.Type)(h.clusters.SetDisplayMode(msg.ClusterID, msg.Mode))
	case "dismiss":
		if err := h.clusters.Dismiss(msg.ClusterID); err != nil {
			h.sendError(cl, err.Error())
			return
		}
		h.send(cl, map[string]interface{}{
			"type":       "dismiss",
			"cluster_id": msg.ClusterID,
			"timestamp":  time.Now().Unix(),
		})
	case "layout":
		h.handleLayout(cl, msg)
	case "ping":
		h.send(cl, map[string]interface{}{"type": "pong"})
	default:
		h.sendError(cl, "unknown message type")
	}
}

func (h *Handler) handleLayout(cl *client, msg types.WSMessage) {
	if msg.Size == nil || msg.Size.Width <= 0 || msg.Size.Height <= 0 {
		h.sendError(cl, "layout requires a positive size")
		return
	}

	start := time.Now()
	model, err := h.clusters.Layout(msg.ClusterID, *msg.Size)
	if err != nil {
		h.sendError(cl, err.Error())
		return
	}
	if h.metrics != nil {
		h.metrics.RecordLayoutCompute(string(model.Tag), time.Since(start))
	}
	h.send(cl, map[string]interface{}{
		"type":       "layout",
		"cluster_id": msg.ClusterID,
		"layout":     model,
		"timestamp":  time.Now().Unix(),
	})
}

// reply sends the resulting cluster snapshot, or an error frame.
func (h *Handler) reply(cl *client, msgType string) func(types.Cluster, error) {
	return func(snap types.Cluster, err error) {
		if err != nil {
			h.sendError(cl, err.Error())
			return
		}
		h.send(cl, map[string]interface{}{
			"type":      msgType,
			"cluster":   snap,
			"timestamp": time.Now().Unix(),
		})
	}
}

func (h *Handler) send(cl *client, data interface{}) {
	if err := cl.send(data); err != nil {
		h.logger.Debug("WebSocket write failed", zap.Error(err))
	}
}

func (h *Handler) sendSystem(cl *client, message string) {
	h.send(cl, map[string]interface{}{
		"type":    "system",
		"message": message,
	})
}

func (h *Handler) sendError(cl *client, msg string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage("out", "error")
	}
	h.send(cl, map[string]interface{}{
		"type":      "error",
		"message":   msg,
		"timestamp": time.Now().Unix(),
	})
}

func pointOf(p *geometry.Point) geometry.Point {
	if p == nil {
		return geometry.Point{X: 0.5, Y: 0.5}
	}
	return *p
}
