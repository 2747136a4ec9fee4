package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadillo-os/shell/internal/domain/cluster"
)

func dialTestServer(t *testing.T) (*websocket.Conn, *cluster.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clusters := cluster.NewManager(cluster.DefaultConfig(), nil)
	handler := NewHandler(clusters, nil)

	r := gin.New()
	r.GET("/stream", handler.HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn, clusters
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestConnectSendsSystemMessage(t *testing.T) {
	conn, _ := dialTestServer(t)
	msg := readFrame(t, conn)
	assert.Equal(t, "system", msg["type"])
}

func TestPingPong(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // system

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	msg := readFrame(t, conn)
	assert.Equal(t, "pong", msg["type"])
}

func TestCreateClusterPushesPanelsChanged(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // system

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":  "create_cluster",
		"title": "editor",
	}))

	// The observer fires before the command reply.
	push := readFrame(t, conn)
	assert.Equal(t, "panels_changed", push["type"])
	assert.Equal(t, "updated", push["event"])

	reply := readFrame(t, conn)
	assert.Equal(t, "create_cluster", reply["type"])
	snap := reply["cluster"].(map[string]interface{})
	assert.Len(t, snap["stories"].([]interface{}), 1)
}

func TestExternalMutationIsPushed(t *testing.T) {
	conn, clusters := dialTestServer(t)
	readFrame(t, conn) // system

	// A mutation through the REST path reaches WS subscribers too.
	_, err := clusters.CreateCluster("editor")
	require.NoError(t, err)

	push := readFrame(t, conn)
	assert.Equal(t, "panels_changed", push["type"])
}

func TestLayoutCommand(t *testing.T) {
	conn, clusters := dialTestServer(t)
	readFrame(t, conn) // system

	snap, err := clusters.CreateCluster("editor")
	require.NoError(t, err)
	readFrame(t, conn) // panels_changed

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":       "layout",
		"cluster_id": snap.ID,
		"size":       map[string]float64{"width": 900, "height": 600},
	}))
	msg := readFrame(t, conn)
	require.Equal(t, "layout", msg["type"])
	model := msg["layout"].(map[string]interface{})
	assert.Equal(t, "single", model["tag"])
}

func TestLayoutRequiresSize(t *testing.T) {
	conn, clusters := dialTestServer(t)
	readFrame(t, conn) // system

	snap, err := clusters.CreateCluster("editor")
	require.NoError(t, err)
	readFrame(t, conn) // panels_changed

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":       "layout",
		"cluster_id": snap.ID,
	}))
	msg := readFrame(t, conn)
	assert.Equal(t, "error", msg["type"])
}

func TestUnknownMessageType(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // system

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "teleport"}))
	msg := readFrame(t, conn)
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, "unknown message type", msg["message"])
}

func TestMalformedMessage(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // system

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{oops")))
	msg := readFrame(t, conn)
	assert.Equal(t, "error", msg["type"])
}

func TestCommandErrorFrame(t *testing.T) {
	conn, _ := dialTestServer(t)
	readFrame(t, conn) // system

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":       "focus",
		"cluster_id": "clus_missing",
		"story_id":   "story_missing",
	}))
	msg := readFrame(t, conn)
	assert.Equal(t, "error", msg["type"])
}
