package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsPair dials the test server and hands back both ends of the connection.
func wsPair(t *testing.T) (server *websocket.Conn, client *websocket.Conn) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientConn.Close() })

	serverConn := <-serverConns
	t.Cleanup(func() { _ = serverConn.Close() })
	return serverConn, clientConn
}

func TestMetricsHubBroadcastDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewMetricsHub()
	go hub.Run(ctx)

	serverConn, clientConn := wsPair(t)
	hub.Add(serverConn)
	defer hub.Remove(serverConn)

	sent := MetricSample{
		CapturedAt:    time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		HeapUsedBytes: 123456,
		SystemCpuLoad: 0.25,
	}
	hub.Broadcast(sent)

	require.NoError(t, clientConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got MetricSample
	require.NoError(t, clientConn.ReadJSON(&got))
	assert.Equal(t, sent.HeapUsedBytes, got.HeapUsedBytes)
	assert.Equal(t, sent.SystemCpuLoad, got.SystemCpuLoad)
}

// Clients connect and disconnect while the broadcast loop is running; run
// under -race to catch unsynchronized access to the client map.
func TestMetricsHubConcurrentAddRemove(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewMetricsHub()
	go hub.Run(ctx)

	const clients = 8
	conns := make([]*websocket.Conn, clients)
	for i := range conns {
		serverConn, clientConn := wsPair(t)
		conns[i] = serverConn
		// Drain so writes never block on a full client buffer.
		go func() {
			for {
				if _, _, err := clientConn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(2)
		conn := conns[i]
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Add(conn)
				hub.Remove(conn)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Broadcast(MetricSample{CapturedAt: time.Now().UTC()})
			}
		}()
	}
	wg.Wait()

	hub.Broadcast(MetricSample{CapturedAt: time.Now().UTC()})
	assert.Empty(t, hub.snapshot())
}
