package redisclient

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	server := miniredis.RunT(t)

	conn, err := Connect(context.Background(), Options{Address: server.Addr()})
	require.NoError(t, err)

	assert.NoError(t, conn.Health(context.Background()))

	queue, err := conn.Queues.OpenQueue("live-progress")
	require.NoError(t, err)
	require.NoError(t, queue.PublishBytes([]byte(`{"tick":1}`)))

	assert.NoError(t, conn.Close())
}

func TestConnectGivesUp(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err := Connect(context.Background(), Options{Address: addr, ConnectTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestCloseNil(t *testing.T) {
	var conn *Connection
	assert.NoError(t, conn.Close())
}
