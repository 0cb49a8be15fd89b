package rpc

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
)

func TestStreamRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, b := net.Pipe()
	writer := NewStream(a, a)
	reader := NewStream(b, b)
	defer writer.Close()
	defer reader.Close()

	n, err := jsonrpc2.NewNotification(MethodDidClose, map[string]interface{}{
		"textDocument": map[string]string{"uri": "file:///a.ts"},
	})
	require.NoError(t, err)

	go func() {
		_, _ = writer.Write(ctx, n)
	}()

	msg, _, err := reader.Read(ctx)
	require.NoError(t, err)
	got, ok := msg.(*jsonrpc2.Notification)
	require.True(t, ok)
	assert.Equal(t, MethodDidClose, got.Method())
	assert.JSONEq(t, `{"textDocument":{"uri":"file:///a.ts"}}`, string(got.Params()))
}

func TestStreamSerializesWrites(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, b := net.Pipe()
	writer := NewStream(a, a)
	reader := NewStream(b, b)
	defer writer.Close()
	defer reader.Close()

	const count = 20
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := jsonrpc2.NewNotification(methodProgress, map[string]int{"value": i})
			if err == nil {
				_, _ = writer.Write(ctx, n)
			}
		}(i)
	}

	seen := 0
	for seen < count {
		msg, _, err := reader.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, methodProgress, msg.(*jsonrpc2.Notification).Method())
		seen++
	}
	wg.Wait()
}

type closeRecorder struct {
	io.Reader
	io.Writer
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestStubClosesSharedConnOnce(t *testing.T) {
	rec := &closeRecorder{}
	require.NoError(t, stub{r: rec, w: rec}.Close())
	assert.Equal(t, 1, rec.closed)

	r, w := &closeRecorder{}, &closeRecorder{}
	require.NoError(t, stub{r: r, w: w}.Close())
	assert.Equal(t, 1, r.closed)
	assert.Equal(t, 1, w.closed)
}
