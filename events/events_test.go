package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.got = append(r.got, e)
	return r.err
}

func sampleEvent() Event {
	return ForOrder(OrderStatusChanged, &models.Order{
		ID:          "o-1",
		OrderNumber: "ORD-1",
		Status:      models.OrderStatusShipped,
		UpdatedAt:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	})
}

func TestKafkaPublisherKeysByOrder(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "o-1", string(w.msgs[0].Key))
	assert.Equal(t, "order.status_changed", string(w.msgs[0].Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, models.OrderStatusShipped, decoded.Status)
}

func TestMultiPublishesToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a, b := &recorder{err: boom}, &recorder{}

	err := Multi{a, b}.Publish(context.Background(), sampleEvent())
	require.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)

	assert.NoError(t, Multi{}.Publish(context.Background(), sampleEvent()))
}

func TestHubBroadcastsToWebsocketClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens asynchronously; publish until the client sees a message.
	received := make(chan Event, 1)
	go func() {
		var e Event
		if err := conn.ReadJSON(&e); err == nil {
			received <- e
		}
	}()

	deadline := time.After(2 * time.Second)
	for {
		require.NoError(t, hub.Publish(ctx, sampleEvent()))
		select {
		case e := <-received:
			assert.Equal(t, "ORD-1", e.OrderNumber)
			return
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatal("no event received")
		}
	}
}

func TestHubPublishAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// Fill the buffer so the send cannot succeed.
	for i := 0; i < cap(hub.broadcast); i++ {
		hub.broadcast <- nil
	}
	assert.ErrorIs(t, hub.Publish(context.Background(), sampleEvent()), ErrHubStopped)
}
