package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/bus"
)

func TestWebhookPublisher_Publish(t *testing.T) {
	t.Parallel()

	var gotTopic, gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTopic = r.Header.Get("X-Event-Topic")
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(server.Close)

	publisher := NewWebhookPublisher(WebhookPublisherConfig{
		URL:   server.URL,
		Token: "hook-token",
	}, nil)

	err := publisher.Publish(context.Background(), bus.Event{
		Topic:   "sync.completed",
		Payload: map[string]any{"matches_scored": 3},
	})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if gotTopic != "sync.completed" {
		t.Fatalf("topic header = %q", gotTopic)
	}
	if gotAuth != "Bearer hook-token" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if !strings.Contains(gotBody, `"matches_scored"`) {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestWebhookPublisher_Publish_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	publisher := NewWebhookPublisher(WebhookPublisherConfig{URL: server.URL}, nil)
	if err := publisher.Publish(context.Background(), bus.Event{Topic: "sync.completed"}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestWebhookPublisher_Publish_InvalidURL(t *testing.T) {
	t.Parallel()

	publisher := NewWebhookPublisher(WebhookPublisherConfig{URL: "not-a-url"}, nil)
	if err := publisher.Publish(context.Background(), bus.Event{Topic: "sync.completed"}); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

func TestWebhookPublisher_Listen_DrainsUntilClose(t *testing.T) {
	t.Parallel()

	received := make(chan struct{}, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
	}))
	t.Cleanup(server.Close)

	publisher := NewWebhookPublisher(WebhookPublisherConfig{URL: server.URL}, nil)

	events := bus.New(4)
	ch, cancel := events.Subscribe("sync.completed")

	done := make(chan struct{})
	go func() {
		publisher.Listen(context.Background(), ch)
		close(done)
	}()

	events.Publish("sync.completed", nil)
	events.Publish("sync.completed", nil)

	for i := 0; i < 2; i++ {
		<-received
	}
	cancel()
	<-done
}
