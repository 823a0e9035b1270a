package realtime

import (
	"testing"

	"go.uber.org/zap"
)

func TestHubRegisterAndSend(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := NewClient(nil, "u1")
	hub.Register(c)

	if !hub.IsConnected("u1") {
		t.Fatal("u1 should be connected")
	}
	if hub.IsConnected("u2") {
		t.Fatal("u2 should not be connected")
	}

	if !hub.SendToUser("u1", []byte("hello")) {
		t.Fatal("send to connected user should succeed")
	}
	select {
	case payload := <-c.Send:
		if string(payload) != "hello" {
			t.Fatalf("wrong payload %q", payload)
		}
	default:
		t.Fatal("payload not queued")
	}
}

func TestHubSendToOfflineUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	if hub.SendToUser("ghost", []byte("hello")) {
		t.Fatal("send to offline user must report false")
	}
}

func TestHubMultipleClientsPerUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c1 := NewClient(nil, "u1")
	c2 := NewClient(nil, "u1")
	hub.Register(c1)
	hub.Register(c2)

	if !hub.SendToUser("u1", []byte("hi")) {
		t.Fatal("send should succeed")
	}
	if len(c1.Send) != 1 || len(c2.Send) != 1 {
		t.Fatal("every client of the user must receive the payload")
	}

	hub.Unregister(c1)
	if !hub.IsConnected("u1") {
		t.Fatal("u1 still has a client")
	}
	hub.Unregister(c2)
	if hub.IsConnected("u1") {
		t.Fatal("u1 should be gone after last client leaves")
	}
}

func TestHubUnregisterTwice(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := NewClient(nil, "u1")
	hub.Register(c)
	hub.Unregister(c)
	// A second unregister (read loop and write loop both tearing down)
	// must not panic on the closed channel.
	hub.Unregister(c)
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := NewClient(nil, "u1")
	hub.Register(c)

	for i := 0; i < sendBuffer; i++ {
		if !hub.SendToUser("u1", []byte("fill")) {
			t.Fatalf("send %d should fit the buffer", i)
		}
	}
	if hub.SendToUser("u1", []byte("overflow")) {
		t.Fatal("full buffer must drop the payload and report false")
	}
}
