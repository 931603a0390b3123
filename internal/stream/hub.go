package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event is one sync progress update: which entity just committed and how.
type Event struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Status     string `json:"status"`
}

// Hub fans sync events out to websocket clients subscribed per owner. Redis
// pub/sub carries events across instances; a nil redis client keeps the hub
// purely in-process.
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

// frame wraps a payload on the redis channel so an instance can skip the
// echo of its own publishes; local clients were already served in Broadcast.
type frame struct {
	Src     string `json:"src"`
	Payload []byte `json:"payload"`
}

type Client struct {
	OwnerID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(ownerID string) *Client {
	client := &Client{
		OwnerID: ownerID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[ownerID] == nil {
		h.clients[ownerID] = map[*Client]struct{}{}
	}
	h.clients[ownerID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ownerClients, ok := h.clients[client.OwnerID]; ok {
		delete(ownerClients, client)
		if len(ownerClients) == 0 {
			delete(h.clients, client.OwnerID)
		}
	}
	close(client.Send)
}

// PublishEvent marshals and broadcasts one sync event for the owner.
func (h *Hub) PublishEvent(ownerID string, ev Event) {
	payload, _ := json.Marshal(ev)
	h.Broadcast(ownerID, payload)
}

func (h *Hub) Broadcast(ownerID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[ownerID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}

	if h.redis != nil {
		wrapped, _ := json.Marshal(frame{Src: h.id, Payload: payload})
		err := h.redis.Publish(context.Background(), redisChannel(ownerID), wrapped).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "sync:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		payload := []byte(msg.Payload)
		var f frame
		if err := json.Unmarshal(payload, &f); err == nil && f.Src != "" {
			if f.Src == h.id {
				continue
			}
			payload = f.Payload
		}

		ownerID := ownerIDFromChannel(msg.Channel)
		h.mu.RLock()
		clients := h.clients[ownerID]
		h.mu.RUnlock()
		for client := range clients {
			select {
			case client.Send <- payload:
			default:
			}
		}
	}
}

func redisChannel(ownerID string) string {
	return "sync:" + ownerID + ":events"
}

func ownerIDFromChannel(ch string) string {
	// sync:{owner}:events
	const prefix = "sync:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
