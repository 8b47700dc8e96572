// Package websocket implements the realtime broadcast channel: a hub fans
// request events out to topic-scoped subscriber groups without history,
// acknowledgment or retry.
package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Topic is a named broadcast channel clients subscribe to
type Topic string

// TopicAdmin is the admin-wide group receiving every event
const TopicAdmin Topic = "admin"

// BlockTopic returns the topic for a residence/block pair
func BlockTopic(residence, block string) Topic {
	return Topic(fmt.Sprintf("block:%s:%s", residence, block))
}

// Event names pushed to subscribers
const (
	EventNewRequest     = "new-request"
	EventRequestUpdated = "request-updated"
)

// Event is a named payload delivered to every subscriber of a topic
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

type subscription struct {
	client *Client
	topic  Topic
}

type envelope struct {
	topic   Topic
	payload []byte
}

// Hub maintains the set of active clients and their topic memberships, and
// broadcasts events to the clients subscribed to a topic.
type Hub struct {
	// Joined topics per connection, cleaned up on disconnect
	clients map[*Client]map[Topic]bool

	// Subscribers per topic
	topics map[Topic]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	publishChan chan envelope

	// Guards the maps for reads from outside the Run goroutine
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]map[Topic]bool),
		topics:      make(map[Topic]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		publishChan: make(chan envelope, 64),
		logger:      logger,
	}
}

// Run starts the hub loop, handling registrations, topic joins and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case sub := <-h.subscribe:
			h.addSubscription(sub.client, sub.topic)

		case env := <-h.publishChan:
			h.deliver(env.topic, env.payload)
		}
	}
}

// Publish fans an event out to every client subscribed to the topic.
// Delivery is fire-and-forget: at most once per connected subscriber, never
// blocking the caller, and delivery failure is not an error.
func (h *Hub) Publish(topic Topic, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("topic", string(topic)).Str("event", event.Name).
			Msg("Failed to marshal event for broadcast")
		return
	}

	select {
	case h.publishChan <- envelope{topic: topic, payload: payload}:
	default:
		h.logger.Warn().Str("topic", string(topic)).Str("event", event.Name).
			Msg("Broadcast queue full, event dropped")
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = make(map[Topic]bool)

	h.logger.Info().Str("addr", client.addr).Msg("Client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topics, ok := h.clients[client]
	if !ok {
		return
	}

	for topic := range topics {
		delete(h.topics[topic], client)
		if len(h.topics[topic]) == 0 {
			delete(h.topics, topic)
		}
	}

	delete(h.clients, client)
	close(client.send)

	h.logger.Info().Str("addr", client.addr).Msg("Client disconnected")
}

func (h *Hub) addSubscription(client *Client, topic Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topics, ok := h.clients[client]
	if !ok {
		// Client already disconnected
		return
	}
	topics[topic] = true

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[*Client]bool)
	}
	h.topics[topic][client] = true

	h.logger.Debug().Str("topic", string(topic)).
		Str("addr", client.addr).Msg("Client joined topic")
}

func (h *Hub) deliver(topic Topic, payload []byte) {
	h.mu.RLock()
	subscribers, ok := h.topics[topic]
	if !ok || len(subscribers) == 0 {
		h.mu.RUnlock()
		h.logger.Debug().Str("topic", string(topic)).Msg("No subscribers for broadcast")
		return
	}

	var slow []*Client
	for client := range subscribers {
		select {
		case client.send <- payload:
		default:
			// Send buffer full: the client is slow or gone, drop it
			slow = append(slow, client)
		}
	}
	count := len(subscribers)
	h.mu.RUnlock()

	for _, client := range slow {
		h.removeClient(client)
	}

	h.logger.Debug().Str("topic", string(topic)).Int("clientCount", count).
		Msg("Event broadcasted to topic")
}

// SubscriberCount returns the number of clients subscribed to a topic
func (h *Hub) SubscriberCount(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
