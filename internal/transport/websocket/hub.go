// Package websocket
package websocket

import (
	"context"
	"encoding/json"

	"pulseboard/internal/domain"
	"pulseboard/internal/logger"
)

type Hub struct {
	ctx    context.Context
	cancel context.CancelFunc

	clients  map[*Client]bool
	channels map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription
	events      chan *domain.WsServerEvent

	log logger.Logger
}

type Subscription struct {
	client  *Client
	channel string
}

func NewHub(parent context.Context, log logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)

	return &Hub{
		ctx:    ctx,
		cancel: cancel,

		clients:  make(map[*Client]bool),
		channels: make(map[string]map[*Client]bool),

		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
		subscribe:   make(chan *Subscription, 64),
		unsubscribe: make(chan *Subscription, 64),
		events:      make(chan *domain.WsServerEvent, 256),

		log: log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.log.Info("ws: hub shutting down")
			for client := range h.clients {
				close(client.send)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.log.Info("ws: client registered", "remote", c.remote, "total", len(h.clients))

		case c := <-h.unregister:
			if !h.clients[c] {
				continue
			}
			delete(h.clients, c)
			close(c.send)
			h.log.Info("ws: client unregistered", "remote", c.remote, "total", len(h.clients))

			for chID, subs := range h.channels {
				if _, subscribed := subs[c]; subscribed {
					delete(subs, c)
					if len(subs) == 0 {
						delete(h.channels, chID)
					}
				}
			}

		case sub := <-h.subscribe:
			if h.channels[sub.channel] == nil {
				h.channels[sub.channel] = make(map[*Client]bool)
			}
			h.channels[sub.channel][sub.client] = true

		case sub := <-h.unsubscribe:
			if subs, ok := h.channels[sub.channel]; ok {
				if _, subscribed := subs[sub.client]; subscribed {
					delete(subs, sub.client)
					if len(subs) == 0 {
						delete(h.channels, sub.channel)
					}
				}
			}

		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// Broadcast is fire-and-forget: when the hub buffer is full the event is
// dropped, never queued behind a slow consumer.
func (h *Hub) Broadcast(channel, event string, payload any) {
	ev := &domain.WsServerEvent{Channel: channel, Event: event, Payload: payload}
	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	default:
		h.log.Warn("ws: broadcast buffer full, dropping event", "event", event)
	}
}

func (h *Hub) deliver(ev *domain.WsServerEvent) {
	message, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("ws: failed to marshal event", "error", err)
		return
	}

	targets := h.clients
	if ev.Channel != "" {
		subs, ok := h.channels[ev.Channel]
		if !ok {
			return
		}
		targets = subs
	}

	for client := range targets {
		select {
		case client.send <- message:
		default:
			// slow consumer misses this frame; the next one supersedes it
			h.log.Debug("ws: client buffer full, frame dropped", "remote", client.remote)
		}
	}
}
