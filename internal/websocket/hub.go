// Package websocket carries the live feed of newly published posts.
// Delivery is best-effort: slow subscribers are dropped, nothing is
// queued for reconnects.
package websocket

import (
	"encoding/json"
	"log"
	"time"
)

type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

func NewHub(writeWait, pongWait, pingPeriod time.Duration) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		writeWait:  writeWait,
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
	}
}

// Run owns the client set; all membership changes and fan-out go through
// its channels.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Printf("feed client connected: %s", client.RemoteAddr)

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Printf("feed client disconnected: %s", client.RemoteAddr)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Subscriber is not keeping up, cut it loose.
					delete(h.clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// Broadcast fans an event out to every connected subscriber.
func (h *Hub) Broadcast(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("error marshaling feed event: %v", err)
		return
	}

	h.broadcast <- data
}
