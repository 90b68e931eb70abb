package view

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

const sendBuffer = 64

const (
	MessageNotice   = "notice"
	MessagePatients = "patients"
)

// ClientMessage is sent by a browser when it changes view or search term.
type ClientMessage struct {
	Action string `json:"action"`
	Route  string `json:"route,omitempty"`
	Search string `json:"search"`
}

// ServerMessage is pushed to a browser: either a transient notice or a
// replacement patients fragment.
type ServerMessage struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	HTML  string `json:"html,omitempty"`
	Total int    `json:"total"`
}

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live browser view.
type Client struct {
	ID   string
	Send chan []byte
	conn Conn

	route  string
	search string
}

// liveView is a snapshot of a client's position taken under the hub lock.
type liveView struct {
	client *Client
	search string
}

// Hub tracks live clients and the view each one is showing.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func newClient(conn Conn) *Client {
	return &Client{
		ID:    uuid.NewString(),
		Send:  make(chan []byte, sendBuffer),
		conn:  conn,
		route: RouteRegister,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

// Unregister removes client and closes its Send channel. Safe to call more
// than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
}

// Navigate moves client to route and search. An empty route keeps the
// current one.
func (h *Hub) Navigate(client *Client, route, search string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if route != "" {
		client.route, _ = NormalizeRoute(route)
	}
	client.search = search
	return client.route
}

func (h *Hub) viewsOn(route string) []liveView {
	h.mu.RLock()
	defer h.mu.RUnlock()

	views := make([]liveView, 0, len(h.clients))
	for client := range h.clients {
		if client.route == route {
			views = append(views, liveView{client: client, search: client.search})
		}
	}
	return views
}

func (h *Hub) viewOf(client *Client) (liveView, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client]; !ok {
		return liveView{}, false
	}
	return liveView{client: client, search: client.search}, client.route == RouteQuery
}

// Send queues msg for client without blocking. A full buffer drops it.
func (h *Hub) Send(client *Client, msg ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client]; !ok {
		return false
	}
	select {
	case client.Send <- data:
		return true
	default:
		return false
	}
}

// Broadcast queues msg for every client on route.
func (h *Hub) Broadcast(route string, msg ServerMessage) {
	for _, view := range h.viewsOn(route) {
		h.Send(view.client, msg)
	}
}

// CloseAll unregisters every client and closes its connection.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
		delete(h.clients, client)
		close(client.Send)
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RouteCount(route string) int {
	return len(h.viewsOn(route))
}
