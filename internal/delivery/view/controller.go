package view

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"patient-portal/internal/domain/entity"
	"patient-portal/internal/service"
	"patient-portal/internal/usecase"

	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const PatientAddedNotice = "New patient added! Updating list..."

// DefaultNoticeDelay is how long the added-patient notice stays up before
// the list is refreshed.
const DefaultNoticeDelay = time.Second

// ChangeSubscriber delivers change events published by other instances.
type ChangeSubscriber interface {
	Subscribe(listener service.Listener) func()
}

// Controller renders the records views and keeps live query views in
// step with the repository.
type Controller struct {
	patientUsecase usecase.PatientUsecase
	notifier       ChangeSubscriber
	renderer       *Renderer
	hub            *Hub
	log            *logrus.Logger
	noticeDelay    time.Duration

	// mu guards unsubscribe and stopping, and orders wg.Add before Stop's
	// wg.Wait.
	mu          sync.Mutex
	unsubscribe func()
	stopping    bool
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

func NewController(patientUsecase usecase.PatientUsecase, notifier ChangeSubscriber, log *logrus.Logger, noticeDelay time.Duration) (*Controller, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Controller{
		patientUsecase: patientUsecase,
		notifier:       notifier,
		renderer:       renderer,
		hub:            NewHub(),
		log:            log,
		noticeDelay:    noticeDelay,
		stopChan:       make(chan struct{}),
	}, nil
}

func (c *Controller) Hub() *Hub {
	return c.hub
}

// Page assembles the data for route. The query view reads the full list.
func (c *Controller) Page(ctx context.Context, route, search string) PageData {
	route, _ = NormalizeRoute(route)
	data := PageData{
		Route:  route,
		Status: c.patientUsecase.Status(),
	}
	if route == RouteQuery {
		data.List = c.loadList(ctx, search)
	}
	return data
}

func (c *Controller) Render(w io.Writer, data PageData) error {
	return c.renderer.RenderPage(w, data)
}

// RenderPatientsList renders the patients fragment for search.
func (c *Controller) RenderPatientsList(ctx context.Context, search string) (ServerMessage, error) {
	list := c.loadList(ctx, search)
	html, err := c.renderer.RenderList(list)
	if err != nil {
		return ServerMessage{}, err
	}
	return ServerMessage{Type: MessagePatients, HTML: html, Total: len(list.Patients)}, nil
}

func (c *Controller) loadList(ctx context.Context, search string) ListData {
	list := ListData{Search: search}
	result, err := c.patientUsecase.ListPatients(ctx, search)
	if err != nil {
		c.log.Warnf("Error rendering patients list: %+v", err)
		list.Error = err.Error()
		return list
	}
	list.Patients = result.Patients
	return list
}

// Start subscribes to change events. Calls after the first are no-ops.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unsubscribe != nil || c.notifier == nil || c.stopping {
		return
	}
	c.unsubscribe = c.notifier.Subscribe(c.onChange)
}

// Stop unsubscribes, cancels pending refreshes and disconnects every live
// client.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	if !c.stopping {
		c.stopping = true
		close(c.stopChan)
	}
	c.mu.Unlock()

	c.wg.Wait()
	c.hub.CloseAll()
}

// RefreshLocal pushes a fresh list to this instance's query views. It runs
// after local mutations, which never come back through the notifier.
func (c *Controller) RefreshLocal(ctx context.Context) {
	c.refreshQueryViews(ctx)
}

func (c *Controller) onChange(ctx context.Context, event entity.ChangeEvent) {
	switch event.Type {
	case entity.EventPatientAdded:
		if c.hub.RouteCount(RouteQuery) == 0 {
			return
		}
		c.hub.Broadcast(RouteQuery, ServerMessage{Type: MessageNotice, Text: PatientAddedNotice})
		c.scheduleRefresh()
	case entity.EventDataChanged:
		c.refreshQueryViews(ctx)
	default:
		c.log.Debugf("Ignoring change event %s", event.Type)
	}
}

func (c *Controller) scheduleRefresh() {
	if c.noticeDelay <= 0 {
		c.refreshQueryViews(context.Background())
		return
	}

	c.mu.Lock()
	if c.stopping {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		timer := time.NewTimer(c.noticeDelay)
		defer timer.Stop()

		select {
		case <-timer.C:
			c.refreshQueryViews(context.Background())
		case <-c.stopChan:
		}
	}()
}

// refreshQueryViews re-reads the full list once per distinct search term.
func (c *Controller) refreshQueryViews(ctx context.Context) {
	views := c.hub.viewsOn(RouteQuery)
	if len(views) == 0 {
		return
	}

	rendered := make(map[string]ServerMessage)
	for _, view := range views {
		msg, ok := rendered[view.search]
		if !ok {
			var err error
			msg, err = c.RenderPatientsList(ctx, view.search)
			if err != nil {
				c.log.Warnf("Failed to render patients list: %+v", err)
				continue
			}
			rendered[view.search] = msg
		}
		c.hub.Send(view.client, msg)
	}
}

// Serve registers conn as a live client and starts its pumps.
func (c *Controller) Serve(conn Conn) *Client {
	client := newClient(conn)
	c.hub.Register(client)

	go c.writePump(client)
	go c.readPump(client)

	return client
}

func (c *Controller) handleClientMessage(ctx context.Context, client *Client, msg ClientMessage) {
	switch msg.Action {
	case "navigate":
		c.hub.Navigate(client, msg.Route, msg.Search)
	case "search":
		c.hub.Navigate(client, "", msg.Search)
	default:
		return
	}

	view, onQuery := c.hub.viewOf(client)
	if !onQuery {
		return
	}
	list, err := c.RenderPatientsList(ctx, view.search)
	if err != nil {
		c.log.Warnf("Failed to render patients list: %+v", err)
		return
	}
	c.hub.Send(client, list)
}

func (c *Controller) readPump(client *Client) {
	defer func() {
		c.hub.Unregister(client)
		client.conn.Close()
	}()

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		c.handleClientMessage(context.Background(), client, msg)
	}
}

func (c *Controller) writePump(client *Client) {
	defer client.conn.Close()

	for message := range client.Send {
		if err := client.conn.WriteMessage(gorillawebsocket.TextMessage, message); err != nil {
			return
		}
	}
}
