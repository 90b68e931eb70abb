package handler

import (
	"net/http"

	"patient-portal/internal/delivery/view"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveHandler upgrades browser connections into live view clients.
type LiveHandler struct {
	controller *view.Controller
	log        *logrus.Logger
}

func NewLiveHandler(controller *view.Controller, log *logrus.Logger) *LiveHandler {
	return &LiveHandler{
		controller: controller,
		log:        log,
	}
}

func (h *LiveHandler) Connect(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("Failed to upgrade live connection: %+v", err)
		return
	}

	client := h.controller.Serve(conn)
	h.log.Debugf("Live client %s connected", client.ID)
}
