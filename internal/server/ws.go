// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/predictlab/matpredict/pkg/types"
)

// Frame types on the run stream.
const (
	frameEvent  = "event"
	frameReport = "report"
	frameError  = "error"
)

// wsMessage is the envelope for every frame on the run stream.
type wsMessage struct {
	Type   string        `json:"type"`
	Event  *types.Event  `json:"event,omitempty"`
	Report *types.Report `json:"report,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// handleRunWS upgrades the connection, reads one run request, and streams
// progress events followed by the final report. The connection closes when
// the run is over; each run gets its own connection.
func (s *Server) handleRunWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return
	}
	defer conn.Close()

	var req runRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.writeFrame(conn, wsMessage{Type: frameError, Error: fmt.Sprintf("reading run request: %v", err)})
		return
	}

	report, err := s.run(r.Context(), req, func(ev types.Event) {
		s.writeFrame(conn, wsMessage{Type: frameEvent, Event: &ev})
	})
	if err != nil {
		s.writeFrame(conn, wsMessage{Type: frameError, Error: err.Error()})
		return
	}
	s.writeFrame(conn, wsMessage{Type: frameReport, Report: report})

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteMessage(websocket.CloseMessage, msg)
}

// writeFrame sends one frame. All frames of a run are written from the
// run's own goroutine, so no write lock is needed.
func (s *Server) writeFrame(conn *websocket.Conn, msg wsMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("websocket write: %v", err)
	}
}
