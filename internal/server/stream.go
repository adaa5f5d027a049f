package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"pokehub/internal/catalog"
	"pokehub/internal/engine"
)

const writeWait = 10 * time.Second

// snapshotView is the message sent on /ws for every published snapshot.
type snapshotView struct {
	Version   uint64          `json:"version"`
	Status    statusBody      `json:"status"`
	Pokemon   []catalog.Entry `json:"pokemon"`
	Favorites []int64         `json:"favorites"`
	Regions   []regionCount   `json:"regions"`
}

func viewOf(snap engine.Snapshot) snapshotView {
	return snapshotView{
		Version:   snap.Version,
		Status:    statusOf(snap),
		Pokemon:   snap.All(),
		Favorites: snap.FavoriteIDs(),
		Regions:   regionCounts(snap),
	}
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	snaps, cancel := s.svc.Subscribe()
	defer cancel()
	s.log.Debug("stream opened", "remote", r.RemoteAddr)

	// Incoming frames are ignored; a read error means the peer is gone.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for snap := range snaps {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(viewOf(snap)); err != nil {
			s.log.Debug("stream write", "err", err)
			break
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	s.log.Debug("stream closed", "remote", r.RemoteAddr)
}
