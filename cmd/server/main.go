package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"holdemroom/holdem"
	"holdemroom/internal/registry"
	"holdemroom/internal/room"
	"holdemroom/internal/session"
)

func main() {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.InfoLevel)
	logger.SetPrefix("server")

	mgr := &lazyBroadcaster{}
	reg := registry.New(mgr)
	defer reg.Stop()

	sessions := session.New(reg, logger)
	mgr.set(sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", sessions.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/rooms", handleListRooms(reg))
	mux.HandleFunc("/create-room", handleCreateRoom(reg))
	mux.HandleFunc("/api/room/", handleRoomState(reg))

	addr := strings.TrimSpace(os.Getenv("SERVER_ADDR"))
	if addr == "" {
		addr = ":18080"
	}
	logger.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

// lazyBroadcaster breaks the registry->session->registry construction cycle:
// the registry needs a room.Broadcaster at construction time, but the
// session manager needs the registry. Every call is forwarded once the real
// implementation is assigned immediately after both are built.
type lazyBroadcaster struct {
	impl room.Broadcaster
}

func (l *lazyBroadcaster) set(impl room.Broadcaster) { l.impl = impl }

func (l *lazyBroadcaster) Send(userID uint64, msg any) {
	if l.impl != nil {
		l.impl.Send(userID, msg)
	}
}

func (l *lazyBroadcaster) Broadcast(roomID string, userIDs []uint64, build func(userID uint64) any) {
	if l.impl != nil {
		l.impl.Broadcast(roomID, userIDs, build)
	}
}

func handleListRooms(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type roomSummary struct {
			ID      string `json:"id"`
			Players int    `json:"players"`
			Max     int    `json:"max_players"`
		}
		ids := reg.ListRooms()
		rooms := make([]roomSummary, 0, len(ids))
		for _, id := range ids {
			rm, ok := reg.GetRoom(id)
			if !ok {
				continue
			}
			snap := rm.Snapshot()
			rooms = append(rooms, roomSummary{
				ID:      id,
				Players: len(snap.Players),
				Max:     int(rm.Config.MaxPlayers),
			})
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

type createRoomRequest struct {
	Name       string `json:"name"`
	Mode       string `json:"mode"`
	SmallBlind int64  `json:"small_blind"`
	BigBlind   int64  `json:"big_blind"`
}

func handleCreateRoom(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.SmallBlind <= 0 || req.BigBlind <= req.SmallBlind {
			http.Error(w, "invalid blind structure", http.StatusBadRequest)
			return
		}

		cfg := registry.DefaultConfig
		cfg.Name = req.Name
		cfg.SmallBlind = req.SmallBlind
		cfg.BigBlind = req.BigBlind
		cfg.BettingMode = bettingModeFromWire(req.Mode)

		rm, err := reg.CreateRoom(cfg)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			ID string `json:"id"`
		}{ID: rm.ID})
	}
}

func bettingModeFromWire(mode string) holdem.BettingMode {
	switch mode {
	case "limit":
		return holdem.BettingModeLimit
	case "pot_limit":
		return holdem.BettingModePotLimit
	default:
		return holdem.BettingModeNoLimit
	}
}

func handleRoomState(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/room/"), "/state")
		rm, ok := reg.GetRoom(id)
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		snap := rm.Snapshot()
		for i := range snap.Players {
			snap.Players[i].HandCards = nil
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
