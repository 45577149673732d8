package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"entertablock.io/internal/auth"
	"entertablock.io/internal/payout"
	"entertablock.io/internal/registry"
)

const wsWriteTimeout = 10 * time.Second

type listActivityResponse struct {
	Items     []registry.Activity `json:"items"`
	NextAfter uint64              `json:"next_after"`
	AsOf      time.Time           `json:"as_of"`
}

type listJournalResponse struct {
	Items     []registry.JournalEntry `json:"items"`
	NextAfter uint64                  `json:"next_after"`
	AsOf      time.Time               `json:"as_of"`
}

type listPayoutsResponse struct {
	Items     []payout.Transfer `json:"items"`
	NextAfter uint64            `json:"next_after"`
	AsOf      time.Time         `json:"as_of"`
}

type fundRequest struct {
	Identity string `json:"identity"`
	Amount   int64  `json:"amount"`
}

type walletResponse struct {
	Identity registry.Identity `json:"identity"`
	Amount   int64             `json:"amount"`
}

func (a *API) mountFeeds(r chi.Router) {
	r.Get("/v1/activity", a.listActivity)
	r.Get("/v1/stream", a.Stream)
	r.Get("/v1/stream/ws", a.StreamWS)
	r.Get("/v1/journal", a.listJournal)
	r.Route("/v1/payouts", func(r chi.Router) {
		r.Use(RequireRole(auth.RoleOperator))
		r.Get("/", a.listPayouts)
		r.Post("/fund", a.fundWallet)
		r.Get("/wallets/{identity}", a.getWallet)
	})
}

func (a *API) listActivity(w http.ResponseWriter, r *http.Request) {
	if a.stream == nil {
		writeError(w, r, http.StatusServiceUnavailable, "streaming disabled")
		return
	}
	limit, after, ok := pageParams(w, r)
	if !ok {
		return
	}
	items := a.stream.Recent(limit, after)
	next := after
	if n := len(items); n > 0 {
		next = items[n-1].Sequence
	}
	writeJSON(w, http.StatusOK, listActivityResponse{Items: items, NextAfter: next, AsOf: time.Now().UTC()})
}

func (a *API) listJournal(w http.ResponseWriter, r *http.Request) {
	if a.journal == nil {
		writeError(w, r, http.StatusNotImplemented, "journal requires a durable store")
		return
	}
	limit, after, ok := pageParams(w, r)
	if !ok {
		return
	}
	items, next, err := a.journal.Journal(r.Context(), limit, after)
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listJournalResponse{Items: items, NextAfter: next, AsOf: time.Now().UTC()})
}

func (a *API) listPayouts(w http.ResponseWriter, r *http.Request) {
	if a.payouts == nil {
		writeError(w, r, http.StatusNotImplemented, "payout journal unavailable")
		return
	}
	limit, after, ok := pageParams(w, r)
	if !ok {
		return
	}
	items, next, err := a.payouts.List(r.Context(), limit, after)
	if err != nil {
		handleRegistryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listPayoutsResponse{Items: items, NextAfter: next, AsOf: time.Now().UTC()})
}

func (a *API) fundWallet(w http.ResponseWriter, r *http.Request) {
	if a.payouts == nil {
		writeError(w, r, http.StatusNotImplemented, "payout journal unavailable")
		return
	}
	var req fundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	id, ok := identityParam(w, r, req.Identity)
	if !ok {
		return
	}
	tx, err := a.payouts.Fund(r.Context(), id, req.Amount)
	if err != nil {
		if errors.Is(err, payout.ErrInvalidAmount) || errors.Is(err, payout.ErrInvalidIdentity) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		handleRegistryError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (a *API) getWallet(w http.ResponseWriter, r *http.Request) {
	if a.payouts == nil {
		writeError(w, r, http.StatusNotImplemented, "payout journal unavailable")
		return
	}
	id, ok := pathIdentity(w, r, "identity")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{Identity: id, Amount: a.payouts.Wallet(r.Context(), id)})
}

func pageParams(w http.ResponseWriter, r *http.Request) (int, uint64, bool) {
	limit, err := parsePositiveInt(r.URL.Query().Get("limit"), 100, 1, 1000)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	after, err := parseAfter(r.URL.Query().Get("after"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return 0, 0, false
	}
	return limit, after, true
}

// subscribe replays history after the requested sequence, then forwards live
// activities, skipping any already replayed.
func (a *API) subscribe(ctx context.Context, r *http.Request, send func(registry.Activity) error) error {
	var types []string
	for _, t := range strings.Split(r.URL.Query().Get("types"), ",") {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	live := a.stream.Subscribe(ctx, types...)

	// An operation may emit several activities under one sequence, so the
	// activities already sent at the last sequence are tracked by type.
	var last, floor uint64
	sent := map[string]bool{}
	forward := func(act registry.Activity) error {
		if act.Sequence <= floor || act.Sequence < last || (act.Sequence == last && sent[act.Type]) {
			return nil
		}
		if act.Sequence > last {
			last = act.Sequence
			clear(sent)
		}
		sent[act.Type] = true
		return send(act)
	}

	if raw := r.URL.Query().Get("after"); raw != "" {
		after, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return errors.New("after must be a non-negative integer")
		}
		floor = after
		for _, act := range a.stream.Recent(0, after) {
			if len(types) > 0 && !slices.Contains(types, act.Type) {
				continue
			}
			if err := forward(act); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case act, ok := <-live:
			if !ok {
				return nil
			}
			if err := forward(act); err != nil {
				return err
			}
		}
	}
}

// Stream handles Server-Sent Events for registry activities.
func (a *API) Stream(w http.ResponseWriter, r *http.Request) {
	if a.stream == nil {
		http.Error(w, "streaming disabled", http.StatusServiceUnavailable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Send an initial comment to establish the stream
	_, _ = w.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	_ = a.subscribe(ctx, r, func(act registry.Activity) error {
		payload, err := json.Marshal(act)
		if err != nil {
			return nil
		}
		if _, err := w.Write([]byte("id: " + strconv.FormatUint(act.Sequence, 10) + "\nevent: " + act.Type + "\ndata: ")); err != nil {
			return err
		}
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
		return nil
	})
}

// StreamWS pushes the same activities over a WebSocket.
func (a *API) StreamWS(w http.ResponseWriter, r *http.Request) {
	if a.stream == nil {
		http.Error(w, "streaming disabled", http.StatusServiceUnavailable)
		return
	}
	patterns := []string{"localhost:*", "127.0.0.1:*"}
	for _, o := range a.origins {
		o = strings.TrimPrefix(strings.TrimPrefix(o, "https://"), "http://")
		if o != "" {
			patterns = append(patterns, o)
		}
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: patterns})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "stream closed")

	// Reads are ignored; CloseRead cancels ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())
	err = a.subscribe(ctx, r, func(act registry.Activity) error {
		data, err := json.Marshal(act)
		if err != nil {
			return nil
		}
		writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
		defer cancel()
		return conn.Write(writeCtx, websocket.MessageText, data)
	})
	if err != nil && websocket.CloseStatus(err) == -1 {
		_ = conn.Close(websocket.StatusInternalError, "stream error")
	}
}
