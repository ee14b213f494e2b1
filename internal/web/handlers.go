package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/avalight/herobook/internal/game/battle"
	"github.com/avalight/herobook/internal/game/engine"
)

// eventJSON is the wire form of one engine event.
type eventJSON struct {
	Type string `json:"type"`
	Page string `json:"page,omitempty"`
	Mode string `json:"mode,omitempty"`
	Cue  string `json:"cue,omitempty"`
	// Frame fields for tale-frame events.
	Frame    string `json:"frame,omitempty"`
	Terminal bool   `json:"terminal,omitempty"`

	Stats     *engine.StatsView     `json:"stats,omitempty"`
	Inventory *engine.InventoryView `json:"inventory,omitempty"`
}

func encodeEvents(events []engine.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		switch v := ev.(type) {
		case engine.Navigate:
			out = append(out, eventJSON{Type: "navigate", Page: v.Page})
		case engine.ModeChanged:
			out = append(out, eventJSON{Type: "mode", Mode: string(v.Mode)})
		case engine.StatsChanged:
			stats := v.Stats
			out = append(out, eventJSON{Type: "stats", Stats: &stats})
		case engine.InventoryChanged:
			view := v.View
			out = append(out, eventJSON{Type: "inventory", Inventory: &view})
		case engine.Cue:
			out = append(out, eventJSON{Type: "cue", Cue: string(v.Kind)})
		case engine.TaleFrame:
			out = append(out, eventJSON{Type: "tale-frame", Frame: string(v.Target), Terminal: v.Terminal})
		}
	}
	return out
}

// resultResponse is the wire form of a dispatched action's result. Expected
// failures answer 200 with ok=false and the reason, matching the engine's
// non-fatal error taxonomy.
type resultResponse struct {
	OK      bool        `json:"ok"`
	Pending bool        `json:"pending,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Roll    []int       `json:"roll,omitempty"`
	Value   int         `json:"value,omitempty"`
	Events  []eventJSON `json:"events,omitempty"`
	Log     []string    `json:"log,omitempty"`
}

func resultJSON(res *engine.Result, err error) resultResponse {
	out := resultResponse{}
	if err != nil {
		out.Reason = err.Error()
	}
	if res == nil {
		return out
	}
	out.OK = res.OK
	out.Pending = res.Pending
	out.Value = res.Value
	if res.Roll != nil {
		out.Roll = []int{res.Roll.First, res.Roll.Second}
	}
	if res.Turn != nil {
		out.Log = res.Turn.Log[:]
	}
	out.Events = encodeEvents(res.Events)
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response failed", zap.Error(err))
	}
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// bookJSON is the wire form of the shared book presentation data.
type bookJSON struct {
	Title string `json:"title"`
	// StatLabels keeps the content file's order; auxiliary keys ride along
	// as display strings.
	StatLabels []labelJSON       `json:"statLabels"`
	MenuLabels map[string]string `json:"menuLabels"`
}

type labelJSON struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func encodeBook(book BookInfo) bookJSON {
	out := bookJSON{Title: book.Title, MenuLabels: book.MenuLabels}
	if out.MenuLabels == nil {
		out.MenuLabels = map[string]string{}
	}
	for _, l := range book.StatLabels {
		out.StatLabels = append(out.StatLabels, labelJSON{Key: l.Key, Label: l.Label})
	}
	return out
}

// stateResponse is the full session view for GET /api/state.
type stateResponse struct {
	Book      bookJSON             `json:"book"`
	Page      string               `json:"page"`
	Mode      string               `json:"mode"`
	Stats     engine.StatsView     `json:"stats"`
	Inventory engine.InventoryView `json:"inventory"`
	Battle    *battleView          `json:"battle,omitempty"`
}

type battleView struct {
	Enemies      []enemyView `json:"enemies"`
	Target       int         `json:"target"`
	Turn         int         `json:"turn"`
	Log          []string    `json:"log"`
	Finished     bool        `json:"finished"`
	Won          bool        `json:"won"`
	ClickableEnd bool        `json:"clickableEnd"`
}

type enemyView struct {
	Strength  int  `json:"strength"`
	Dexterity int  `json:"dexterity"`
	Alive     bool `json:"alive"`
	Fled      bool `json:"fled"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	entry := s.session(w, r)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	eng := entry.eng
	resp := stateResponse{
		Book:      s.book,
		Page:      eng.State().Page,
		Mode:      string(eng.State().Mode),
		Stats:     eng.StatsView(),
		Inventory: eng.InventoryView(),
	}
	if b := eng.Battle(); b != nil {
		bv := &battleView{
			// Target is reported 1-based to match the wire format.
			Target:       b.Target + 1,
			Turn:         b.Turn,
			Log:          b.Log[:],
			Finished:     b.Finished,
			Won:          b.Won,
			ClickableEnd: b.ClickableEnd,
		}
		for _, e := range b.Enemies {
			bv.Enemies = append(bv.Enemies, enemyView{
				Strength:  e.Strength,
				Dexterity: e.Dexterity,
				Alive:     e.Alive,
				Fled:      e.Fled,
			})
		}
		resp.Battle = bv
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type actionRequest struct {
	Action       string `json:"action"`
	FallbackPage string `json:"fallbackPage,omitempty"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	entry := s.session(w, r)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	res, err := entry.eng.RunAction(req.Action, req.FallbackPage)
	s.writeJSON(w, http.StatusOK, resultJSON(res, err))
}

type battleTurnRequest struct {
	Move string `json:"move"`
}

func (s *Server) handleBattleTurn(w http.ResponseWriter, r *http.Request) {
	var req battleTurnRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	var move battle.Move
	switch req.Move {
	case battle.MoveLunge.String():
		move = battle.MoveLunge
	case battle.MovePirouette.String():
		move = battle.MovePirouette
	default:
		s.writeJSON(w, http.StatusBadRequest,
			resultResponse{Reason: "move must be \"lunge\" or \"pirouette\""})
		return
	}

	entry := s.session(w, r)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	res, err := entry.eng.BattleTurn(move)
	s.writeJSON(w, http.StatusOK, resultJSON(res, err))
}

type battleTargetRequest struct {
	// Target is the 1-based enemy index.
	Target int `json:"target"`
}

func (s *Server) handleBattleTarget(w http.ResponseWriter, r *http.Request) {
	var req battleTargetRequest
	if !s.readJSON(w, r, &req) {
		return
	}

	entry := s.session(w, r)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.eng.SelectBattleTarget(req.Target); err != nil {
		s.writeJSON(w, http.StatusOK, resultResponse{Reason: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, resultResponse{OK: true})
}

func (s *Server) handleBattleFinish(w http.ResponseWriter, r *http.Request) {
	entry := s.session(w, r)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	res, err := entry.eng.FinishBattle()
	s.writeJSON(w, http.StatusOK, resultJSON(res, err))
}
