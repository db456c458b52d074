package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wcatz/grid-generator/internal/config"
	"github.com/wcatz/grid-generator/internal/generator"
	"github.com/wcatz/grid-generator/internal/grid"
	"github.com/wcatz/grid-generator/internal/store"
)

const maxBody = 1 << 20

// Page handlers

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap := s.board.Snapshot()
	s.renderPage(w, "index.html", map[string]interface{}{
		"Title":      "layout",
		"ConfigPath": s.ConfigPath(),
		"Layout":     s.layout,
		"Snapshot":   snap,
		"Areas":      grid.GridAreas(snap.Config),
		"ColumnFr":   generator.FrTracks(snap.Config.Columns, snap.Config.ColumnFr),
		"RowFr":      generator.FrTracks(snap.Config.Rows, snap.Config.RowFr),
		"Code":       s.code(snap),
		"Gesture":    s.board.Gesture().String(),
	})
}

func (s *Server) handleCodePartial(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, "code.html", s.code(s.board.Snapshot()))
}

func (s *Server) code(snap *grid.Snapshot) generator.Code {
	return generator.GenerateCode(snap, s.Config().GetGenerator().ClassPrefix)
}

// Board handlers

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", 405)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"layout":  s.board.Snapshot(),
		"gesture": s.board.Gesture().String(),
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	var req grid.AddRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	it, err := s.board.AddItem(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleAddAtCell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	var cell grid.Cell
	if !decodeJSON(w, r, &cell) {
		return
	}
	it, err := s.board.AddAtCell(cell)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	var items []grid.Item
	if !decodeJSON(w, r, &items) {
		return
	}
	if err := s.board.UpdateItems(items); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id required", 400)
		return
	}
	var patch grid.ItemPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	it, err := s.board.UpdateItem(id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	id := r.URL.Query().Get("id")
	if !s.board.DeleteItem(id) {
		writeError(w, fmt.Errorf("%w: '%s'", grid.ErrItemNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	s.board.Reset()
	writeJSON(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleGridConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.board.Snapshot().Config)
	case http.MethodPost:
		var patch grid.ConfigPatch
		if !decodeJSON(w, r, &patch) {
			return
		}
		if _, err := s.board.UpdateConfig(patch); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.board.Snapshot())
	default:
		http.Error(w, "method not allowed", 405)
	}
}

func (s *Server) handleSubUnits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.board.SubUnitItems())
	case http.MethodPost:
		var rects map[string]grid.Rect
		if !decodeJSON(w, r, &rects) {
			return
		}
		if err := s.board.ApplySubUnitLayout(rects); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.board.Snapshot())
	default:
		http.Error(w, "method not allowed", 405)
	}
}

// Gesture handlers

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	if err := s.board.BeginDrag(r.URL.Query().Get("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDragEnd resolves a drop. The body is the drag-end event; the grid
// container's box may ride along under "container". A rejected drop is still
// a 200: the client snaps the item back.
func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, "reading body: "+err.Error(), 400)
		return
	}

	out := s.board.OnDragEndJSON(body, containerBox(body))
	if !out.Applied() {
		s.log.Debug("drop rejected", "item", out.ItemID, "reason", out.Message())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"outcome": out,
		"applied": out.Applied(),
		"message": out.Message(),
		"layout":  s.board.Snapshot(),
	})
}

type resizeRequest struct {
	ID        string    `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Container *grid.Box `json:"container,omitempty"`
}

func (s *Server) handleResizeStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	var req resizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var container grid.Box
	if req.Container != nil {
		container = *req.Container
	}
	g, err := s.board.BeginResize(req.ID, req.X, req.Y, container)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleResizeMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	var req resizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	it, err := s.board.ResizeMove(req.X, req.Y)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleResizeEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	it, err := s.board.EndResize()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// Export and document handlers

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", 405)
		return
	}
	code := s.code(s.board.Snapshot())
	format := r.URL.Query().Get("format")
	if format == "" {
		writeJSON(w, http.StatusOK, code)
		return
	}
	body, err := code.Get(format)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, body)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, "reading body: "+err.Error(), 400)
		return
	}
	snap, err := config.DecodeDocument(body)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.board.Load(snap); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, "reading body: "+err.Error(), 400)
		return
	}
	if _, err := config.DecodeDocument(body); err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"valid": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"valid": true})
}

// handleCommit writes the board's items back into a layout of the config
// file, keeping the file's comments.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = s.layout
	}
	if err := validateName(name); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	snap := s.board.Snapshot()
	editor := config.NewYAMLEditor(s.cfgPath)
	if err := editor.SetLayoutItems(name, snap.Config, snap.Items); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if err := s.ReloadConfig(); err != nil {
		http.Error(w, "saved but reload failed: "+err.Error(), 500)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"layout": name, "items": len(snap.Items)})
}

func (s *Server) handleConfigReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	if err := s.ReloadConfig(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "config reloaded"})
}

// Snapshot handlers

func (s *Server) handleSnapshotSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	if !s.requireRepo(w) {
		return
	}
	name := r.URL.Query().Get("name")
	if err := validateName(name); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := s.repo.Save(name, s.board.Snapshot()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"name": name})
}

func (s *Server) handleSnapshotLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	if !s.requireRepo(w) {
		return
	}
	snap, err := s.repo.Load(r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.board.Load(snap); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) handleSnapshotList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", 405)
		return
	}
	if !s.requireRepo(w) {
		return
	}
	infos, err := s.repo.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSnapshotDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	if !s.requireRepo(w) {
		return
	}
	if err := s.repo.Delete(r.URL.Query().Get("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireRepo(w http.ResponseWriter) bool {
	if s.repo == nil {
		http.Error(w, "snapshot store not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// helpers

// containerBox reads the optional container box sent with a drag-end event.
func containerBox(body []byte) grid.Box {
	c := gjson.GetBytes(body, "container")
	return grid.Box{
		Left:   c.Get("left").Float(),
		Top:    c.Get("top").Float(),
		Width:  c.Get("width").Float(),
		Height: c.Get("height").Float(),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), 400)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps engine and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, grid.ErrItemNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, grid.ErrCollision),
		errors.Is(err, grid.ErrOutOfBounds),
		errors.Is(err, grid.ErrNoFreeSlot),
		errors.Is(err, grid.ErrDuplicateID),
		errors.Is(err, grid.ErrGestureActive),
		errors.Is(err, grid.ErrNoGesture):
		return http.StatusConflict
	case errors.Is(err, grid.ErrParse),
		errors.Is(err, grid.ErrInvalidConfig),
		errors.Is(err, grid.ErrInvalidEvent),
		errors.Is(err, config.ErrInvalidDocument):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// validateName checks layout and snapshot names for path and YAML trouble.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name required")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("name cannot contain path separators or null bytes")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("invalid name")
	}
	return nil
}
