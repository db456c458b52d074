package server

func (s *Server) registerRoutes() {
	// Pages
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/partials/code", s.handleCodePartial)

	// Board
	s.mux.HandleFunc("/api/layout", s.handleLayout)
	s.mux.HandleFunc("/api/items", s.handleAddItem)
	s.mux.HandleFunc("/api/items/cell", s.handleAddAtCell)
	s.mux.HandleFunc("/api/items/bulk", s.handleBulkUpdate)
	s.mux.HandleFunc("/api/item/update", s.handleUpdateItem)
	s.mux.HandleFunc("/api/item/delete", s.handleDeleteItem)
	s.mux.HandleFunc("/api/reset", s.handleReset)
	s.mux.HandleFunc("/api/grid", s.handleGridConfig)
	s.mux.HandleFunc("/api/subunits", s.handleSubUnits)

	// Gestures
	s.mux.HandleFunc("/api/drag/start", s.handleDragStart)
	s.mux.HandleFunc("/api/drag/end", s.handleDragEnd)
	s.mux.HandleFunc("/api/resize/start", s.handleResizeStart)
	s.mux.HandleFunc("/api/resize/move", s.handleResizeMove)
	s.mux.HandleFunc("/api/resize/end", s.handleResizeEnd)

	// Export and documents
	s.mux.HandleFunc("/api/code", s.handleCode)
	s.mux.HandleFunc("/api/layout/import", s.handleImport)
	s.mux.HandleFunc("/api/layout/validate", s.handleValidate)
	s.mux.HandleFunc("/api/layout/commit", s.handleCommit)

	// Snapshots
	s.mux.HandleFunc("/api/layout/save", s.handleSnapshotSave)
	s.mux.HandleFunc("/api/layout/load", s.handleSnapshotLoad)
	s.mux.HandleFunc("/api/layout/list", s.handleSnapshotList)
	s.mux.HandleFunc("/api/layout/delete", s.handleSnapshotDelete)

	s.mux.HandleFunc("/api/config/reload", s.handleConfigReload)
}
