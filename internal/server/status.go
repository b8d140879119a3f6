package server

import "net/http"

type statusResp struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Upload  string `json:"upload"`
}

var serviceStatus = statusResp{
	Message: "Backend do Archaeology World funcionando!",
	Status:  "✅ Online",
	Upload:  "Use POST /upload para enviar imagens",
}

// handleStatus answers GET / with a fixed liveness payload. It never looks
// at the storage directory.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serviceStatus)
}
