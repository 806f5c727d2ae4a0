package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON body with the given status. Encoding failures
// after the header is written cannot be reported to the client anymore.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
