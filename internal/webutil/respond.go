package webutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// WriteJSON serializes body and writes it with the given status code.
// Serialization failures degrade to a generic 500 so no handler ever
// leaks a half-written body.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	buf, err := json.Marshal(body)
	if err != nil {
		buf = []byte(`{"success":false,"error":"Internal server error"}`)
		status = http.StatusInternalServerError
	}
	writeRaw(w, status, buf)
}

// WriteJSONWithETag behaves like WriteJSON and tags the response with a
// weak content hash, so admin UIs polling the listings can skip
// unchanged payloads.
func WriteJSONWithETag(w http.ResponseWriter, status int, body interface{}) {
	buf, err := json.Marshal(body)
	if err != nil {
		WriteJSON(w, status, body)
		return
	}
	w.Header().Set("ETag", fmt.Sprintf(`"%016x"`, xxhash.Sum64(buf)))
	writeRaw(w, status, buf)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]interface{}{"success": false, "error": msg})
}

func writeRaw(w http.ResponseWriter, status int, buf []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}
