package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type Payload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// MarshalJSON encodes v with HTML-sensitive characters and forward slashes
// escaped, so the output can be embedded in HTML as is.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// a slash can only occur inside a JSON string
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return bytes.ReplaceAll(out, []byte("/"), []byte(`\/`)), nil
}

// JSONResponse sends v as a JSON response with the given status
func JSONResponse(w http.ResponseWriter, status int, v any) {
	body, err := MarshalJSON(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// ErrorResponse sends the failure envelope.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, Payload{
		Success: false,
		Message: message,
	})
}
