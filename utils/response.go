package utils

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) error {
	return RespondWithJSON(w, code, map[string]string{"error": msg})
}

// RespondWithJSON encodes payload before writing any header, so a payload
// that cannot be encoded turns into a 500 rather than a truncated body.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}` + "\n"))
		return errors.Wrap(err, "encode response")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		return errors.Wrap(err, "write response")
	}
	return nil
}
