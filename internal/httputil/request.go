package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"educreate/internal/config"
)

// ParseJSON decodes a JSON request body into dest. Bodies are capped at
// config.MaxRequestBodyBytes and unknown fields are rejected.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// QueryOptional reads a query parameter with presence tracking:
// ?parentId= and ?parentId=null are both present with a nil value.
func QueryOptional(r *http.Request, key string) OptionalString {
	values, ok := r.URL.Query()[key]
	if !ok {
		return OptionalString{}
	}
	if len(values) == 0 || values[0] == "" || values[0] == "null" {
		return OptionalString{Present: true}
	}
	v := values[0]
	return OptionalString{Present: true, Value: &v}
}
