// Package bind turns HTTP requests into validated domain values.
// Every failure is a domain validation error, rendered as 400 VALIDATION_ERROR.
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"maps"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/schema"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/validate"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 2 << 20

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// DecodeJSON decodes the body into T and checks T's rules.
// A Content-Type header, when sent, must be a JSON media type.
func DecodeJSON[T domain.Validatable](w http.ResponseWriter, r *http.Request) (T, error) {
	var body T

	if ct := r.Header.Get("Content-Type"); ct != "" && !isJSON(ct) {
		return body, domain.ValidationError("Expected request with `Content-Type: application/json`")
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return body, domain.ValidationError(decodeMessage(err))
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return body, domain.ValidationError("request body must contain a single JSON value")
	}

	if err := validate.Check(body); err != nil {
		return body, err
	}
	return body, nil
}

// DecodeQuery reads the listing parameters. A missing or zero size becomes def,
// and sizes above limit are lowered to limit (limit == 0 means no cap).
func DecodeQuery(r *http.Request, def, limit uint32) (domain.SearchParams, error) {
	var params domain.SearchParams
	if err := queryDecoder.Decode(&params, r.URL.Query()); err != nil {
		return params, domain.ValidationError(queryMessage(err))
	}
	if params.Tag != nil && *params.Tag == "" {
		params.Tag = nil
	}
	params.Clamp(def, limit)
	return params, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func decodeMessage(err error) string {
	var tooLarge *http.MaxBytesError
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &tooLarge):
		return "request body too large"
	case errors.As(err, &syntax):
		return "malformed JSON: " + syntax.Error()
	case errors.As(err, &typeErr):
		return typeErr.Field + ": wrong type, expected " + typeErr.Type.String()
	default:
		return err.Error()
	}
}

func queryMessage(err error) string {
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return err.Error()
	}
	failures := make([]string, 0, len(multi))
	for _, key := range slices.Sorted(maps.Keys(multi)) {
		failures = append(failures, key+": invalid value")
	}
	return strings.Join(failures, ", ")
}
