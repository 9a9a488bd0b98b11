package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/patobeur/inouttracker/internal/apperr"
)

const maxBodyBytes = 1 << 20

// params holds the merged query, form and JSON body values of a request.
type params map[string]string

func (p params) get(key string) string { return strings.TrimSpace(p[key]) }

// raw returns the untrimmed value; passwords are taken as typed.
func (p params) raw(key string) string { return p[key] }

// optional returns nil when key was not supplied at all.
func (p params) optional(key string) *string {
	v, found := p[key]
	if !found {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func (p params) int64(key string) (int64, error) {
	v := p.get(key)
	if v == "" {
		return 0, apperr.Validation(fmt.Sprintf("Missing parameter: %s", key))
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf("Invalid parameter: %s", key))
	}
	return n, nil
}

// parseParams merges query values, form values and a JSON object body.
// JSON keys win over form keys, form keys over query keys.
func parseParams(r *http.Request) (params, error) {
	p := params{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	if r.Body == nil || r.Method == http.MethodGet {
		return p, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, apperr.Validation("Invalid form body.")
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				p[k] = v[0]
			}
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return nil, apperr.Validation("Invalid form body.")
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				p[k] = v[0]
			}
		}
	default:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if err != nil {
			return nil, apperr.Validation("Unable to read request body.")
		}
		if len(body) > maxBodyBytes {
			return nil, apperr.Validation("Request body too large.")
		}
		if len(strings.TrimSpace(string(body))) == 0 {
			return p, nil
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, apperr.Validation("Invalid JSON body.")
		}
		for k, v := range fields {
			if s, ok := scalar(v); ok {
				p[k] = s
			}
		}
	}
	return p, nil
}

// scalar flattens JSON scalars to their form representation.
func scalar(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case nil:
		return "", true
	}
	return "", false
}
