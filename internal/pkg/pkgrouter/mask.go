package pkgrouter

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
)

const (
	maxLoggedBodyBytes = 8 << 10
	maskedValue        = "***"
)

// DefaultLogMask lists the keys redacted from request logs: credentials and
// the heart-rate readings themselves.
//
//nolint:gochecknoglobals // read-only
var DefaultLogMask = []string{
	"authorization",
	"proxy-authorization",
	"cookie",
	"set-cookie",
	"x-api-key",
	"heart_rate",
	"heart_rates",
}

type masker struct {
	keys map[string]struct{}
}

func newMasker(keys ...string) masker {
	m := masker{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		m.keys[strings.ToLower(k)] = struct{}{}
	}
	return m
}

func (m masker) sensitive(key string) bool {
	_, found := m.keys[strings.ToLower(key)]
	return found
}

func (m masker) headers(headers http.Header) http.Header {
	result := headers.Clone()
	for key := range result {
		if m.sensitive(key) {
			result.Set(key, maskedValue)
		}
	}
	return result
}

func (m masker) params(ps httprouter.Params) map[string]string {
	if len(ps) == 0 {
		return nil
	}
	out := make(map[string]string, len(ps))
	for _, p := range ps {
		if m.sensitive(p.Key) {
			out[p.Key] = maskedValue
			continue
		}
		out[p.Key] = p.Value
	}
	return out
}

func (m masker) data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		masked := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.sensitive(k) {
				masked[k] = maskedValue
			} else {
				masked[k] = m.data(v2)
			}
		}
		return masked
	case []any:
		res := make([]any, len(val))
		for i, v2 := range val {
			res[i] = m.data(v2)
		}
		return res
	default:
		return v
	}
}

// body renders a captured payload for logging. JSON and form bodies are
// masked key by key, other text is cut at maxLoggedBodyBytes.
func (m masker) body(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var jsonBody any
	if err := json.Unmarshal(body, &jsonBody); err == nil {
		return m.data(jsonBody)
	}

	if strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			masked := make(map[string]any, len(values))
			for k, v := range values {
				switch {
				case m.sensitive(k):
					masked[k] = maskedValue
				case len(v) == 1:
					masked[k] = v[0]
				default:
					masked[k] = v
				}
			}
			return masked
		}
	}

	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	if len(body) > maxLoggedBodyBytes {
		return string(body[:maxLoggedBodyBytes]) + "...(truncated)"
	}
	return string(body)
}
