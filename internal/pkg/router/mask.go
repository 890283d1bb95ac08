package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/trimly/internal/pkg/config"
)

const maxLoggedBodyBytes = 32 * 1024

const masked = "***"

// secretKeys are masked in request logs regardless of configuration.
var secretKeys = []string{"otp", "code", "code_hash", "authorization", "access_token", "x-session-token"}

func maskKeys(cfg config.Config) map[string]struct{} {
	fields := secretKeys
	if cfg != nil {
		fields = append(cfg.GetArray("instrument.log_mask_fields"), secretKeys...)
	}

	keys := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys[f] = struct{}{}
		}
	}
	return keys
}

func isMasked(keys map[string]struct{}, k string) bool {
	_, ok := keys[strings.ToLower(k)]
	return ok
}

func maskHeaders(h http.Header, keys map[string]struct{}) http.Header {
	out := h.Clone()
	for k := range out {
		if isMasked(keys, k) {
			out.Set(k, masked)
		}
	}
	return out
}

func maskURI(u *url.URL, keys map[string]struct{}) string {
	q := u.Query()
	if len(q) == 0 {
		return u.Path
	}
	for k := range q {
		if isMasked(keys, k) {
			q.Set(k, masked)
		}
	}
	return u.Path + "?" + q.Encode()
}

func maskValue(v any, keys map[string]struct{}) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if isMasked(keys, k) {
				out[k] = masked
				continue
			}
			out[k] = maskValue(item, keys)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = maskValue(item, keys)
		}
		return out
	default:
		return v
	}
}

// peekBody reads up to maxLoggedBodyBytes and restores r.Body for the handler.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	return head
}

func maskBody(contentType string, body []byte, keys map[string]struct{}) any {
	if len(body) == 0 {
		return nil
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err == nil {
		return maskValue(doc, keys)
	}

	if strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			out := make(map[string]any, len(values))
			for k, v := range values {
				if isMasked(keys, k) {
					out[k] = masked
				} else {
					out[k] = strings.Join(v, ",")
				}
			}
			return out
		}
	}

	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	return string(body)
}

func responseBody(rec *statusRecorder, keys map[string]struct{}) any {
	if rec.body.Len() == 0 {
		return nil
	}

	body := maskBody("", rec.body.Bytes(), keys)
	if rec.capped {
		return map[string]any{"body": body, "truncated": true}
	}
	return body
}
