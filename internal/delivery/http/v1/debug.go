package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	maxDebugBodySize = 64 << 10
	redacted         = "[REDACTED]"
)

var (
	authPathKeywords = []string{"login", "register", "refresh", "auth"}
	sensitiveKeys    = []string{"password", "token", "secret", "key"}

	sensitiveRawPattern = regexp.MustCompile(
		`(?i)("?[\w-]*(?:password|token|secret|key)[\w-]*"?\s*[:=]\s*)("(?:[^"\\]|\\.)*"|[^&,\s}]*)`,
	)
)

// NewDebugRequestMiddleware logs bodies of write requests to
// authentication endpoints with credentials masked. It never aborts
// and always leaves the body readable for the next handlers.
func NewDebugRequestMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAuthWriteRequest(c.Request) {
			logAuthRequest(logger, c.Request)
		}
		c.Next()
	}
}

func isAuthWriteRequest(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}

	path := strings.ToLower(r.URL.Path)
	for _, keyword := range authPathKeywords {
		if strings.Contains(path, keyword) {
			return true
		}
	}
	return false
}

func logAuthRequest(logger zerolog.Logger, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn().
				Interface("panic", rec).
				Msg("debug request logging failed")
		}
	}()

	if r.Body == nil || r.Body == http.NoBody {
		return
	}

	src := r.Body
	body, err := io.ReadAll(io.LimitReader(src, maxDebugBodySize))
	r.Body = struct {
		io.Reader
		io.Closer
	}{
		Reader: io.MultiReader(bytes.NewReader(body), src),
		Closer: src,
	}
	if err != nil {
		logger.Warn().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to read auth request body")
		return
	}

	var parsed any
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		logger.Debug().
			Str("path", r.URL.Path).
			Str("raw_body", redactRaw(body)).
			Msg("auth request received (undecodable body)")
		return
	}

	logger.Debug().
		Str("path", r.URL.Path).
		Interface("body", redactValue(parsed)).
		Msg("auth request received")
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func redactValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			if isSensitiveKey(key) {
				out[key] = redacted
				continue
			}
			out[key] = redactValue(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = redactValue(value)
		}
		return out
	default:
		return v
	}
}

func redactRaw(body []byte) string {
	return sensitiveRawPattern.ReplaceAllString(string(body), "${1}"+redacted)
}
