// Package apitest holds helpers shared by the HTTP handler tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/academix/records/internal/token"
	"github.com/gin-gonic/gin"
)

// Secret signs every token minted by these helpers
const Secret = "test-secret-key-minimum-32-chars"

// Envelope mirrors the JSON body written by pkg/response
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// Tokens returns a token service keyed with Secret
func Tokens(t *testing.T) *token.Service {
	t.Helper()
	tokens, err := token.NewService(Secret)
	if err != nil {
		t.Fatalf("token.NewService() failed: %v", err)
	}
	return tokens
}

// Bearer builds an Authorization header value for the given principal
func Bearer(tokens *token.Service, userID int64, email, role string) string {
	return token.TokenTypeBearer + " " + tokens.Issue(userID, email, role)
}

// Do sends a request through router. body, when non-nil, is JSON-encoded
// unless it is already a string.
func Do(t *testing.T, router http.Handler, method, path string, body any, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		if payload, err = json.Marshal(b); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// Decode parses the response envelope, optionally unmarshalling data into out
func Decode(t *testing.T, rec *httptest.ResponseRecorder, out any) Envelope {
	t.Helper()

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

func init() {
	gin.SetMode(gin.TestMode)
}
