package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/critiqlabs/critiq/internal/critique"
	"github.com/critiqlabs/critiq/internal/extract"
	"github.com/critiqlabs/critiq/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, system string, messages []store.Message) (string, error) {
	s.calls++
	return s.reply, s.err
}

const stubReply = `{"expertAdvice":"a","intermediateGaps":"b","rookieConcepts":"c"}`

func newTestRouter(t *testing.T, gen critique.TextGenerator) *gin.Engine {
	t.Helper()
	st := store.NewFileStore(filepath.Join(t.TempDir(), "conversations.json"))
	svc := critique.NewService(st, gen)
	h := NewHandler(svc, extract.CategoryWriting, 5)
	return SetupRouter(h, Options{CORSOrigin: "*", MaxUploadBytes: 10 << 20})
}

func postCritique(router *gin.Engine, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/critique", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCritique(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("a short story"))

	t.Run("wrong method", func(t *testing.T) {
		router := newTestRouter(t, &stubGenerator{reply: stubReply})

		req := httptest.NewRequest(http.MethodGet, "/api/critique", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
	})

	t.Run("missing payload", func(t *testing.T) {
		router := newTestRouter(t, &stubGenerator{reply: stubReply})

		w := postCritique(router, map[string]any{"bluntness": 3})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"fileBufferBase64 is required"}`, w.Body.String())
	})

	t.Run("invalid base64", func(t *testing.T) {
		router := newTestRouter(t, &stubGenerator{reply: stubReply})

		w := postCritique(router, map[string]any{"fileBufferBase64": "!!! not base64 !!!"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("first request returns initial critique", func(t *testing.T) {
		router := newTestRouter(t, &stubGenerator{reply: stubReply})

		w := postCritique(router, map[string]any{"fileBufferBase64": payload})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			FileID          string `json:"fileId"`
			InitialCritique *struct {
				ExpertAdvice     string `json:"expertAdvice"`
				IntermediateGaps string `json:"intermediateGaps"`
				RookieConcepts   string `json:"rookieConcepts"`
			} `json:"initialCritique"`
			FollowUpReply string `json:"followUpReply"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Len(t, resp.FileID, 64)
		require.NotNil(t, resp.InitialCritique)
		assert.Equal(t, "a", resp.InitialCritique.ExpertAdvice)
		assert.Equal(t, "b", resp.InitialCritique.IntermediateGaps)
		assert.Equal(t, "c", resp.InitialCritique.RookieConcepts)
		assert.Empty(t, resp.FollowUpReply)
	})

	t.Run("repeat request needs no API call", func(t *testing.T) {
		gen := &stubGenerator{reply: stubReply}
		router := newTestRouter(t, gen)

		w := postCritique(router, map[string]any{"fileBufferBase64": payload})
		require.Equal(t, http.StatusOK, w.Code)
		callsAfterFirst := gen.calls

		w = postCritique(router, map[string]any{"fileBufferBase64": payload})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, callsAfterFirst, gen.calls)
	})

	t.Run("follow-up returns reply text", func(t *testing.T) {
		gen := &stubGenerator{reply: stubReply}
		router := newTestRouter(t, gen)

		w := postCritique(router, map[string]any{"fileBufferBase64": payload})
		require.Equal(t, http.StatusOK, w.Code)

		gen.reply = "the pacing is deliberate"
		w = postCritique(router, map[string]any{
			"fileBufferBase64": payload,
			"followUpQuestion": "what about pacing?",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			FileID        string `json:"fileId"`
			FollowUpReply string `json:"followUpReply"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "the pacing is deliberate", resp.FollowUpReply)
	})

	t.Run("service failure maps to 500 with message", func(t *testing.T) {
		router := newTestRouter(t, &stubGenerator{err: errors.New("API error: overloaded")})

		w := postCritique(router, map[string]any{"fileBufferBase64": payload})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"API error: overloaded"}`, w.Body.String())
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{reply: stubReply})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{reply: stubReply})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
