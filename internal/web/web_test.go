package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/llm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sseEvent struct {
	Name string
	Data map[string]any
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	for _, chunk := range strings.Split(body, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		var ev sseEvent
		var data string
		for _, line := range strings.Split(chunk, "\n") {
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data += strings.TrimPrefix(line, "data:")
			}
		}
		require.NoError(t, json.Unmarshal([]byte(data), &ev.Data), "event %q data %q", ev.Name, data)
		events = append(events, ev)
	}
	return events
}

func longText(n int) string {
	return strings.TrimSpace(strings.Repeat("spark ", n))
}

func newTestRouter(t *testing.T, primary, fallback *llm.MockProvider) *gin.Engine {
	t.Helper()
	cfg := explore.DefaultConfig()
	cfg.StreamDelay = 0
	gen := explore.New(llm.Tiers{Primary: primary, Fallback: fallback}, cfg, nil, nil)

	router, err := NewRouter(gen, nil, Options{Version: "test", PrimaryModel: "o1-mini", FallbackModel: "claude"})
	require.NoError(t, err)
	return router
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIndex(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), llm.NewMockProvider())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "STEM Exploratorium")
	assert.Contains(t, body, "Generated Ideas/Content:")
	assert.Contains(t, body, "Upload an Image for Analysis:")
	assert.Contains(t, body, `<option value="field-trip">Virtual Field Trip</option>`)
	assert.Contains(t, body, "*Response can be according to the Free API*")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), llm.NewMockProvider())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got["status"])
	assert.Equal(t, "o1-mini", got["primary"])
}

func TestGenerate_StreamsAcceptedPrimary(t *testing.T) {
	primary := llm.NewMockProvider(llm.MockResponse{Text: longText(55)})
	fallback := llm.NewMockProvider()
	router := newTestRouter(t, primary, fallback)

	w := postJSON(router, "/api/generate", `{"activity":"challenge","topic":"bridges"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream"))

	events := parseSSE(t, w.Body.String())
	var words, phases []string
	for _, ev := range events {
		switch ev.Name {
		case "word":
			words = append(words, ev.Data["text"].(string))
		case "phase":
			phases = append(phases, ev.Data["phase"].(string))
		case "notice":
			t.Fatalf("unexpected notice for a long primary answer")
		}
	}
	assert.Len(t, words, 55)
	assert.Equal(t, "spark ", words[0])
	assert.Equal(t, []string{"prompt_built", "primary_called", "accepted", "streaming", "idle"}, phases)

	last := events[len(events)-1]
	assert.Equal(t, "done", last.Name)
	assert.Equal(t, "primary", last.Data["tier"])
	assert.Zero(t, fallback.CallCount())

	call, _ := primary.LastCall()
	assert.Equal(t, "Create a STEM challenge for the topic: bridges.", call.Messages[0].Content)
}

func TestGenerate_ShortPrimaryEmitsNoticeAndFallback(t *testing.T) {
	router := newTestRouter(t,
		llm.NewMockProvider(llm.MockResponse{Text: "too short"}),
		llm.NewMockProvider(llm.MockResponse{Text: "a detailed answer"}),
	)

	w := postJSON(router, "/api/generate", `{"activity":"DIY Project","topic":"solar ovens","count":4}`)
	require.Equal(t, http.StatusOK, w.Code)

	events := parseSSE(t, w.Body.String())
	var names []string
	var text strings.Builder
	for _, ev := range events {
		names = append(names, ev.Name)
		if ev.Name == "word" {
			text.WriteString(ev.Data["text"].(string))
		}
		if ev.Name == "notice" {
			assert.Equal(t, explore.ShortResponseNotice, ev.Data["message"])
		}
	}
	assert.Contains(t, names, "notice")
	assert.Equal(t, "a detailed answer ", text.String())

	last := events[len(events)-1]
	assert.Equal(t, "fallback", last.Data["tier"])
	assert.Equal(t, float64(2), last.Data["primary_words"])
}

func TestGenerate_ErrorEvent(t *testing.T) {
	router := newTestRouter(t,
		llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("upstream down")}}),
		llm.NewMockProvider(),
	)

	w := postJSON(router, "/api/generate", `{"activity":"field-trip","topic":"the moon"}`)
	require.Equal(t, http.StatusOK, w.Code)

	events := parseSSE(t, w.Body.String())
	last := events[len(events)-1]
	assert.Equal(t, "error", last.Name)
	assert.Contains(t, last.Data["message"], "upstream down")
}

func TestGenerate_BadRequests(t *testing.T) {
	primary := llm.NewMockProvider()
	router := newTestRouter(t, primary, llm.NewMockProvider())

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty topic", `{"activity":"diy","topic":"   "}`, explore.PromptForInput},
		{"no activity", `{"topic":"bridges"}`, explore.PromptForInput},
		{"null activity", `{"activity":null,"topic":"bridges"}`, explore.PromptForInput},
		{"unknown activity", `{"activity":"quiz","topic":"x"}`, "unknown activity"},
		{"count out of range", `{"activity":"diy","topic":"x","count":11}`, "count must be between"},
		{"malformed json", `{`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/generate", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var got map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Contains(t, got["error"], tt.wantErr)
		})
	}
	assert.Zero(t, primary.CallCount())
}

func multipartImage(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), llm.NewMockProvider())

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 30, 20))))

	body, contentType := multipartImage(t, "image", "robot.png", pngBuf.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got struct {
		Image   map[string]any `json:"image"`
		Message string         `json:"message"`
		Preview string         `json:"preview"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Image uploaded! Further analysis can be integrated.", got.Message)
	assert.Equal(t, "png", got.Image["format"])
	assert.Equal(t, float64(30), got.Image["width"])
	assert.True(t, strings.HasPrefix(got.Preview, "data:image/png;base64,"))
}

func TestUpload_Rejects(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), llm.NewMockProvider())

	body, contentType := multipartImage(t, "image", "notes.txt", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, contentType = multipartImage(t, "file", "robot.png", []byte("x"))
	req = httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecoverWithSentry(t *testing.T) {
	router := newTestRouter(t, llm.NewMockProvider(), llm.NewMockProvider())
	router.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
