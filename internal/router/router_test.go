package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishimitra-go/internal/catalog"
	"krishimitra-go/internal/config"
	"krishimitra-go/internal/handler"
	"krishimitra-go/internal/model"
	"krishimitra-go/internal/repository"
	"krishimitra-go/internal/service"
	"krishimitra-go/pkg/events"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func newTestHandler(t *testing.T, diseaseSvc service.DiseaseService) http.Handler {
	t.Helper()
	cfg := testConfig(t)
	c, err := catalog.Load()
	require.NoError(t, err)

	rnd := rand.New(rand.NewPCG(42, 7))
	if diseaseSvc == nil {
		diseaseSvc = service.NewDiseaseService(repository.NewDiseaseRepository(c), events.Nop{}, rnd)
	}
	return New(cfg, Handlers{
		Health:  handler.NewHealthHandler("krishimitra", "test"),
		Chat:    handler.NewChatHandler(service.NewChatService(repository.NewChatRepository(c))),
		Disease: handler.NewDiseaseHandler(diseaseSvc),
		Price:   handler.NewPriceHandler(service.NewPriceService(repository.NewPriceRepository(c))),
		Weather: handler.NewWeatherHandler(service.NewWeatherService(cfg.Weather.DefaultLocation, rnd, nil)),
	})
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Detail
}

func uploadRequest(t *testing.T, field, fileName string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/detect-disease", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRoot(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message": "Welcome to KrishiMitra AI API"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestChat(t *testing.T) {
	h := newTestHandler(t, nil)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return do(h, req)
	}

	t.Run("trigger in hindi", func(t *testing.T) {
		rec := post(`{"message": "how to TREAT stem borer?", "language": "hi"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp model.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp.Response, "फसलों में तना छेदक"), resp.Response)
		assert.Len(t, resp.Suggestions, 3)
	})

	t.Run("language defaults to english", func(t *testing.T) {
		rec := post(`{"message": "Subsidy for polyhouse?"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp model.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp.Response, "The Government of India offers subsidies"))
	})

	t.Run("fallback", func(t *testing.T) {
		rec := post(`{"message": "weather tomorrow", "language": "hi"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp model.ChatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, strings.HasPrefix(resp.Response, "मुझे अभी तक"))
	})

	t.Run("missing message", func(t *testing.T) {
		rec := post(`{"language": "en"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "field required: message", decodeDetail(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := post(`{"message": 12}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeDetail(t, rec), "Invalid request body")
	})
}

func TestDetectDisease(t *testing.T) {
	h := newTestHandler(t, nil)

	t.Run("rice leaf", func(t *testing.T) {
		rec := do(h, uploadRequest(t, "file", "rice_leaf.jpg"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res model.DetectionResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "Rice Blast", res.Disease)
		assert.GreaterOrEqual(t, res.Confidence, 0.0)
		assert.LessOrEqual(t, res.Confidence, 99.9)
		assert.NotEmpty(t, res.Treatment)
	})

	t.Run("gif is rejected", func(t *testing.T) {
		rec := do(h, uploadRequest(t, "file", "photo.gif"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, handler.InvalidImageDetail, decodeDetail(t, rec))
	})

	t.Run("missing file part", func(t *testing.T) {
		rec := do(h, uploadRequest(t, "image", "rice.jpg"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

type failingDiseaseService struct {
	err   error
	panic bool
}

func (s failingDiseaseService) Detect(context.Context, service.ImageUpload) (model.DetectionResult, error) {
	if s.panic {
		panic("decoder exploded")
	}
	return model.DetectionResult{}, s.err
}

func TestDetectDiseaseUnexpectedFailure(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		h := newTestHandler(t, failingDiseaseService{err: errors.New("disk full")})
		rec := do(h, uploadRequest(t, "file", "leaf.png"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error processing image: disk full", decodeDetail(t, rec))
	})

	t.Run("panic", func(t *testing.T) {
		h := newTestHandler(t, failingDiseaseService{panic: true})
		rec := do(h, uploadRequest(t, "file", "leaf.png"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error processing image: decoder exploded", decodeDetail(t, rec))
	})
}

func TestPrices(t *testing.T) {
	h := newTestHandler(t, nil)

	get := func(query string) []model.PriceRow {
		rec := do(h, httptest.NewRequest(http.MethodGet, "/prices"+query, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var rows []model.PriceRow
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		return rows
	}
	idsOf := func(rows []model.PriceRow) []int {
		out := []int{}
		for _, r := range rows {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Len(t, get(""), 10)
	assert.Equal(t, []int{1, 2, 9}, idsOf(get("?crop=Tomato")))
	assert.Equal(t, []int{2}, idsOf(get("?crop=Tomato&state=Karnataka")))
	assert.Equal(t, []int{1, 2, 9}, idsOf(get("?crop=tomato&state=")))
	assert.Equal(t, []int{7}, idsOf(get("?market=KARNAL&crop=Rice")))
	assert.Equal(t, idsOf(get("?crop=Potato")), idsOf(get("?crop=Potato")))

	rec := do(h, httptest.NewRequest(http.MethodGet, "/prices?crop=Mango", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(h, httptest.NewRequest(http.MethodGet, "/prices?crop=Tomato&state=Karnataka", nil))
	assert.JSONEq(t, `[{
		"id": 2, "crop": "Tomato", "variety": "Hybrid", "price": 2450, "unit": "quintal",
		"market": "Bengaluru", "state": "Karnataka", "trend": "up", "change": 8.7,
		"lastUpdated": "2023-12-01"
	}]`, rec.Body.String())
}

func TestPriceFilters(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/prices/filters", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var facets model.PriceFacets
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &facets))
	assert.Equal(t, []string{"Onion", "Potato", "Rice", "Tomato", "Wheat"}, facets.Crops)
	assert.Equal(t, []string{"down", "stable", "up"}, facets.Trends)
}

func TestWeather(t *testing.T) {
	h := newTestHandler(t, nil)

	for i := 0; i < 2; i++ {
		rec := do(h, httptest.NewRequest(http.MethodGet, "/weather?location=Pune", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var w struct {
			Location string `json:"location"`
			Current  struct {
				Humidity float64 `json:"humidity"`
				Updated  string  `json:"updated"`
			} `json:"current"`
			Forecast []struct {
				Date                string  `json:"date"`
				Humidity            float64 `json:"humidity"`
				PrecipitationChance float64 `json:"precipitation_chance"`
			} `json:"forecast"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
		assert.Equal(t, "Pune", w.Location)
		assert.NotEmpty(t, w.Current.Updated)
		require.Len(t, w.Forecast, 5)
		for _, d := range w.Forecast {
			assert.Len(t, d.Date, len("2006-01-02"))
			assert.True(t, d.Humidity >= 0 && d.Humidity <= 100)
			assert.True(t, d.PrecipitationChance >= 0 && d.PrecipitationChance <= 100)
		}
	}

	rec := do(h, httptest.NewRequest(http.MethodGet, "/weather", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"location":"New Delhi"`)
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t, nil)
	origin := "http://localhost:3000"

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom-Header")

		rec := do(h, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("actual request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/prices", nil)
		req.Header.Set("Origin", "https://example.org")

		rec := do(h, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestRequestID(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = do(h, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeDetail(t, rec))

	rec = do(h, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestChatWebsocket(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"message": "best fertilizer for wheat?"}))
	var reply model.ChatResponse
	require.NoError(t, conn.ReadJSON(&reply))
	assert.True(t, strings.HasPrefix(reply.Response, "For wheat cultivation"))
	assert.Len(t, reply.Suggestions, 3)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var errFrame map[string]string
	require.NoError(t, conn.ReadJSON(&errFrame))
	assert.Contains(t, errFrame["error"], "invalid message")

	// 错误帧之后连接仍然可用
	require.NoError(t, conn.WriteJSON(map[string]string{"message": "hello", "language": "en"}))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.True(t, strings.HasPrefix(reply.Response, "I don't have specific information"))

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
}
