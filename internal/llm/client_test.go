package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// fakeOpenAI отвечает на /v1/chat/completions фиксированным содержимым.
func fakeOpenAI(t *testing.T, content string, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(srv *httptest.Server) *Client {
	return New(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, zerolog.Nop())
}

func TestCheckTopic(t *testing.T) {
	srv, _ := fakeOpenAI(t, "Kết quả:\n{\n  \"is_travel_related\": false,\n  \"confidence\": 0.95,\n  \"reason\": \"toán học\",\n}", http.StatusOK)

	r, err := newTestClient(srv).CheckTopic(context.Background(), "2+2 bằng mấy?")
	require.NoError(t, err)
	assert.False(t, r.IsTravelRelated)
	assert.InDelta(t, 0.95, r.Confidence, 1e-9)
	assert.Equal(t, "toán học", r.Reason)
	assert.True(t, r.ShouldRefuse())
}

func TestExtractPreferences(t *testing.T) {
	srv, _ := fakeOpenAI(t, `{"avgtemp_c": 20, "maxwind_kph": null, "month": 12, "region": null, "terrain": "miền núi", "preferences": "núi mát mẻ"}`, http.StatusOK)

	raw, err := newTestClient(srv).ExtractPreferences(context.Background(), "núi mát mẻ tháng 12")
	require.NoError(t, err)
	require.NotNil(t, raw.AvgTempC)
	assert.Equal(t, 20.0, *raw.AvgTempC)
	assert.Nil(t, raw.MaxWindKph)
	require.NotNil(t, raw.Month)
	assert.Equal(t, 12.0, *raw.Month)
	assert.Nil(t, raw.Region)
	assert.Equal(t, "miền núi", *raw.Terrain)
}

func TestExtractPreferencesNoJSON(t *testing.T) {
	srv, _ := fakeOpenAI(t, "Xin lỗi, tôi không hiểu.", http.StatusOK)

	_, err := newTestClient(srv).ExtractPreferences(context.Background(), "???")
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestGenerateResponse(t *testing.T) {
	srv, _ := fakeOpenAI(t, "  Chào bạn! Đà Lạt rất hợp.  ", http.StatusOK)

	recs := []models.Recommendation{{City: "Đà Lạt", Province: "Lâm Đồng", Month: 12, Score: 9}}
	text, err := newTestClient(srv).GenerateResponse(context.Background(), "nơi mát mẻ", recs)
	require.NoError(t, err)
	assert.Equal(t, "Chào bạn! Đà Lạt rất hợp.", text)
}

func TestServerErrorTripsBreaker(t *testing.T) {
	srv, calls := fakeOpenAI(t, "", http.StatusInternalServerError)
	c := newTestClient(srv)

	for i := 0; i < 3; i++ {
		_, err := c.GenerateRefusal(context.Background(), "2+2")
		require.Error(t, err)
	}
	require.Equal(t, int32(3), calls.Load())

	_, err := c.GenerateRefusal(context.Background(), "2+2")
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	// открытый breaker не пропускает запрос к серверу
	assert.Equal(t, int32(3), calls.Load())
}

func TestDecodeJSONObject(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, decodeJSONObject("prefix {\"a\": 1,} suffix", &v))
	assert.Equal(t, 1, v.A)

	assert.ErrorIs(t, decodeJSONObject("no json here", &v), ErrNoJSON)
	assert.Error(t, decodeJSONObject("{not json}", &v))
}
