package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akozadaev/go_travel_recommender/internal/models"
	"github.com/akozadaev/go_travel_recommender/internal/preferences"
)

type fakeRecommender struct {
	recs  []models.Recommendation
	got   models.PreferenceVector
	topK  int
	calls int
}

func (f *fakeRecommender) GetRecommendations(p models.PreferenceVector, topK int) []models.Recommendation {
	f.got = p
	f.topK = topK
	f.calls++
	return f.recs
}

type fakeStore struct {
	mu      sync.Mutex
	records []*models.ChatRecord
	err     error
}

func (f *fakeStore) SaveChat(_ context.Context, rec *models.ChatRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeAssistant struct {
	topic    preferences.TopicResult
	raw      preferences.Raw
	response string
	refusal  string
	err      error
}

func (f *fakeAssistant) CheckTopic(context.Context, string) (preferences.TopicResult, error) {
	return f.topic, f.err
}

func (f *fakeAssistant) ExtractPreferences(context.Context, string) (preferences.Raw, error) {
	return f.raw, f.err
}

func (f *fakeAssistant) GenerateResponse(context.Context, string, []models.Recommendation) (string, error) {
	return f.response, f.err
}

func (f *fakeAssistant) GenerateRefusal(context.Context, string) (string, error) {
	return f.refusal, f.err
}

func sampleRecs() []models.Recommendation {
	return []models.Recommendation{
		{City: "Đà Lạt", Province: "Lâm Đồng", Region: "Tây Nguyên", Month: 12, AvgTempC: 18, MaxWindKph: 10, TotalPrecipMM: 5, AvgHumidity: 55, Score: 9},
		{City: "Sa Pa", Province: "Lào Cai", Region: "Trung du và miền núi Bắc Bộ", Month: 11, AvgTempC: 17, MaxWindKph: 11, TotalPrecipMM: 6, AvgHumidity: 57, Score: 8.5},
	}
}

func TestHandleEmptyMessage(t *testing.T) {
	s := NewService(&fakeRecommender{}, nil, nil, 5, zerolog.Nop())

	_, err := s.Handle(context.Background(), Input{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestHandleRuleBasedRecommendation(t *testing.T) {
	rec := &fakeRecommender{recs: sampleRecs()}
	store := &fakeStore{}
	s := NewService(rec, nil, store, 5, zerolog.Nop())

	res, err := s.Handle(context.Background(), Input{Message: "Tôi muốn đi núi mát mẻ tháng 12", UserIP: "10.0.0.1"})
	require.NoError(t, err)

	assert.True(t, res.IsTravelRelated)
	assert.Equal(t, sampleRecs(), res.Recommendations)
	assert.Equal(t, TemplateResponse(sampleRecs()), res.Response)
	_, err = uuid.Parse(res.SessionID)
	assert.NoError(t, err)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, 5, rec.topK)
	require.NotNil(t, rec.got.Month)
	assert.Equal(t, 12, *rec.got.Month)
	assert.Equal(t, 20.0, rec.got.AvgTempC)
	assert.Equal(t, "miền núi", *rec.got.Terrain)
	assert.Equal(t, rec.got, res.Preferences)

	require.Len(t, store.records, 1)
	saved := store.records[0]
	assert.Equal(t, "Tôi muốn đi núi mát mẻ tháng 12", saved.UserMessage)
	assert.Equal(t, res.Response, saved.BotResponse)
	assert.Equal(t, "10.0.0.1", saved.UserIP)
	assert.Equal(t, res.SessionID, saved.SessionID)

	var features models.PreferenceVector
	require.NoError(t, json.Unmarshal([]byte(saved.ExtractedFeatures), &features))
	assert.Equal(t, rec.got, features)
	var locations []models.Recommendation
	require.NoError(t, json.Unmarshal([]byte(saved.RecommendedLocations), &locations))
	assert.Len(t, locations, 2)
}

func TestHandleKeepsSessionID(t *testing.T) {
	s := NewService(&fakeRecommender{}, nil, nil, 5, zerolog.Nop())

	res, err := s.Handle(context.Background(), Input{Message: "du lịch biển", SessionID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", res.SessionID)
}

func TestHandleRefusal(t *testing.T) {
	rec := &fakeRecommender{recs: sampleRecs()}
	store := &fakeStore{}
	s := NewService(rec, nil, store, 5, zerolog.Nop())

	res, err := s.Handle(context.Background(), Input{Message: "xin chào"})
	require.NoError(t, err)

	assert.False(t, res.IsTravelRelated)
	assert.Equal(t, tooShortRefusal, res.Response)
	assert.Empty(t, res.Recommendations)
	assert.NotNil(t, res.Recommendations)
	assert.Equal(t, NonTravelPreferences, res.Preferences)
	assert.Zero(t, rec.calls)

	require.Len(t, store.records, 1)
	assert.JSONEq(t, `{"preferences":"non_travel_query"}`, store.records[0].ExtractedFeatures)
	assert.JSONEq(t, `[]`, store.records[0].RecommendedLocations)

	res, err = s.Handle(context.Background(), Input{Message: "giải phương trình bậc hai giúp tôi"})
	require.NoError(t, err)
	assert.Equal(t, defaultRefusal, res.Response)
}

func TestHandleNoResults(t *testing.T) {
	s := NewService(&fakeRecommender{recs: []models.Recommendation{}}, nil, nil, 5, zerolog.Nop())

	res, err := s.Handle(context.Background(), Input{Message: "du lịch tháng 7"})
	require.NoError(t, err)
	assert.True(t, res.IsTravelRelated)
	assert.Equal(t, noResultsMessage, res.Response)
}

func TestHandleStoreFailureDoesNotFail(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	s := NewService(&fakeRecommender{recs: sampleRecs()}, nil, store, 5, zerolog.Nop())

	res, err := s.Handle(context.Background(), Input{Message: "du lịch Đà Lạt"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Response)
}

func TestHandleWithAssistant(t *testing.T) {
	month := 6.0
	temp := 80.0
	rec := &fakeRecommender{recs: sampleRecs()}
	a := &fakeAssistant{
		topic:    preferences.TopicResult{IsTravelRelated: true, Confidence: 0.95},
		raw:      preferences.Raw{Month: &month, AvgTempC: &temp},
		response: "Chào bạn!",
	}
	s := NewService(rec, a, nil, 3, zerolog.Nop())

	res, err := s.Handle(context.Background(), Input{Message: "biển miền Trung 30 độ"})
	require.NoError(t, err)

	assert.Equal(t, "Chào bạn!", res.Response)
	assert.Equal(t, 3, rec.topK)
	// температура вне диапазона заменена найденной правилами
	assert.Equal(t, 30.0, rec.got.AvgTempC)
	assert.Equal(t, 6, *rec.got.Month)
	assert.Equal(t, "ven biển", *rec.got.Terrain)
	assert.Equal(t, "Bắc Trung Bộ và Duyên hải miền Trung", *rec.got.Region)
	assert.Equal(t, preferences.DefaultDescription, rec.got.Preferences)
}

func TestHandleAssistantRefusal(t *testing.T) {
	a := &fakeAssistant{
		topic:   preferences.TopicResult{IsTravelRelated: false, Confidence: 0.9},
		refusal: "Xin lỗi, tôi chỉ tư vấn du lịch.",
	}
	s := NewService(&fakeRecommender{}, a, nil, 5, zerolog.Nop())

	res, err := s.Handle(context.Background(), Input{Message: "ai là tổng thống Mỹ"})
	require.NoError(t, err)
	assert.False(t, res.IsTravelRelated)
	assert.Equal(t, "Xin lỗi, tôi chỉ tư vấn du lịch.", res.Response)
}

func TestHandleAssistantFailureFallsBackToRules(t *testing.T) {
	rec := &fakeRecommender{recs: sampleRecs()}
	a := &fakeAssistant{err: errors.New("llm check_topic: circuit breaker is open")}
	s := NewService(rec, a, nil, 5, zerolog.Nop())

	res, err := s.Handle(context.Background(), Input{Message: "Tôi muốn đi núi mát mẻ tháng 12"})
	require.NoError(t, err)
	assert.True(t, res.IsTravelRelated)
	assert.Equal(t, TemplateResponse(sampleRecs()), res.Response)
	assert.Equal(t, NewService(rec, nil, nil, 5, zerolog.Nop()).rules.Extract("Tôi muốn đi núi mát mẻ tháng 12"), rec.got)

	res, err = s.Handle(context.Background(), Input{Message: "xin chào"})
	require.NoError(t, err)
	assert.Equal(t, tooShortRefusal, res.Response)
}

func TestTemplateResponse(t *testing.T) {
	assert.Equal(t, noResultsMessage, TemplateResponse(nil))

	text := TemplateResponse(sampleRecs())
	assert.Contains(t, text, "1. **Đà Lạt, Lâm Đồng** (Tây Nguyên)")
	assert.Contains(t, text, "Tháng 12")
	assert.Contains(t, text, "18.0°C, gió 10.0km/h, mưa 5.0mm, độ ẩm 55.0%")
	assert.Contains(t, text, "Điểm phù hợp: 9.00")
	assert.Contains(t, text, "2. **Sa Pa, Lào Cai**")

	many := make([]models.Recommendation, 8)
	for i := range many {
		many[i] = sampleRecs()[0]
	}
	text = TemplateResponse(many)
	assert.Contains(t, text, "5. **")
	assert.NotContains(t, text, "6. **")
}
