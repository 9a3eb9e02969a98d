package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/health", "200"))
	RecordAPIRequest("GET", "/health", "200", 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/health", "200"))

	assert.Equal(t, before+1, after)
}

func TestRecordDatasetReload(t *testing.T) {
	okBefore := testutil.ToFloat64(DatasetReloadsTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(DatasetReloadsTotal.WithLabelValues("error"))

	RecordDatasetReload(120, nil)
	assert.Equal(t, 120.0, testutil.ToFloat64(DatasetRows))

	RecordDatasetReload(0, errors.New("broken csv"))
	// при ошибке размер живого датасета не меняется
	assert.Equal(t, 120.0, testutil.ToFloat64(DatasetRows))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(DatasetReloadsTotal.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(DatasetReloadsTotal.WithLabelValues("error")))
}

func TestRecordChatAndLLM(t *testing.T) {
	chatBefore := testutil.ToFloat64(ChatRequestsTotal.WithLabelValues("refused"))
	llmBefore := testutil.ToFloat64(LLMCallsTotal.WithLabelValues("check_topic", "fallback"))

	RecordChat("refused")
	RecordLLMCall("check_topic", "fallback")
	RecordChatStoreError()
	RecordRecommendations(5)

	assert.Equal(t, chatBefore+1, testutil.ToFloat64(ChatRequestsTotal.WithLabelValues("refused")))
	assert.Equal(t, llmBefore+1, testutil.ToFloat64(LLMCallsTotal.WithLabelValues("check_topic", "fallback")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(ChatStoreErrors), 1.0)
}
