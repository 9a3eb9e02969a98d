package chat

import (
	"fmt"
	"strings"

	"github.com/akozadaev/go_travel_recommender/internal/models"
	"github.com/akozadaev/go_travel_recommender/internal/preferences"
)

// maxListed ограничивает число направлений в тексте ответа.
const maxListed = 5

const (
	noResultsMessage = "Xin lỗi, tôi không tìm thấy địa điểm nào phù hợp với yêu cầu của bạn. Bạn có thể thử với điều kiện khác không?"

	tooShortRefusal = "Bạn có thể nói rõ hơn về yêu cầu du lịch không? Ví dụ: 'Tôi muốn đi biển miền Trung tháng 6'."
	defaultRefusal  = "Tôi chỉ hỗ trợ về du lịch Việt Nam. Bạn có thể hỏi về địa điểm, thời tiết, thời gian du lịch phù hợp."
)

// TemplateResponse собирает ответ по рекомендациям без языковой модели.
func TemplateResponse(recs []models.Recommendation) string {
	if len(recs) == 0 {
		return noResultsMessage
	}

	var b strings.Builder
	b.WriteString("Dựa trên yêu cầu của bạn, tôi gợi ý những địa điểm sau:\n\n")
	for i, r := range recs {
		if i == maxListed {
			break
		}
		fmt.Fprintf(&b, "%d. **%s, %s** (%s)\n", i+1, r.City, r.Province, r.Region)
		fmt.Fprintf(&b, "   - Thời gian: Tháng %d\n", r.Month)
		fmt.Fprintf(&b, "   - Thời tiết: %.1f°C, gió %.1fkm/h, mưa %.1fmm, độ ẩm %.1f%%\n",
			r.AvgTempC, r.MaxWindKph, r.TotalPrecipMM, r.AvgHumidity)
		fmt.Fprintf(&b, "   - Điểm phù hợp: %.2f\n\n", r.Score)
	}
	b.WriteString("Bạn có muốn biết thêm thông tin về địa điểm nào không?")
	return b.String()
}

// TemplateRefusal возвращает вежливый отказ в зависимости от причины.
func TemplateRefusal(topic preferences.TopicResult) string {
	if topic.TooShort() {
		return tooShortRefusal
	}
	return defaultRefusal
}
