package llm

const topicSystemPrompt = "Bạn là một AI chuyên phân tích chủ đề câu hỏi."

const topicPromptTemplate = `Hãy xác định xem câu hỏi sau có liên quan đến du lịch Việt Nam hay không.

Câu hỏi: "%s"

Liên quan đến du lịch: địa điểm, thành phố, tỉnh thành Việt Nam; thời tiết, khí hậu cho chuyến đi;
thời gian du lịch (tháng, mùa); địa hình (biển, núi, đồng bằng); vùng miền (Bắc, Trung, Nam);
nơi nghỉ dưỡng; lập kế hoạch du lịch.

Không liên quan: toán học, khoa học, lập trình, y học, kinh tế, chính trị, giáo dục, người nổi tiếng,
câu hỏi chung chung không rõ ràng.

Trả về JSON: {"is_travel_related": true/false, "confidence": 0.0-1.0, "reason": "lý do ngắn gọn"}
Chỉ trả về JSON, không có text khác.`

const extractionSystemPrompt = "Bạn là một AI chuyên phân tích yêu cầu du lịch."

const extractionPromptTemplate = `Phân tích câu hỏi sau và trích xuất điều kiện thời tiết mong muốn, vùng miền, địa hình và thời gian.

Câu hỏi: "%s"

Trả về JSON với các trường:
- avgtemp_c: nhiệt độ trung bình mong muốn (°C), 15-35
- maxwind_kph: tốc độ gió tối đa (km/h), 5-30
- totalprecip_mm: lượng mưa (mm), 0-30
- avghumidity: độ ẩm trung bình (%%), 50-90
- cloud_cover_mean: độ che phủ mây (%%), 0-100
- month: tháng du lịch 1-12, null nếu không đề cập ("mùa xuân" 2, "mùa hè" 6, "mùa thu" 9, "mùa đông" 12, "mùa khô" 4, "mùa mưa" 8)
- region: một trong "Trung du và miền núi Bắc Bộ", "Đồng bằng sông Hồng", "Bắc Trung Bộ và Duyên hải miền Trung", "Tây Nguyên", "Đông Nam Bộ", "Đồng bằng sông Cửu Long", hoặc null
- terrain: một trong "miền núi", "ven biển", "đồng bằng", hoặc null
- preferences: mô tả ngắn gọn về sở thích du lịch

Chỉ trả về JSON, không có text khác.`

const responseSystemPrompt = "Bạn là một chuyên gia tư vấn du lịch Việt Nam thân thiện. Chỉ trả lời về du lịch trong nước."

const responsePromptTemplate = `Dựa trên yêu cầu du lịch: "%s"

Tôi đã tìm được những địa điểm phù hợp sau:

%s
Hãy viết một phản hồi tự nhiên, thân thiện để giới thiệu những địa điểm này: chào người dùng,
giải thích ngắn gọn vì sao chúng phù hợp, mô tả thời tiết từng nơi, kết thúc bằng lời khuyên
hoặc câu hỏi. Viết bằng tiếng Việt, tối đa 300 từ.`

const refusalSystemPrompt = "Bạn là trợ lý du lịch Việt Nam. Từ chối lịch sự câu hỏi không liên quan và hướng dẫn về du lịch."

const refusalPromptTemplate = "Câu hỏi: '%s' không liên quan du lịch. Hãy từ chối lịch sự và hướng dẫn."
