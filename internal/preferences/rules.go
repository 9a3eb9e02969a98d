package preferences

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// Граница слова с учётом вьетнамских букв: \b в RE2 знает только ASCII.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

type monthPattern struct {
	month int
	re    *regexp.Regexp
}

// Порядок важен: «tháng 12» и «tháng mười hai» проверяются раньше «tháng 1» и «tháng mười».
var monthPatterns = []monthPattern{
	{12, monthRe(`12`, `mười\s+hai`)},
	{11, monthRe(`11`, `mười\s+một`)},
	{10, monthRe(`10`, `mười`)},
	{1, monthRe(`1`, `một`)},
	{2, monthRe(`2`, `hai`)},
	{3, monthRe(`3`, `ba`)},
	{4, monthRe(`4`, `tư`)},
	{5, monthRe(`5`, `năm`)},
	{6, monthRe(`6`, `sáu`)},
	{7, monthRe(`7`, `bảy`)},
	{8, monthRe(`8`, `tám`)},
	{9, monthRe(`9`, `chín`)},
}

// monthRe: «tháng» отдельным словом, затем число (пробел необязателен) или числительное через пробел.
func monthRe(digits, word string) *regexp.Regexp {
	return regexp.MustCompile(wordStart + `tháng(?:\s*(?:` + digits + `)|\s+(?:` + word + `))` + wordEnd)
}

type keywordValue struct {
	re    *regexp.Regexp
	value float64
}

type numericRule struct {
	patterns []*regexp.Regexp
	keywords []keywordValue
	valid    Range
}

var (
	tempRule = numericRule{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:độ|°)`),
			regexp.MustCompile(`nhiệt\s*độ\s*(\d+(?:\.\d+)?)`),
		},
		keywords: []keywordValue{
			{regexp.MustCompile(`mát\s*mẻ|lạnh`), 20},
			{regexp.MustCompile(`nóng|ấm\s*áp`), 30},
			{regexp.MustCompile(`ôn\s*hòa|dễ\s*chịu`), 25},
		},
		valid: TempRange,
	}
	windRule = numericRule{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(\d+(?:\.\d+)?)\s*km/?h`),
			regexp.MustCompile(`gió\s*(\d+(?:\.\d+)?)`),
		},
		keywords: []keywordValue{
			{regexp.MustCompile(`không\s*thích\s*gió|ít\s*gió`), 6},
			{regexp.MustCompile(`gió\s*nhẹ`), 8},
			{regexp.MustCompile(`gió\s*mạnh`), 25},
		},
		valid: WindRange,
	}
	humidRule = numericRule{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`độ\s*ẩm\s*(\d+(?:\.\d+)?)`),
		},
		keywords: []keywordValue{
			{regexp.MustCompile(`khô\s*ráo|khô`), 55},
			{regexp.MustCompile(`ẩm\s*ướt|ẩm`), 80},
			{regexp.MustCompile(`vừa\s*phải`), 70},
		},
		valid: HumidRange,
	}
	precipRule = numericRule{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(\d+(?:\.\d+)?)\s*mm` + wordEnd),
			regexp.MustCompile(`mưa\s*(\d+(?:\.\d+)?)`),
		},
		keywords: []keywordValue{
			{regexp.MustCompile(`không\s*mưa`), 0},
			{regexp.MustCompile(`ít\s*mưa|khô\s*ráo`), 10},
			{regexp.MustCompile(`mưa\s*vừa|bình\s*thường`), 20},
			{regexp.MustCompile(`mưa\s*nhiều|mùa\s*mưa`), 30},
		},
		valid: PrecipRange,
	}
	cloudRule = numericRule{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s*mây`),
			regexp.MustCompile(`mây\s*(\d+(?:\.\d+)?)`),
		},
		keywords: []keywordValue{
			{regexp.MustCompile(`trời\s*quang|ít\s*mây`), 20},
			{regexp.MustCompile(`nhiều\s*mây|u\s*ám`), 80},
			{regexp.MustCompile(`mây\s*vừa|bình\s*thường`), 50},
		},
		valid: CloudRange,
	}

	// проценты без слова «mây» после них относятся к влажности
	humidPercent = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%(\s*mây)?`)
)

type categoryPattern struct {
	value string
	re    *regexp.Regexp
}

var regionPatterns = []categoryPattern{
	{"Tây Nguyên", regexp.MustCompile(`tây\s*nguyên|đà\s*lạt`)},
	{"Đồng bằng sông Hồng", regexp.MustCompile(`hà\s*nội|hải\s*phòng|miền\s*bắc`)},
	{"Đồng bằng sông Cửu Long", regexp.MustCompile(`cần\s*thơ|miền\s*nam|miền\s*tây`)},
	{"Bắc Trung Bộ và Duyên hải miền Trung", regexp.MustCompile(`miền\s*trung|huế|đà\s*nẵng|nha\s*trang`)},
}

var terrainPatterns = []categoryPattern{
	{"ven biển", regexp.MustCompile(`biển`)},
	{"miền núi", regexp.MustCompile(`núi`)},
	{"đồng bằng", regexp.MustCompile(`đồng\s*bằng|nông\s*thôn`)},
}

var (
	travelKeywords = regexp.MustCompile(strings.Join([]string{
		`du\s*lịch`, `đi\s*chơi`, `nghỉ\s*dưỡng`, `tham\s*quan`, `tour`,
		`địa\s*điểm\s*du\s*lịch`, `nơi\s*du\s*lịch`, `điểm\s*đến`,
		`thành\s*phố`, `tỉnh`, `vùng`, `khu\s*vực`,
		`miền\s*bắc`, `miền\s*trung`, `miền\s*nam`, `tây\s*nguyên`,
		`bắc\s*bộ`, `trung\s*bộ`, `nam\s*bộ`,
		`biển`, `núi`, `đồng\s*bằng`, `ngắm\s*cảnh`, `phong\s*cảnh`,
		`thời\s*tiết.*du\s*lịch`, `khí\s*hậu.*du\s*lịch`,
		`thời\s*tiết.*tháng`, `khí\s*hậu.*tháng`,
		`mát\s*mẻ`, `nóng.*du\s*lịch`, `lạnh.*du\s*lịch`,
		`mùa\s*khô`, `mùa\s*mưa`, `mùa\s*xuân`, `mùa\s*hè`, `mùa\s*thu`, `mùa\s*đông`,
		`hà\s*nội`, `sài\s*gòn`, `tp\s*hồ\s*chí\s*minh`, `đà\s*nẵng`,
		`huế`, `nha\s*trang`, `hạ\s*long`, `sa\s*pa`, `đà\s*lạt`,
		`phú\s*quốc`, `cần\s*thơ`, `hội\s*an`, `vũng\s*tàu`,
		`khách\s*sạn`, `resort`, `homestay`, `lưu\s*trú`,
		`món\s*ngon.*địa\s*phương`, `đặc\s*sản`, `ẩm\s*thực.*du\s*lịch`,
		`lễ\s*hội`, `văn\s*hóa.*du\s*lịch`,
		`gợi\s*ý.*địa\s*điểm`, `nên\s*đi.*đâu`,
		`muốn\s*đi.*biển`, `muốn\s*đi.*núi`,
	}, "|"))

	contextKeywords = regexp.MustCompile(wordStart +
		`(?:tháng|mùa|gió|độ\s*ẩm|nhiệt\s*độ|thời\s*tiết|khí\s*hậu)` + wordEnd)
)

// Причины из CheckTopic.
const (
	ReasonTravelKeywords  = "Chứa từ khóa du lịch rõ ràng"
	ReasonContextKeywords = "Có từ khóa liên quan, có thể về du lịch"
	ReasonTooShort        = "Câu quá ngắn, cần nói rõ hơn về du lịch"
	ReasonNoKeywords      = "Không chứa từ khóa du lịch"
)

// RefusalThreshold задаёт уверенность, выше которой нетуристический вопрос отклоняется.
const RefusalThreshold = 0.6

// TopicResult представляет результат проверки, относится ли вопрос к путешествиям.
type TopicResult struct {
	IsTravelRelated bool    `json:"is_travel_related"`
	Confidence      float64 `json:"confidence"`
	Reason          string  `json:"reason"`
}

// ShouldRefuse сообщает, нужно ли вежливо отказать вместо подбора направлений.
func (r TopicResult) ShouldRefuse() bool {
	return !r.IsTravelRelated && r.Confidence > RefusalThreshold
}

// TooShort сообщает, что вопрос отклонён из-за краткости.
func (r TopicResult) TooShort() bool {
	return strings.Contains(r.Reason, "quá ngắn")
}

// RuleExtractor извлекает пожелания и тему вопроса регулярными выражениями.
// Не имеет состояния и безопасен для конкурентного использования.
type RuleExtractor struct{}

// NewRuleExtractor создаёт извлекатель на правилах.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// CheckTopic определяет, относится ли текст к путешествиям по Вьетнаму.
func (RuleExtractor) CheckTopic(text string) TopicResult {
	s := normalize(text)
	words := len(strings.Fields(s))

	switch {
	case travelKeywords.MatchString(s):
		return TopicResult{IsTravelRelated: true, Confidence: 0.8, Reason: ReasonTravelKeywords}
	case contextKeywords.MatchString(s) && words >= 4:
		return TopicResult{IsTravelRelated: true, Confidence: 0.6, Reason: ReasonContextKeywords}
	case words < 3:
		return TopicResult{IsTravelRelated: false, Confidence: 0.9, Reason: ReasonTooShort}
	default:
		return TopicResult{IsTravelRelated: false, Confidence: 0.7, Reason: ReasonNoKeywords}
	}
}

// Extract строит пожелания из текста: значения по умолчанию, перекрытые всем, что удалось извлечь.
func (x RuleExtractor) Extract(text string) models.PreferenceVector {
	s := normalize(text)
	p := Default()

	var parts []string
	if m, ok := extractMonth(s); ok {
		p.Month = &m
		parts = append(parts, "tháng "+strconv.Itoa(m))
	}
	if v, ok := tempRule.extract(s); ok {
		p.AvgTempC = v
		parts = append(parts, formatFloat(v)+"°C")
	}
	if v, ok := windRule.extract(s); ok {
		p.MaxWindKph = v
		parts = append(parts, "gió "+formatFloat(v)+"km/h")
	}
	if v, ok := extractHumidity(s); ok {
		p.AvgHumidity = v
		parts = append(parts, "độ ẩm "+formatFloat(v)+"%")
	}
	if v, ok := precipRule.extract(s); ok {
		p.TotalPrecipMM = v
		parts = append(parts, "mưa "+formatFloat(v)+"mm")
	}
	if v, ok := cloudRule.extract(s); ok {
		p.CloudCoverMean = v
		parts = append(parts, "mây "+formatFloat(v)+"%")
	}
	if r, ok := matchCategory(s, regionPatterns); ok {
		p.Region = &r
		parts = append(parts, r)
	}
	if t, ok := matchCategory(s, terrainPatterns); ok {
		p.Terrain = &t
		parts = append(parts, t)
	}

	if len(parts) > 0 {
		p.Preferences = "du lịch " + strings.Join(parts, ", ")
	}
	return p
}

// RepairMissing дополняет пожелания, полученные от языковой модели: отсутствующие
// и вышедшие за диапазон поля заменяются тем, что нашли правила.
// Поле, которое правила не нашли, остаётся как есть и позже обрабатывается Validate.
func RepairMissing(raw Raw, text string) Raw {
	s := normalize(text)

	if raw.Month == nil {
		if m, ok := extractMonth(s); ok {
			raw.Month = ptr(float64(m))
		}
	}
	raw.AvgTempC = repair(raw.AvgTempC, TempRange, func() (float64, bool) { return tempRule.extract(s) })
	raw.MaxWindKph = repair(raw.MaxWindKph, WindRange, func() (float64, bool) { return windRule.extract(s) })
	raw.AvgHumidity = repair(raw.AvgHumidity, HumidRange, func() (float64, bool) { return extractHumidity(s) })
	raw.TotalPrecipMM = repair(raw.TotalPrecipMM, PrecipRange, func() (float64, bool) { return precipRule.extract(s) })
	raw.CloudCoverMean = repair(raw.CloudCoverMean, CloudRange, func() (float64, bool) { return cloudRule.extract(s) })
	if raw.Region == nil {
		if r, ok := matchCategory(s, regionPatterns); ok {
			raw.Region = &r
		}
	}
	if raw.Terrain == nil {
		if t, ok := matchCategory(s, terrainPatterns); ok {
			raw.Terrain = &t
		}
	}
	return raw
}

func repair(v *float64, r Range, fallback func() (float64, bool)) *float64 {
	if v != nil && r.Contains(*v) {
		return v
	}
	if fb, ok := fallback(); ok {
		return &fb
	}
	return v
}

func (r numericRule) extract(s string) (float64, bool) {
	for _, re := range r.patterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil && r.valid.Contains(v) {
			return v, true
		}
	}
	return keyword(s, r.keywords)
}

func extractHumidity(s string) (float64, bool) {
	for _, m := range humidPercent.FindAllStringSubmatch(s, -1) {
		if m[2] != "" {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil && HumidRange.Contains(v) {
			return v, true
		}
		break
	}
	return humidRule.extract(s)
}

func extractMonth(s string) (int, bool) {
	for _, mp := range monthPatterns {
		if mp.re.MatchString(s) {
			return mp.month, true
		}
	}
	return 0, false
}

func keyword(s string, keywords []keywordValue) (float64, bool) {
	for _, k := range keywords {
		if k.re.MatchString(s) {
			return k.value, true
		}
	}
	return 0, false
}

func matchCategory(s string, patterns []categoryPattern) (string, bool) {
	for _, p := range patterns {
		if p.re.MatchString(s) {
			return p.value, true
		}
	}
	return "", false
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(text)))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
