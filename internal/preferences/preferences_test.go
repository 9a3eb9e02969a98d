package preferences

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func TestValidateDefaults(t *testing.T) {
	p := Validate(Raw{})

	assert.Equal(t, 25.0, p.AvgTempC)
	assert.Equal(t, 15.0, p.MaxWindKph)
	assert.Equal(t, 10.0, p.TotalPrecipMM)
	assert.Equal(t, 70.0, p.AvgHumidity)
	assert.Equal(t, 50.0, p.CloudCoverMean)
	assert.Nil(t, p.Month)
	assert.Nil(t, p.Region)
	assert.Nil(t, p.Terrain)
	assert.Equal(t, DefaultDescription, p.Preferences)
}

func TestValidateClamps(t *testing.T) {
	p := Validate(Raw{
		AvgTempC:       f(50),
		MaxWindKph:     f(1),
		TotalPrecipMM:  f(-3),
		AvgHumidity:    f(95),
		CloudCoverMean: f(math.NaN()),
		Month:          f(13.7),
		Region:         s("Tây Nguyên"),
		Terrain:        s(""),
		Preferences:    s("leo núi"),
	})

	assert.Equal(t, 35.0, p.AvgTempC)
	assert.Equal(t, 5.0, p.MaxWindKph)
	assert.Equal(t, 0.0, p.TotalPrecipMM)
	assert.Equal(t, 90.0, p.AvgHumidity)
	assert.Equal(t, 50.0, p.CloudCoverMean)
	require.NotNil(t, p.Month)
	assert.Equal(t, 12, *p.Month)
	require.NotNil(t, p.Region)
	assert.Equal(t, "Tây Nguyên", *p.Region)
	assert.Nil(t, p.Terrain)
	assert.Equal(t, "leo núi", p.Preferences)

	low := Validate(Raw{Month: f(0)})
	require.NotNil(t, low.Month)
	assert.Equal(t, 1, *low.Month)
}

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, [5]float64{27, 15, 10, 65, 60}, [5]float64(p.Features()))
	assert.Nil(t, p.Month)
	assert.Equal(t, DefaultDescription, p.Preferences)
}

func TestFromVectorRoundTrip(t *testing.T) {
	m := 7
	p := Default()
	p.Month = &m
	p.Terrain = s("ven biển")

	assert.Equal(t, p, Validate(FromVector(p)))
}

func TestCheckTopic(t *testing.T) {
	x := NewRuleExtractor()

	cases := []struct {
		text       string
		travel     bool
		confidence float64
		refuse     bool
	}{
		{"Tôi muốn đi biển miền Trung tháng 6", true, 0.8, false},
		{"Đà Lạt có gì vui?", true, 0.8, false},
		{"gió ở đây có mạnh không", true, 0.6, false},
		{"xin chào", false, 0.9, true},
		{"giải phương trình bậc hai giúp tôi", false, 0.7, true},
	}
	for _, tc := range cases {
		r := x.CheckTopic(tc.text)
		assert.Equal(t, tc.travel, r.IsTravelRelated, tc.text)
		assert.InDelta(t, tc.confidence, r.Confidence, 1e-9, tc.text)
		assert.Equal(t, tc.refuse, r.ShouldRefuse(), tc.text)
	}

	assert.True(t, x.CheckTopic("hello").TooShort())
	assert.False(t, x.CheckTopic("giải phương trình bậc hai giúp tôi").TooShort())
}

func TestCheckTopicDecomposedInput(t *testing.T) {
	r := NewRuleExtractor().CheckTopic(norm.NFD.String("Du lịch Hội An"))
	assert.True(t, r.IsTravelRelated)
}

func TestExtractMonth(t *testing.T) {
	cases := map[string]int{
		"đi chơi tháng 1":       1,
		"đi chơi tháng 10":      10,
		"đi chơi tháng 11":      11,
		"đi chơi tháng 12 nhé":  12,
		"tháng mười":            10,
		"tháng mười một":        11,
		"tháng mười hai":        12,
		"Tháng Tư":              4,
		"tháng bảy đi biển":     7,
		"vào THÁNG 3, trời đẹp": 3,
	}
	x := NewRuleExtractor()
	for text, want := range cases {
		p := x.Extract(text)
		require.NotNil(t, p.Month, text)
		assert.Equal(t, want, *p.Month, text)
	}

	assert.Nil(t, x.Extract("tháng 15").Month)
	assert.Nil(t, x.Extract("đi chơi").Month)
}

func TestExtractMonthRequiresSeparateWords(t *testing.T) {
	x := NewRuleExtractor()
	for _, text := range []string{
		"đi chơi thánghai",
		"thángmười một",
		"xtháng 3",
		"đi chơi tháng mườihai",
	} {
		assert.Nil(t, x.Extract(text).Month, text)
	}

	p := x.Extract("đi chơi tháng12")
	require.NotNil(t, p.Month)
	assert.Equal(t, 12, *p.Month)
}

func TestExtract(t *testing.T) {
	x := NewRuleExtractor()

	p := x.Extract("Tôi muốn nơi mát mẻ 20 độ C vào tháng 12")
	assert.Equal(t, 20.0, p.AvgTempC)
	assert.Equal(t, 15.0, p.MaxWindKph)
	assert.Equal(t, 10.0, p.TotalPrecipMM)
	assert.Equal(t, 65.0, p.AvgHumidity)
	assert.Equal(t, 60.0, p.CloudCoverMean)
	require.NotNil(t, p.Month)
	assert.Equal(t, 12, *p.Month)
	assert.Nil(t, p.Region)
	assert.Nil(t, p.Terrain)
	assert.Equal(t, "du lịch tháng 12, 20°C", p.Preferences)

	p = x.Extract("Du lịch biển miền Trung, ít mưa, trời quang, độ ẩm 75%")
	assert.Equal(t, 27.0, p.AvgTempC)
	assert.Equal(t, 75.0, p.AvgHumidity)
	assert.Equal(t, 10.0, p.TotalPrecipMM)
	assert.Equal(t, 20.0, p.CloudCoverMean)
	require.NotNil(t, p.Region)
	assert.Equal(t, "Bắc Trung Bộ và Duyên hải miền Trung", *p.Region)
	require.NotNil(t, p.Terrain)
	assert.Equal(t, "ven biển", *p.Terrain)
	assert.Equal(t, "du lịch độ ẩm 75%, mưa 10mm, mây 20%, Bắc Trung Bộ và Duyên hải miền Trung, ven biển", p.Preferences)
}

func TestExtractNothingFound(t *testing.T) {
	assert.Equal(t, Default(), NewRuleExtractor().Extract("Tôi muốn đi chơi"))
}

func TestExtractWind(t *testing.T) {
	x := NewRuleExtractor()

	assert.Equal(t, 8.0, x.Extract("đi chơi nơi gió nhẹ").MaxWindKph)
	assert.Equal(t, 6.0, x.Extract("tôi không thích gió").MaxWindKph)
	assert.Equal(t, 12.0, x.Extract("gió khoảng 12km/h").MaxWindKph)
	// вне диапазона и без ключевых слов: значение по умолчанию
	assert.Equal(t, 15.0, x.Extract("đi chơi 50 km/h").MaxWindKph)
}

func TestExtractPercentCloudVersusHumidity(t *testing.T) {
	p := NewRuleExtractor().Extract("đi chơi 30% mây, 60%")
	assert.Equal(t, 30.0, p.CloudCoverMean)
	assert.Equal(t, 60.0, p.AvgHumidity)
}

func TestExtractTerrainAndRegion(t *testing.T) {
	x := NewRuleExtractor()

	p := x.Extract("Tôi thích leo núi ở Tây Nguyên")
	require.NotNil(t, p.Region)
	assert.Equal(t, "Tây Nguyên", *p.Region)
	require.NotNil(t, p.Terrain)
	assert.Equal(t, "miền núi", *p.Terrain)

	p = x.Extract("về nông thôn miền Tây")
	assert.Equal(t, "Đồng bằng sông Cửu Long", *p.Region)
	assert.Equal(t, "đồng bằng", *p.Terrain)
}

func TestRepairMissing(t *testing.T) {
	raw := Raw{
		AvgTempC:    f(50),
		AvgHumidity: f(60),
		Terrain:     s("miền núi"),
	}
	repaired := RepairMissing(raw, "biển miền nam tháng 2, 22 độ, gió nhẹ")

	require.NotNil(t, repaired.AvgTempC)
	assert.Equal(t, 22.0, *repaired.AvgTempC)
	assert.Equal(t, 8.0, *repaired.MaxWindKph)
	assert.Equal(t, 60.0, *repaired.AvgHumidity)
	assert.Equal(t, 2.0, *repaired.Month)
	assert.Equal(t, "Đồng bằng sông Cửu Long", *repaired.Region)
	// уже заданное поле не перезаписывается
	assert.Equal(t, "miền núi", *repaired.Terrain)
	assert.Nil(t, repaired.TotalPrecipMM)
}

func TestRepairMissingKeepsOutOfRangeWhenNothingFound(t *testing.T) {
	repaired := RepairMissing(Raw{AvgTempC: f(50)}, "đi chơi")
	assert.Equal(t, 50.0, *repaired.AvgTempC)
	assert.Equal(t, 35.0, Validate(repaired).AvgTempC)
}
