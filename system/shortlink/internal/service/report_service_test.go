package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/system/shortlink/internal/dao"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReportVisitSource 模拟的报表数据源
type fakeReportVisitSource struct {
	countries []dao.CountryCount
	times     []time.Time
	visits    []*model.ShortVisit
	limit     int
}

func (f *fakeReportVisitSource) CountByCountry(ctx context.Context, linkID int64) ([]dao.CountryCount, error) {
	return f.countries, nil
}

func (f *fakeReportVisitSource) ListVisitTimes(ctx context.Context, linkID int64) ([]time.Time, error) {
	return f.times, nil
}

func (f *fakeReportVisitSource) ListByLinkID(ctx context.Context, linkID int64, limit int) ([]*model.ShortVisit, error) {
	f.limit = limit
	return f.visits, nil
}

// TestBuild_ByCountryExcludesMissing 测试按国家统计（未补全国家不计入由DAO保证）
func TestBuild_ByCountryExcludesMissing(t *testing.T) {
	source := &fakeReportVisitSource{
		countries: []dao.CountryCount{
			{Country: "MY", Count: 3},
			{Country: "US", Count: 1},
		},
	}
	svc := NewReportService(source, logger.InitLogger("debug"))

	report, err := svc.Build(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"MY": 3, "US": 1}, report.ByCountry)
}

// TestBuild_ByHourNormalizesToUTC 测试小时分桶统一按UTC截断
// 不同时区表示的同一时刻必须落入同一个桶
func TestBuild_ByHourNormalizesToUTC(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	newYork := time.FixedZone("EST", -5*3600)

	source := &fakeReportVisitSource{
		times: []time.Time{
			// 2024-03-01 10:30 UTC 的三种表示
			time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
			time.Date(2024, 3, 1, 18, 30, 0, 0, shanghai),
			time.Date(2024, 3, 1, 5, 30, 0, 0, newYork),
			// 另一个小时
			time.Date(2024, 3, 1, 11, 5, 0, 0, time.UTC),
		},
	}
	svc := NewReportService(source, logger.InitLogger("debug"))

	report, err := svc.Build(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"2024-03-01T10:00:00Z": 3,
		"2024-03-01T11:00:00Z": 1,
	}, report.ByHour)

	// 分桶键按字典序即时间序
	keys := make([]string, 0, len(report.ByHour))
	for k := range report.ByHour {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"2024-03-01T10:00:00Z", "2024-03-01T11:00:00Z"}, keys)
}

// TestBuild_RecentEventsFormat 测试最近访问的条数上限与时间戳格式
func TestBuild_RecentEventsFormat(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	visit := &model.ShortVisit{
		LinkID:      1,
		Country:     "United States",
		Geolocation: "Mountain View, United States",
		VisitedAt:   time.Date(2024, 3, 1, 18, 30, 45, 123_000_000, shanghai),
	}
	visit.ID = 1

	source := &fakeReportVisitSource{visits: []*model.ShortVisit{visit}}
	svc := NewReportService(source, logger.InitLogger("debug"))

	report, err := svc.Build(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, RecentEventLimit, source.limit, "最近访问条数应受上限约束")
	require.Len(t, report.RecentEvents, 1)

	event := report.RecentEvents[0]
	assert.Equal(t, "2024-03-01T10:30:45.123Z", event.Timestamp, "时间戳应为毫秒精度UTC ISO-8601")
	assert.Equal(t, "United States", event.Country)
	assert.Equal(t, "Mountain View, United States", event.Geolocation)
}

// TestHourBucket 测试分桶键生成
func TestHourBucket(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	assert.Equal(t, "2024-03-01T10:00:00Z", HourBucket(time.Date(2024, 3, 1, 18, 59, 59, 0, shanghai)))
	assert.Equal(t, "2024-03-01T10:00:00Z", HourBucket(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
}

// TestFormatEventTime 测试事件时间戳格式
func TestFormatEventTime(t *testing.T) {
	assert.Equal(t, "2024-03-01T10:30:45.000Z",
		FormatEventTime(time.Date(2024, 3, 1, 10, 30, 45, 0, time.UTC)))
}
