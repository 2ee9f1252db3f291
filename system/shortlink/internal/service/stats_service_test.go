package service

import (
	"context"
	"testing"
	"time"

	"github.com/xsxdot/shortlink/pkg/core/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOwnerLinkSource 模拟的链接聚合查询
type fakeOwnerLinkSource struct {
	totalLinks  int64
	totalClicks int64
	calls       int
}

func (f *fakeOwnerLinkSource) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	f.calls++
	return f.totalLinks, nil
}

func (f *fakeOwnerLinkSource) SumVisitsByUserID(ctx context.Context, userID int64) (int64, error) {
	return f.totalClicks, nil
}

// fakeOwnerVisitSource 模拟的访问聚合查询
type fakeOwnerVisitSource struct {
	topCountry string
}

func (f *fakeOwnerVisitSource) TopCountryByUserID(ctx context.Context, userID int64) (string, error) {
	return f.topCountry, nil
}

// TestGetStats_ComputesAggregates 测试统计聚合计算
// 两个链接计数3+2，国家分布 {MY:3, US:1}
func TestGetStats_ComputesAggregates(t *testing.T) {
	links := &fakeOwnerLinkSource{totalLinks: 2, totalClicks: 5}
	visits := &fakeOwnerVisitSource{topCountry: "MY"}
	svc := NewStatsService(links, visits, newTestCache(), 2*time.Minute, logger.InitLogger("debug"))

	stats, err := svc.GetStats(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalLinks)
	assert.Equal(t, int64(5), stats.TotalClicks)
	assert.Equal(t, "MY", stats.TopLocation)
}

// TestGetStats_CachesResult 测试TTL内命中缓存不重复计算
func TestGetStats_CachesResult(t *testing.T) {
	links := &fakeOwnerLinkSource{totalLinks: 2, totalClicks: 5}
	visits := &fakeOwnerVisitSource{topCountry: "MY"}
	svc := NewStatsService(links, visits, newTestCache(), 2*time.Minute, logger.InitLogger("debug"))

	ctx := context.Background()

	_, err := svc.GetStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, links.calls)

	_, err = svc.GetStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, links.calls, "TTL内不应重复回源计算")
}

// TestInvalidate_ForcesRecompute 测试失效后重新计算
func TestInvalidate_ForcesRecompute(t *testing.T) {
	links := &fakeOwnerLinkSource{totalLinks: 2, totalClicks: 5}
	visits := &fakeOwnerVisitSource{topCountry: "MY"}
	svc := NewStatsService(links, visits, newTestCache(), 2*time.Minute, logger.InitLogger("debug"))

	ctx := context.Background()

	_, err := svc.GetStats(ctx, 10)
	require.NoError(t, err)

	// 写路径触发失效后，下一次读取重新计算
	links.totalClicks = 6
	svc.Invalidate(ctx, 10)

	stats, err := svc.GetStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, links.calls)
	assert.Equal(t, int64(6), stats.TotalClicks)
}

// TestGetStats_IsolatesOwners 测试不同用户的缓存互不影响
func TestGetStats_IsolatesOwners(t *testing.T) {
	links := &fakeOwnerLinkSource{totalLinks: 2, totalClicks: 5}
	visits := &fakeOwnerVisitSource{topCountry: "MY"}
	svc := NewStatsService(links, visits, newTestCache(), 2*time.Minute, logger.InitLogger("debug"))

	ctx := context.Background()

	_, err := svc.GetStats(ctx, 10)
	require.NoError(t, err)
	_, err = svc.GetStats(ctx, 11)
	require.NoError(t, err)

	assert.Equal(t, 2, links.calls, "不同用户各自回源")
}
