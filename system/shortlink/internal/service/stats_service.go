package service

import (
	"context"
	"fmt"
	"time"

	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"

	"github.com/go-redis/cache/v9"
)

// OwnerStats 用户维度的汇总统计
type OwnerStats struct {
	TotalLinks  int64  `json:"totalLinks"`
	TotalClicks int64  `json:"totalClicks"`
	TopLocation string `json:"topLocation"`
}

// ownerLinkSource 用户链接聚合查询
type ownerLinkSource interface {
	CountByUserID(ctx context.Context, userID int64) (int64, error)
	SumVisitsByUserID(ctx context.Context, userID int64) (int64, error)
}

// ownerVisitSource 用户访问聚合查询
type ownerVisitSource interface {
	TopCountryByUserID(ctx context.Context, userID int64) (string, error)
}

// StatsService 用户统计服务（cache-aside）
// 短TTL加显式失效避免看板读放大为全表聚合；
// 正确性窗口以TTL加失效延迟为界，读旁路的瞬时陈旧可接受
type StatsService struct {
	links  ownerLinkSource
	visits ownerVisitSource
	cache  *cache.Cache
	ttl    time.Duration
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewStatsService 创建用户统计服务实例
func NewStatsService(links ownerLinkSource, visits ownerVisitSource, cacheClient *cache.Cache, ttl time.Duration, log *logger.Log) *StatsService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &StatsService{
		links:  links,
		visits: visits,
		cache:  cacheClient,
		ttl:    ttl,
		log:    log.WithEntryName("StatsService"),
		err:    errorc.NewErrorBuilder("StatsService"),
	}
}

// GetStats 获取用户汇总统计（读穿透缓存）
func (s *StatsService) GetStats(ctx context.Context, userID int64) (*OwnerStats, error) {
	var stats *OwnerStats
	err := s.cache.Once(&cache.Item{
		Key:   s.cacheKey(userID),
		Value: &stats,
		TTL:   s.ttl,
		Do: func(*cache.Item) (interface{}, error) {
			return s.computeStats(ctx, userID)
		},
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// computeStats 回源计算用户统计
func (s *StatsService) computeStats(ctx context.Context, userID int64) (*OwnerStats, error) {
	totalLinks, err := s.links.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalClicks, err := s.links.SumVisitsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	topLocation, err := s.visits.TopCountryByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &OwnerStats{
		TotalLinks:  totalLinks,
		TotalClicks: totalClicks,
		TopLocation: topLocation,
	}, nil
}

// Invalidate 清除用户统计缓存
// 两条写路径调用：为该用户创建链接、该用户链接上的任何访问记录
func (s *StatsService) Invalidate(ctx context.Context, userID int64) {
	if err := s.cache.Delete(ctx, s.cacheKey(userID)); err != nil && err != cache.ErrCacheMiss {
		s.log.WithErr(err).WithUserID(userID).Warn("清除统计缓存失败")
	}
}

func (s *StatsService) cacheKey(userID int64) string {
	return fmt.Sprintf("shortlink:stats:user:%d", userID)
}
