package service

import (
	"context"
	"fmt"
	"time"

	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"

	"github.com/go-redis/cache/v9"
)

// ResolvedLink 短码解析结果，缓存的就是这个结构
// TargetURL 创建后不可变，因此条目过期前的陈旧无害
type ResolvedLink struct {
	LinkID    int64  `json:"linkId"`
	TargetURL string `json:"targetUrl"`
}

// linkLookup 短码到链接的查询
type linkLookup interface {
	FindByCode(ctx context.Context, code string) (*model.ShortLink, error)
}

// ResolverService 短码解析服务（读穿透缓存）
type ResolverService struct {
	lookup linkLookup
	cache  *cache.Cache
	ttl    time.Duration
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewResolverService 创建短码解析服务实例
func NewResolverService(lookup linkLookup, cacheClient *cache.Cache, ttl time.Duration, log *logger.Log) *ResolverService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResolverService{
		lookup: lookup,
		cache:  cacheClient,
		ttl:    ttl,
		log:    log.WithEntryName("ResolverService"),
		err:    errorc.NewErrorBuilder("ResolverService"),
	}
}

// Resolve 解析短码
// 缓存命中时不访问数据库；未命中则回源并以固定TTL写入缓存。
// 同一短码的并发未命中各自回源重写，载荷幂等，无需加锁。
// 短码不存在返回 NotFound（终态，不重试）；缓存或数据库故障原样上抛，
// 跳转主路径上的静默错路比可见失败更糟。
func (s *ResolverService) Resolve(ctx context.Context, code string) (*ResolvedLink, error) {
	if code == "" {
		return nil, s.err.New("短码不能为空", nil).ValidWithCtx()
	}

	var resolved *ResolvedLink
	err := s.cache.Once(&cache.Item{
		Key:   s.cacheKey(code),
		Value: &resolved,
		TTL:   s.ttl,
		Do: func(*cache.Item) (interface{}, error) {
			link, err := s.lookup.FindByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if !link.Enabled {
				return nil, s.err.New("短链接已禁用", nil).NotFound()
			}
			return &ResolvedLink{
				LinkID:    link.ID,
				TargetURL: link.TargetURL,
			}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return resolved, nil
}

// Invalidate 清除短码的解析缓存（删除或禁用链接时调用）
func (s *ResolverService) Invalidate(ctx context.Context, code string) {
	if code == "" {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(code)); err != nil && err != cache.ErrCacheMiss {
		s.log.WithErr(err).WithField("code", code).Warn("清除解析缓存失败")
	}
}

func (s *ResolverService) cacheKey(code string) string {
	return fmt.Sprintf("shortlink:code:%s", code)
}
