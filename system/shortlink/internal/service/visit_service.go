package service

import (
	"context"
	"strings"
	"time"

	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"
	"github.com/xsxdot/shortlink/utils"
)

// linkCounter 访问计数相关的链接操作
type linkCounter interface {
	FindById(ctx context.Context, id interface{}) (*model.ShortLink, error)
	IncrementVisitCount(ctx context.Context, id int64) error
}

// visitCreator 访问记录写入
type visitCreator interface {
	Create(ctx context.Context, visit *model.ShortVisit) error
}

// statsInvalidator 用户统计缓存失效
type statsInvalidator interface {
	Invalidate(ctx context.Context, userID int64)
}

// VisitService 访问记录服务
type VisitService struct {
	links  linkCounter
	visits visitCreator
	geo    *GeoService
	stats  statsInvalidator
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewVisitService 创建访问记录服务实例
func NewVisitService(links linkCounter, visits visitCreator, geo *GeoService, stats statsInvalidator, log *logger.Log) *VisitService {
	return &VisitService{
		links:  links,
		visits: visits,
		geo:    geo,
		stats:  stats,
		log:    log.WithEntryName("VisitService"),
		err:    errorc.NewErrorBuilder("VisitService"),
	}
}

// Record 记录一次访问
// 访问数据是尽力而为的遥测（至少一次，而非恰好一次）：
// 链接已不存在时静默跳过；计数使用存储层原子自增，并发写入不丢更新。
// 同一链接的并发记录之间不保证顺序，自增可交换，最终总量正确
func (s *VisitService) Record(ctx context.Context, linkID int64, ip, userAgent string) (*model.ShortVisit, error) {
	link, err := s.links.FindById(ctx, linkID)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	visit := &model.ShortVisit{
		LinkID:    linkID,
		IP:        strings.TrimSpace(ip),
		UserAgent: utils.Truncate(userAgent, model.UserAgentMaxLength),
		VisitedAt: time.Now(),
	}

	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, err
	}

	if err := s.links.IncrementVisitCount(ctx, linkID); err != nil {
		// 明细已落库，计数失败不回滚，由对账任务兜底
		s.log.WithErr(err).WithLinkID(linkID).Error("递增访问计数失败")
	}

	// 地理位置补全，失败或超时只留空，不影响本次记录
	s.geo.Enrich(ctx, visit.ID, visit.IP)

	// 所属用户的统计缓存失效，无属主则跳过
	if link.HasOwner() {
		s.stats.Invalidate(ctx, *link.UserID)
	}

	return visit, nil
}
