package service

import (
	"context"
	"time"

	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/system/shortlink/internal/dao"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"
)

const (
	// RecentEventLimit 报表最近访问条数上限，限制高流量链接的响应体积
	RecentEventLimit = 200

	// hourBucketLayout 小时分桶键格式（UTC）
	hourBucketLayout = "2006-01-02T15:00:00Z"
	// eventTimeLayout 访问事件时间戳格式：毫秒精度ISO-8601，UTC时显式输出Z
	eventTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// VisitEvent 报表中的单条访问事件
type VisitEvent struct {
	Timestamp   string `json:"timestamp"`
	Country     string `json:"country"`
	Geolocation string `json:"geolocation"`
}

// LinkReport 单个链接的访问分析报表
type LinkReport struct {
	ByCountry    map[string]int64 `json:"byCountry"`
	ByHour       map[string]int64 `json:"byHour"`
	RecentEvents []VisitEvent     `json:"recentEvents"`
}

// reportVisitSource 报表所需的访问记录查询
type reportVisitSource interface {
	CountByCountry(ctx context.Context, linkID int64) ([]dao.CountryCount, error)
	ListVisitTimes(ctx context.Context, linkID int64) ([]time.Time, error)
	ListByLinkID(ctx context.Context, linkID int64, limit int) ([]*model.ShortVisit, error)
}

// ReportService 链接访问报表服务
type ReportService struct {
	visits reportVisitSource
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewReportService 创建报表服务实例
func NewReportService(visits reportVisitSource, log *logger.Log) *ReportService {
	return &ReportService{
		visits: visits,
		log:    log.WithEntryName("ReportService"),
		err:    errorc.NewErrorBuilder("ReportService"),
	}
}

// Build 构建链接的访问分析报表
// byCountry 不含未补全国家的访问；byHour 的键统一转UTC后按小时截断，
// 与存储引擎的本地时区表示无关；recentEvents 按时间倒序取最近200条
func (s *ReportService) Build(ctx context.Context, linkID int64) (*LinkReport, error) {
	byCountry, err := s.buildByCountry(ctx, linkID)
	if err != nil {
		return nil, err
	}

	byHour, err := s.buildByHour(ctx, linkID)
	if err != nil {
		return nil, err
	}

	recentEvents, err := s.buildRecentEvents(ctx, linkID)
	if err != nil {
		return nil, err
	}

	return &LinkReport{
		ByCountry:    byCountry,
		ByHour:       byHour,
		RecentEvents: recentEvents,
	}, nil
}

func (s *ReportService) buildByCountry(ctx context.Context, linkID int64) (map[string]int64, error) {
	counts, err := s.visits.CountByCountry(ctx, linkID)
	if err != nil {
		return nil, err
	}

	byCountry := make(map[string]int64, len(counts))
	for _, c := range counts {
		byCountry[c.Country] = c.Count
	}
	return byCountry, nil
}

func (s *ReportService) buildByHour(ctx context.Context, linkID int64) (map[string]int64, error) {
	times, err := s.visits.ListVisitTimes(ctx, linkID)
	if err != nil {
		return nil, err
	}

	byHour := make(map[string]int64)
	for _, t := range times {
		bucket := HourBucket(t)
		byHour[bucket]++
	}
	return byHour, nil
}

func (s *ReportService) buildRecentEvents(ctx context.Context, linkID int64) ([]VisitEvent, error) {
	visits, err := s.visits.ListByLinkID(ctx, linkID, RecentEventLimit)
	if err != nil {
		return nil, err
	}

	events := make([]VisitEvent, 0, len(visits))
	for _, v := range visits {
		events = append(events, VisitEvent{
			Timestamp:   FormatEventTime(v.VisitedAt),
			Country:     v.Country,
			Geolocation: v.Geolocation,
		})
	}
	return events, nil
}

// HourBucket 将时间转UTC并按小时截断，输出稳定的分桶键
func HourBucket(t time.Time) string {
	return t.UTC().Truncate(time.Hour).Format(hourBucketLayout)
}

// FormatEventTime 输出毫秒精度的UTC ISO-8601时间戳
func FormatEventTime(t time.Time) string {
	return t.UTC().Format(eventTimeLayout)
}
