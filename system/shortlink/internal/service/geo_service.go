package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xsxdot/shortlink/pkg/core/config"
	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/pkg/core/util"
	"github.com/xsxdot/shortlink/pkg/scheduler"
	"github.com/xsxdot/shortlink/utils"
)

// GeoLocation IP归属地查询结果
type GeoLocation struct {
	City    string
	Country string
}

// GeoIPProvider IP归属地查询提供方
type GeoIPProvider interface {
	Lookup(ctx context.Context, ip string) (*GeoLocation, error)
}

// IPAPIProvider 基于 ip-api.com 的归属地查询实现
type IPAPIProvider struct {
	endpoint string
	timeout  time.Duration
	err      *errorc.ErrorBuilder
}

// NewIPAPIProvider 创建 ip-api.com 查询实例
func NewIPAPIProvider(endpoint string, timeout time.Duration) *IPAPIProvider {
	if endpoint == "" {
		endpoint = "http://ip-api.com/json"
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &IPAPIProvider{
		endpoint: endpoint,
		timeout:  timeout,
		err:      errorc.NewErrorBuilder("IPAPIProvider"),
	}
}

// Lookup 查询IP归属地，单次请求受超时保护
func (p *IPAPIProvider) Lookup(ctx context.Context, ip string) (*GeoLocation, error) {
	uri := fmt.Sprintf("%s/%s", strings.TrimRight(p.endpoint, "/"), ip)

	h := util.NewHttpWithTimeout(uri, nil, p.timeout)
	defer h.Close()

	if err := h.Get(); err != nil {
		return nil, p.err.New("请求归属地服务失败", err).Third()
	}

	result, err := h.Result()
	if err != nil {
		return nil, p.err.New("解析归属地响应失败", err).Third()
	}

	if result.Get("status").String() != "success" {
		return nil, p.err.New("归属地服务无结果", nil).Third()
	}

	return &GeoLocation{
		City:    result.Get("city").String(),
		Country: result.Get("country").String(),
	}, nil
}

// visitGeoUpdater 补全访问记录的地理位置
type visitGeoUpdater interface {
	UpdateGeo(ctx context.Context, visitID int64, geolocation, country string) error
}

// GeoService 地理位置补全服务
// 补全是尽力而为：查询失败、超时或无结果都只留空，绝不影响访问记录本身。
// 两种执行方式共用同一套超时与跳过逻辑：inline 同步查询（受超时保护），
// async 投递一次性后台任务
type GeoService struct {
	provider  GeoIPProvider
	visits    visitGeoUpdater
	scheduler *scheduler.Scheduler
	cfg       config.GeoConfig
	log       *logger.Log
}

// NewGeoService 创建地理位置补全服务实例
func NewGeoService(provider GeoIPProvider, visits visitGeoUpdater, sched *scheduler.Scheduler, cfg config.GeoConfig, log *logger.Log) *GeoService {
	return &GeoService{
		provider:  provider,
		visits:    visits,
		scheduler: sched,
		cfg:       cfg,
		log:       log.WithEntryName("GeoService"),
	}
}

// Enrich 为访问记录补全地理位置
// 空IP或回环等不可定位地址直接跳过，不发起查询
func (s *GeoService) Enrich(ctx context.Context, visitID int64, ip string) {
	if !utils.IsPublicIP(ip) {
		return
	}

	if s.cfg.Mode == config.GeoModeInline || s.scheduler == nil {
		timeout := s.cfg.Timeout
		if timeout <= 0 {
			timeout = 3 * time.Second
		}
		enrichCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		s.enrichOnce(enrichCtx, visitID, ip)
		return
	}

	task := scheduler.NewOnceTask(
		fmt.Sprintf("补全访问记录地理位置-%d", visitID),
		time.Now(),
		s.cfg.Timeout+5*time.Second,
		func(taskCtx context.Context) error {
			s.enrichOnce(taskCtx, visitID, ip)
			return nil
		},
	)
	if err := s.scheduler.AddTask(task); err != nil {
		s.log.WithErr(err).WithField("visit_id", visitID).Warn("投递地理位置补全任务失败")
	}
}

// enrichOnce 执行单次查询并写回，至多写一次
func (s *GeoService) enrichOnce(ctx context.Context, visitID int64, ip string) {
	loc, err := s.provider.Lookup(ctx, ip)
	if err != nil {
		// 尽力而为，失败只记日志
		s.log.WithErr(err).WithField("ip", ip).Debug("IP归属地查询失败")
		return
	}
	if loc == nil || (loc.City == "" && loc.Country == "") {
		return
	}

	geolocation := FormatGeolocation(loc.City, loc.Country)
	if err := s.visits.UpdateGeo(ctx, visitID, geolocation, loc.Country); err != nil {
		s.log.WithErr(err).WithField("visit_id", visitID).Warn("写回地理位置失败")
	}
}

// FormatGeolocation 拼接地理位置描述，缺失的部分直接省略
func FormatGeolocation(city, country string) string {
	parts := make([]string, 0, 2)
	if city != "" {
		parts = append(parts, city)
	}
	if country != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, ", ")
}
