package app

import (
	"github.com/xsxdot/shortlink/base"
	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/system/shortlink/internal/dao"
	"github.com/xsxdot/shortlink/system/shortlink/internal/service"
)

// App 短链接组件应用层
type App struct {
	LinkService     *service.LinkService
	ResolverService *service.ResolverService
	VisitService    *service.VisitService
	StatsService    *service.StatsService
	ReportService   *service.ReportService
	LinkDao         *dao.LinkDao
	VisitDao        *dao.VisitDao
	log             *logger.Log
	err             *errorc.ErrorBuilder
}

// NewApp 创建短链接组件应用层实例
func NewApp() *App {
	log := logger.GetLogger().WithEntryName("ShortLinkApp")
	cfg := base.Configures.Config.ShortLink

	// 初始化 DAO
	linkDao := dao.NewLinkDao(base.DB, log)
	visitDao := dao.NewVisitDao(base.DB, log)

	// 初始化 Service
	keys := service.NewKeyGenerator(cfg.Key, linkDao, log)
	linkSvc := service.NewLinkService(linkDao, keys, log)
	resolverSvc := service.NewResolverService(linkDao, base.Cache, cfg.Cache.ResolveTTL, log)
	statsSvc := service.NewStatsService(linkDao, visitDao, base.Cache, cfg.Cache.StatsTTL, log)
	reportSvc := service.NewReportService(visitDao, log)

	geoProvider := service.NewIPAPIProvider(cfg.Geo.Endpoint, cfg.Geo.Timeout)
	geoSvc := service.NewGeoService(geoProvider, visitDao, base.Scheduler, cfg.Geo, log)
	visitSvc := service.NewVisitService(linkDao, visitDao, geoSvc, statsSvc, log)

	return &App{
		LinkService:     linkSvc,
		ResolverService: resolverSvc,
		VisitService:    visitSvc,
		StatsService:    statsSvc,
		ReportService:   reportSvc,
		LinkDao:         linkDao,
		VisitDao:        visitDao,
		log:             log,
		err:             errorc.NewErrorBuilder("ShortLinkApp"),
	}
}
