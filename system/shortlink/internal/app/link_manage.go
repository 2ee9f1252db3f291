package app

import (
	"context"

	"github.com/xsxdot/shortlink/system/shortlink/internal/model"
	"github.com/xsxdot/shortlink/system/shortlink/internal/service"
)

// CreateShortLinkRequest 创建短链接请求
type CreateShortLinkRequest struct {
	TargetURL string `json:"targetUrl" validate:"required,url" comment:"目标URL"`
	Title     string `json:"title" comment:"标题"`
	Icon      string `json:"icon" comment:"图标URL"`
	CustomKey string `json:"customKey" comment:"自定义短码"`
	UserID    *int64 `json:"userId" comment:"所属用户ID"`
}

// UpdateShortLinkRequest 更新短链接请求
// 目标URL创建后不可变，只允许更新标题与图标
type UpdateShortLinkRequest struct {
	Title string `json:"title" comment:"标题"`
	Icon  string `json:"icon" comment:"图标URL"`
}

// CreateShortLink 创建短链接
func (a *App) CreateShortLink(ctx context.Context, req *CreateShortLinkRequest) (*model.ShortLink, error) {
	link := &model.ShortLink{
		TargetURL:  req.TargetURL,
		Title:      req.Title,
		Icon:       req.Icon,
		UserID:     req.UserID,
		VisitCount: 0,
		Enabled:    true,
	}

	if err := a.LinkService.CreateWithKey(ctx, link, req.CustomKey); err != nil {
		return nil, err
	}

	// 新建链接影响用户统计，清除缓存
	if link.HasOwner() {
		a.StatsService.Invalidate(ctx, *link.UserID)
	}

	return link, nil
}

// UpdateShortLink 更新短链接元数据
func (a *App) UpdateShortLink(ctx context.Context, id int64, req *UpdateShortLinkRequest) error {
	link, err := a.LinkService.FindById(ctx, id)
	if err != nil {
		return err
	}

	if req.Title != "" {
		link.Title = req.Title
	}
	if req.Icon != "" {
		link.Icon = req.Icon
	}

	if err := a.LinkService.Dao.DB.WithContext(ctx).Save(link).Error; err != nil {
		return a.err.New("更新短链接失败", err).DB()
	}

	// 目标URL不可变，解析缓存无需清除
	return nil
}

// UpdateShortLinkStatus 更新短链接状态
func (a *App) UpdateShortLinkStatus(ctx context.Context, id int64, enabled bool) error {
	link, err := a.LinkService.FindById(ctx, id)
	if err != nil {
		return err
	}

	link.Enabled = enabled
	if err := a.LinkService.Dao.DB.WithContext(ctx).Save(link).Error; err != nil {
		return a.err.New("更新短链接状态失败", err).DB()
	}

	// 禁用需要立即生效，清除解析缓存
	if link.HasCode() {
		a.ResolverService.Invalidate(ctx, link.GetCode())
	}

	return nil
}

// DeleteShortLink 删除短链接
func (a *App) DeleteShortLink(ctx context.Context, id int64) error {
	// 先查询，以便清除缓存
	link, err := a.LinkService.FindById(ctx, id)
	if err != nil {
		return err
	}

	if err := a.LinkService.DeleteById(ctx, id); err != nil {
		return err
	}

	if link.HasCode() {
		a.ResolverService.Invalidate(ctx, link.GetCode())
	}
	if link.HasOwner() {
		a.StatsService.Invalidate(ctx, *link.UserID)
	}

	return nil
}

// ListShortLinks 分页查询短链接
func (a *App) ListShortLinks(ctx context.Context, userID *int64, pageNum, pageSize int) ([]*model.ShortLink, int64, error) {
	return a.LinkDao.ListWithPage(ctx, userID, pageNum, pageSize)
}

// Resolve 解析短码为跳转目标
func (a *App) Resolve(ctx context.Context, code string) (*service.ResolvedLink, error) {
	return a.ResolverService.Resolve(ctx, code)
}

// RecordVisit 记录一次访问
func (a *App) RecordVisit(ctx context.Context, linkID int64, ip, userAgent string) error {
	_, err := a.VisitService.Record(ctx, linkID, ip, userAgent)
	return err
}

// GetOwnerStats 获取用户汇总统计
func (a *App) GetOwnerStats(ctx context.Context, userID int64) (*service.OwnerStats, error) {
	return a.StatsService.GetStats(ctx, userID)
}

// GetLinkReport 获取链接访问报表
func (a *App) GetLinkReport(ctx context.Context, linkID int64) (*service.LinkReport, error) {
	// 链接必须存在，报表才有意义
	if _, err := a.LinkService.FindById(ctx, linkID); err != nil {
		return nil, err
	}
	return a.ReportService.Build(ctx, linkID)
}

// ReconcileVisitCounts 以访问明细校正冗余计数（定时任务入口）
func (a *App) ReconcileVisitCounts(ctx context.Context) error {
	return a.LinkDao.ReconcileVisitCounts(ctx)
}
