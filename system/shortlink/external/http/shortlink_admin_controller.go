package http

import (
	"fmt"
	"strconv"

	"github.com/xsxdot/shortlink/base"
	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/pkg/core/result"
	"github.com/xsxdot/shortlink/pkg/core/util"
	"github.com/xsxdot/shortlink/system/shortlink/api/dto"
	internalapp "github.com/xsxdot/shortlink/system/shortlink/internal/app"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"
	"github.com/xsxdot/shortlink/utils"

	"github.com/gofiber/fiber/v2"
)

// ShortLinkAdminController 短链接后台管理控制器
type ShortLinkAdminController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewShortLinkAdminController 创建短链接后台管理控制器
func NewShortLinkAdminController(app *internalapp.App) *ShortLinkAdminController {
	return &ShortLinkAdminController{
		app: app,
		err: errorc.NewErrorBuilder("ShortLinkAdminController"),
		log: logger.GetLogger().WithEntryName("ShortLinkAdminController"),
	}
}

// RegisterRoutes 注册路由
func (c *ShortLinkAdminController) RegisterRoutes(admin fiber.Router) {
	linkRouter := admin.Group("/short-links")
	linkRouter.Post("/", c.CreateLink)
	linkRouter.Get("/", c.ListLinks)
	linkRouter.Get("/:id", c.GetLink)
	linkRouter.Put("/:id", c.UpdateLink)
	linkRouter.Put("/:id/status", c.UpdateLinkStatus)
	linkRouter.Delete("/:id", c.DeleteLink)
	linkRouter.Get("/:id/report", c.GetLinkReport)

	admin.Get("/dashboard/stats", c.GetDashboardStats)
}

// CreateLink 创建短链接
func (c *ShortLinkAdminController) CreateLink(ctx *fiber.Ctx) error {
	var req internalapp.CreateShortLinkRequest

	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	if errMsg, err := utils.Validate(&req); err != nil {
		return c.err.New(errMsg, err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	link, err := c.app.CreateShortLink(util.Context(ctx), &req)
	if err != nil {
		return err
	}

	return result.OK(ctx, c.convertToDTO(link))
}

// ListLinks 查询短链接列表
func (c *ShortLinkAdminController) ListLinks(ctx *fiber.Ctx) error {
	pageNum, _ := strconv.Atoi(ctx.Query("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.Query("size", "20"))

	var userID *int64
	if q := ctx.Query("userId"); q != "" {
		id, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return c.err.New("userId参数错误", err).ValidWithCtx()
		}
		userID = &id
	}

	links, total, err := c.app.ListShortLinks(util.Context(ctx), userID, pageNum, pageSize)
	if err != nil {
		return err
	}

	content := make([]*dto.ShortLinkDTO, 0, len(links))
	for _, link := range links {
		content = append(content, c.convertToDTO(link))
	}

	return result.OK(ctx, fiber.Map{
		"total":   total,
		"content": content,
	})
}

// GetLink 获取短链接详情
func (c *ShortLinkAdminController) GetLink(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return c.err.New("ID参数错误", err).WithTraceID(util.Context(ctx))
	}

	link, err := c.app.LinkService.FindById(util.Context(ctx), id)
	if err != nil {
		return err
	}

	return result.OK(ctx, c.convertToDTO(link))
}

// UpdateLink 更新短链接元数据
func (c *ShortLinkAdminController) UpdateLink(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return c.err.New("ID参数错误", err).WithTraceID(util.Context(ctx))
	}

	var req internalapp.UpdateShortLinkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	err = c.app.UpdateShortLink(util.Context(ctx), id, &req)
	return result.Once(ctx, "更新成功", err)
}

// UpdateLinkStatus 更新短链接状态
func (c *ShortLinkAdminController) UpdateLinkStatus(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return c.err.New("ID参数错误", err).WithTraceID(util.Context(ctx))
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求参数失败", err).WithTraceID(util.Context(ctx)).ToLog(c.log.GetLogger())
	}

	err = c.app.UpdateShortLinkStatus(util.Context(ctx), id, req.Enabled)
	return result.Once(ctx, "更新状态成功", err)
}

// DeleteLink 删除短链接
func (c *ShortLinkAdminController) DeleteLink(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return c.err.New("ID参数错误", err).WithTraceID(util.Context(ctx))
	}

	err = c.app.DeleteShortLink(util.Context(ctx), id)
	return result.Once(ctx, "删除成功", err)
}

// GetLinkReport 获取短链接访问报表
func (c *ShortLinkAdminController) GetLinkReport(ctx *fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return c.err.New("ID参数错误", err).WithTraceID(util.Context(ctx))
	}

	report, err := c.app.GetLinkReport(util.Context(ctx), id)
	if err != nil {
		return err
	}

	response := &dto.LinkReportDTO{
		ByCountry:    report.ByCountry,
		ByHour:       report.ByHour,
		RecentEvents: make([]dto.VisitEventDTO, 0, len(report.RecentEvents)),
	}
	for _, e := range report.RecentEvents {
		response.RecentEvents = append(response.RecentEvents, dto.VisitEventDTO{
			Timestamp:   e.Timestamp,
			Country:     e.Country,
			Geolocation: e.Geolocation,
		})
	}

	return result.OK(ctx, response)
}

// GetDashboardStats 获取用户看板统计
func (c *ShortLinkAdminController) GetDashboardStats(ctx *fiber.Ctx) error {
	userID, err := strconv.ParseInt(ctx.Query("userId"), 10, 64)
	if err != nil {
		return c.err.New("userId参数必填", err).ValidWithCtx()
	}

	stats, err := c.app.GetOwnerStats(util.Context(ctx), userID)
	if err != nil {
		return err
	}

	return result.OK(ctx, &dto.OwnerStatsDTO{
		TotalLinks:  stats.TotalLinks,
		TotalClicks: stats.TotalClicks,
		TopLocation: stats.TopLocation,
	})
}

// convertToDTO 将模型转换为DTO
func (c *ShortLinkAdminController) convertToDTO(link *model.ShortLink) *dto.ShortLinkDTO {
	shortURL := ""
	if link.HasCode() {
		shortURL = fmt.Sprintf("https://%s/api/s/%s", base.Configures.Config.Domain, link.GetCode())
	}

	return &dto.ShortLinkDTO{
		ID:         link.ID,
		Code:       link.GetCode(),
		ShortURL:   shortURL,
		TargetURL:  link.TargetURL,
		Title:      link.Title,
		Icon:       link.Icon,
		VisitCount: link.VisitCount,
		UserID:     link.UserID,
		Enabled:    link.Enabled,
		CreatedAt:  link.CreatedAt,
		UpdatedAt:  link.UpdatedAt,
	}
}
