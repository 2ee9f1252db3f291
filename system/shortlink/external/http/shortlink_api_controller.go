package http

import (
	"context"
	"time"

	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/pkg/core/result"
	"github.com/xsxdot/shortlink/pkg/core/util"
	"github.com/xsxdot/shortlink/system/shortlink/api/dto"
	internalapp "github.com/xsxdot/shortlink/system/shortlink/internal/app"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

// ShortLinkAPIController 短链接API控制器（跳转与解析）
type ShortLinkAPIController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewShortLinkAPIController 创建短链接API控制器
func NewShortLinkAPIController(app *internalapp.App) *ShortLinkAPIController {
	return &ShortLinkAPIController{
		app: app,
		err: errorc.NewErrorBuilder("ShortLinkAPIController"),
		log: logger.GetLogger().WithEntryName("ShortLinkAPIController"),
	}
}

// RegisterRoutes 注册路由
func (c *ShortLinkAPIController) RegisterRoutes(api fiber.Router) {
	// 短链接访问与跳转（无鉴权）
	api.Get("/s/:code", c.Visit)

	// 短链接解析（返回JSON，供第三方页面使用，无鉴权）
	api.Get("/s/:code/resolve", c.ResolveJSON)
}

// Visit 访问短链接并跳转
// 访问记录相对HTTP响应是发后不理的：记录失败绝不阻断跳转
func (c *ShortLinkAPIController) Visit(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	resolved, err := c.app.Resolve(util.Context(ctx), code)
	if err != nil {
		return err
	}

	ip, userAgent := clientMeta(ctx)
	c.recordVisitAsync(resolved.LinkID, ip, userAgent)

	return ctx.Redirect(resolved.TargetURL, fiber.StatusFound)
}

// ResolveJSON 解析短链接并返回JSON（供第三方页面渲染使用）
func (c *ShortLinkAPIController) ResolveJSON(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	resolved, err := c.app.Resolve(util.Context(ctx), code)
	if err != nil {
		return err
	}

	ip, userAgent := clientMeta(ctx)
	c.recordVisitAsync(resolved.LinkID, ip, userAgent)

	return result.OK(ctx, &dto.ResolveDTO{
		Code:      code,
		LinkID:    resolved.LinkID,
		TargetURL: resolved.TargetURL,
	})
}

// clientMeta 提取客户端IP与User-Agent
// fiber 返回的字符串指向可复用的请求缓冲，跨请求生命周期持有必须先拷贝
func clientMeta(ctx *fiber.Ctx) (ip, userAgent string) {
	return fiberutils.CopyString(ctx.IP()), fiberutils.CopyString(ctx.Get(fiber.HeaderUserAgent))
}

// recordVisitAsync 异步记录访问，与请求生命周期解耦
func (c *ShortLinkAPIController) recordVisitAsync(linkID int64, ip, userAgent string) {
	go func() {
		recordCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.app.RecordVisit(recordCtx, linkID, ip, userAgent); err != nil {
			c.log.WithErr(err).WithLinkID(linkID).Error("记录访问失败")
		}
	}()
}
