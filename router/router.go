package router

import (
	"github.com/xsxdot/shortlink/app"
	"github.com/xsxdot/shortlink/base"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/system/shortlink"

	"github.com/gofiber/fiber/v2"
)

// Register 负责集中注册所有 HTTP 路由。
// 只依赖 app.App（业务编排入口）和 fiber.App（HTTP Server），
// 不直接依赖任何 DAO / Service / system/internal 包，
// 不包含业务逻辑，只做分组与路由绑定。
func Register(a *app.App, f *fiber.App) {
	// 公共 API 分组
	api := f.Group("/api", logger.NewApiLogger(logger.Config{Logger: base.Logger}))

	// 简单健康检查路由
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "ok"})
	})

	// 后台管理路由分组
	admin := f.Group("/admin", logger.NewApiLogger(logger.Config{Logger: base.Logger}))

	// 注册短链接组件路由
	shortlink.RegisterRoutes(a.ShortLinkModule, api, admin)
}
