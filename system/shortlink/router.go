package shortlink

import (
	controller "github.com/xsxdot/shortlink/system/shortlink/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册短链接组件的所有 HTTP 路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	// 后台管理接口（链接管理、报表、看板统计）
	adminController := controller.NewShortLinkAdminController(m.internalApp)
	adminController.RegisterRoutes(admin)

	// 对外接口（短链接跳转与解析）
	apiController := controller.NewShortLinkAPIController(m.internalApp)
	apiController.RegisterRoutes(api)
}
