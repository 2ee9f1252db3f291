package app

import (
	"github.com/xsxdot/shortlink/pkg/core/start"

	"github.com/gofiber/fiber/v2"
)

// GetApp 创建 Fiber 应用实例
func GetApp() *fiber.App {
	return start.GetApp()
}
