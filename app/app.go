package app

import (
	"github.com/xsxdot/shortlink/system/shortlink"
)

// App 应用组合根，聚合所有业务模块
type App struct {
	ShortLinkModule *shortlink.Module
}

// NewApp 创建应用组合根
func NewApp() *App {
	return &App{
		ShortLinkModule: shortlink.NewModule(),
	}
}
