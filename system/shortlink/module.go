package shortlink

import (
	"context"
	"time"

	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/pkg/scheduler"
	internalapp "github.com/xsxdot/shortlink/system/shortlink/internal/app"
)

// Module 短链接组件模块
type Module struct {
	internalApp *internalapp.App
	log         *logger.Log
}

// NewModule 创建短链接组件模块
func NewModule() *Module {
	log := logger.GetLogger().WithEntryName("ShortLinkModule")

	return &Module{
		internalApp: internalapp.NewApp(),
		log:         log,
	}
}

// RegisterSchedulerTasks 注册组件的定时任务
// 访问计数对账：每天凌晨 3:30 以访问明细校正冗余计数
func (m *Module) RegisterSchedulerTasks(sched *scheduler.Scheduler) error {
	reconcileTask, err := scheduler.NewCronTask(
		"访问计数对账",
		"0 30 3 * * *", // 每天凌晨 3:30
		5*time.Minute,
		func(ctx context.Context) error {
			m.log.Info("开始执行访问计数对账任务")
			if err := m.internalApp.ReconcileVisitCounts(ctx); err != nil {
				m.log.WithErr(err).Error("访问计数对账任务执行失败")
				return err
			}
			m.log.Info("访问计数对账任务执行完成")
			return nil
		},
	)
	if err != nil {
		return err
	}

	return sched.AddTask(reconcileTask)
}
