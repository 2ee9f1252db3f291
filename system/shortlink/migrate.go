package shortlink

import (
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动执行短链接组件的数据库迁移
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始迁移短链接组件表...")

	if err := db.AutoMigrate(
		&model.ShortLink{},
		&model.ShortVisit{},
	); err != nil {
		log.WithErr(err).Error("短链接组件表迁移失败")
		return err
	}

	log.Info("短链接组件表迁移完成")
	return nil
}
