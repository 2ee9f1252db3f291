package dao

import (
	"context"

	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/pkg/core/mvc"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"

	"gorm.io/gorm"
)

// LinkDao 短链接数据访问层
type LinkDao struct {
	mvc.IBaseDao[model.ShortLink]
	log *logger.Log
	err *errorc.ErrorBuilder
	DB  *gorm.DB
}

// NewLinkDao 创建短链接 DAO 实例
func NewLinkDao(db *gorm.DB, log *logger.Log) *LinkDao {
	return &LinkDao{
		IBaseDao: mvc.NewGormDao[model.ShortLink](db),
		log:      log.WithEntryName("LinkDao"),
		err:      errorc.NewErrorBuilder("LinkDao"),
		DB:       db,
	}
}

// FindByCode 根据短码查找
func (d *LinkDao) FindByCode(ctx context.Context, code string) (*model.ShortLink, error) {
	var result model.ShortLink
	err := d.DB.WithContext(ctx).Where("code = ?", code).First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, d.err.New("短链接不存在", err).NotFound()
		}
		return nil, d.err.New("查询短链接失败", err).DB()
	}
	return &result, nil
}

// ExistsByCode 检查短码是否已存在
func (d *LinkDao) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.ShortLink{}).
		Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, d.err.New("检查短码是否存在失败", err).DB()
	}
	return count > 0, nil
}

// AssignCode 为短链接分配短码（仅在尚未分配时生效）
func (d *LinkDao) AssignCode(ctx context.Context, id int64, code string) error {
	err := d.DB.WithContext(ctx).Model(&model.ShortLink{}).
		Where("id = ? AND code IS NULL", id).
		UpdateColumn("code", code).Error
	if err != nil {
		return d.err.New("分配短码失败", err).DB()
	}
	return nil
}

// IncrementVisitCount 原子递增访问次数
func (d *LinkDao) IncrementVisitCount(ctx context.Context, id int64) error {
	err := d.DB.WithContext(ctx).Model(&model.ShortLink{}).
		Where("id = ?", id).
		UpdateColumn("visit_count", gorm.Expr("visit_count + ?", 1)).Error
	if err != nil {
		return d.err.New("更新访问次数失败", err).DB()
	}
	return nil
}

// CountByUserID 统计用户的短链接数量
func (d *LinkDao) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := d.DB.WithContext(ctx).Model(&model.ShortLink{}).
		Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计短链接数量失败", err).DB()
	}
	return count, nil
}

// SumVisitsByUserID 统计用户所有短链接的访问总量
func (d *LinkDao) SumVisitsByUserID(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := d.DB.WithContext(ctx).Model(&model.ShortLink{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(visit_count), 0)").Scan(&total).Error
	if err != nil {
		return 0, d.err.New("统计访问总量失败", err).DB()
	}
	return total, nil
}

// ListWithPage 分页查询短链接（userID 为 nil 时查询全部）
func (d *LinkDao) ListWithPage(ctx context.Context, userID *int64, pageNum, pageSize int) ([]*model.ShortLink, int64, error) {
	var results []*model.ShortLink
	var total int64

	query := d.DB.WithContext(ctx).Model(&model.ShortLink{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, d.err.New("统计短链接数量失败", err).DB()
	}

	offset := (pageNum - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("id DESC").Find(&results).Error
	if err != nil {
		return nil, 0, d.err.New("分页查询短链接失败", err).DB()
	}

	return results, total, nil
}

// ReconcileVisitCounts 以访问明细为准校正冗余计数
// 计数与明细写入不在同一事务内，定时对账兜底
func (d *LinkDao) ReconcileVisitCounts(ctx context.Context) error {
	err := d.DB.WithContext(ctx).Model(&model.ShortLink{}).
		Where("1 = 1").
		UpdateColumn("visit_count", gorm.Expr(
			"(SELECT COUNT(*) FROM shortlink_visits WHERE shortlink_visits.link_id = shortlink_links.id AND shortlink_visits.deleted_at IS NULL)",
		)).Error
	if err != nil {
		return d.err.New("校正访问计数失败", err).DB()
	}
	return nil
}
