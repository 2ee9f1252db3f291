package dao

import (
	"context"
	"time"

	errorc "github.com/xsxdot/shortlink/pkg/core/err"
	"github.com/xsxdot/shortlink/pkg/core/logger"
	"github.com/xsxdot/shortlink/pkg/core/mvc"
	"github.com/xsxdot/shortlink/system/shortlink/internal/model"

	"gorm.io/gorm"
)

// VisitDao 访问记录数据访问层
type VisitDao struct {
	mvc.IBaseDao[model.ShortVisit]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

// NewVisitDao 创建访问记录 DAO 实例
func NewVisitDao(db *gorm.DB, log *logger.Log) *VisitDao {
	return &VisitDao{
		IBaseDao: mvc.NewGormDao[model.ShortVisit](db),
		log:      log.WithEntryName("VisitDao"),
		err:      errorc.NewErrorBuilder("VisitDao"),
		db:       db,
	}
}

// ListByLinkID 查询指定链接最近的访问记录（按访问时间倒序）
func (d *VisitDao) ListByLinkID(ctx context.Context, linkID int64, limit int) ([]*model.ShortVisit, error) {
	var results []*model.ShortVisit
	err := d.db.WithContext(ctx).Where("link_id = ?", linkID).
		Order("visited_at DESC").Limit(limit).Find(&results).Error
	if err != nil {
		return nil, d.err.New("查询访问记录失败", err).DB()
	}
	return results, nil
}

// CountByLinkID 统计指定链接的访问次数
func (d *VisitDao) CountByLinkID(ctx context.Context, linkID int64) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.ShortVisit{}).
		Where("link_id = ?", linkID).Count(&count).Error
	if err != nil {
		return 0, d.err.New("统计访问次数失败", err).DB()
	}
	return count, nil
}

// CountryCount 按国家聚合的访问计数
type CountryCount struct {
	Country string
	Count   int64
}

// CountByCountry 按国家统计指定链接的访问次数（未补全国家的记录不计入）
func (d *VisitDao) CountByCountry(ctx context.Context, linkID int64) ([]CountryCount, error) {
	var results []CountryCount
	err := d.db.WithContext(ctx).Model(&model.ShortVisit{}).
		Select("country, COUNT(*) as count").
		Where("link_id = ? AND country <> ''", linkID).
		Group("country").
		Order("count DESC").
		Scan(&results).Error
	if err != nil {
		return nil, d.err.New("按国家统计访问次数失败", err).DB()
	}
	return results, nil
}

// ListVisitTimes 查询指定链接的全部访问时间
// 小时分桶在Go侧按UTC完成，避免依赖存储引擎的时区行为
func (d *VisitDao) ListVisitTimes(ctx context.Context, linkID int64) ([]time.Time, error) {
	var times []time.Time
	err := d.db.WithContext(ctx).Model(&model.ShortVisit{}).
		Where("link_id = ?", linkID).
		Order("visited_at ASC").
		Pluck("visited_at", &times).Error
	if err != nil {
		return nil, d.err.New("查询访问时间失败", err).DB()
	}
	return times, nil
}

// TopCountryByUserID 查询用户所有短链接中访问量最高的国家
// 计数相同时按国家名升序取第一个，保证结果稳定
func (d *VisitDao) TopCountryByUserID(ctx context.Context, userID int64) (string, error) {
	var result CountryCount
	err := d.db.WithContext(ctx).Model(&model.ShortVisit{}).
		Select("shortlink_visits.country, COUNT(*) as count").
		Joins("JOIN shortlink_links ON shortlink_links.id = shortlink_visits.link_id").
		Where("shortlink_links.user_id = ? AND shortlink_visits.country <> ''", userID).
		Group("shortlink_visits.country").
		Order("count DESC, shortlink_visits.country ASC").
		Limit(1).
		Scan(&result).Error
	if err != nil {
		return "", d.err.New("查询热门国家失败", err).DB()
	}
	// 无任何已补全国家的访问时返回空串
	return result.Country, nil
}

// UpdateGeo 填充访问记录的地理位置（仅在尚未填充时生效）
func (d *VisitDao) UpdateGeo(ctx context.Context, visitID int64, geolocation, country string) error {
	err := d.db.WithContext(ctx).Model(&model.ShortVisit{}).
		Where("id = ? AND geolocation = '' AND country = ''", visitID).
		UpdateColumns(map[string]interface{}{
			"geolocation": geolocation,
			"country":     country,
		}).Error
	if err != nil {
		return d.err.New("更新地理位置失败", err).DB()
	}
	return nil
}
