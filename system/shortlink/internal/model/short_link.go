package model

import (
	"github.com/xsxdot/shortlink/pkg/core/model/common"
)

// ShortLink 短链接模型
// Code 在分配前为 NULL（顺序策略需要先落库拿到ID再生成短码），分配后全局唯一
type ShortLink struct {
	common.Model
	Code       *string `gorm:"type:varchar(100);uniqueIndex;comment:短码" json:"code" comment:"短码"`
	TargetURL  string  `gorm:"type:varchar(2048);not null;comment:目标URL" json:"targetUrl" comment:"目标URL"`
	Title      string  `gorm:"type:varchar(255);comment:标题" json:"title" comment:"标题"`
	Icon       string  `gorm:"type:varchar(500);comment:图标URL" json:"icon" comment:"图标URL"`
	VisitCount int64   `gorm:"type:bigint;not null;default:0;comment:访问次数" json:"visitCount" comment:"访问次数"`
	UserID     *int64  `gorm:"type:bigint;index;comment:所属用户ID" json:"userId" comment:"所属用户ID"`
	Enabled    bool    `gorm:"type:tinyint(1);not null;default:1;comment:是否启用" json:"enabled" comment:"是否启用"`
}

// TableName 设置表名
func (ShortLink) TableName() string {
	return "shortlink_links"
}

// HasCode 是否已分配短码
func (s *ShortLink) HasCode() bool {
	return s.Code != nil && *s.Code != ""
}

// GetCode 获取短码（未分配时返回空串）
func (s *ShortLink) GetCode() string {
	if s.Code == nil {
		return ""
	}
	return *s.Code
}

// HasOwner 是否有所属用户
func (s *ShortLink) HasOwner() bool {
	return s.UserID != nil
}
