package model

import (
	"time"

	"github.com/xsxdot/shortlink/pkg/core/model/common"
)

// UserAgentMaxLength User-Agent 入库前的截断长度
const UserAgentMaxLength = 1024

// ShortVisit 短链接访问记录
// Geolocation/Country 由地理位置补全异步填充，至多填充一次
type ShortVisit struct {
	common.Model
	LinkID      int64     `gorm:"type:bigint;not null;index;comment:短链接ID" json:"linkId" comment:"短链接ID"`
	IP          string    `gorm:"type:varchar(100);comment:访问者IP" json:"ip" comment:"访问者IP"`
	UserAgent   string    `gorm:"type:varchar(1024);comment:User-Agent" json:"userAgent" comment:"User-Agent"`
	Geolocation string    `gorm:"type:varchar(255);comment:地理位置描述" json:"geolocation" comment:"地理位置描述"`
	Country     string    `gorm:"type:varchar(100);index;comment:国家" json:"country" comment:"国家"`
	VisitedAt   time.Time `gorm:"type:datetime;not null;index;comment:访问时间" json:"visitedAt" comment:"访问时间"`
}

// TableName 设置表名
func (ShortVisit) TableName() string {
	return "shortlink_visits"
}

// HasGeo 是否已填充地理位置
func (v *ShortVisit) HasGeo() bool {
	return v.Geolocation != "" || v.Country != ""
}
