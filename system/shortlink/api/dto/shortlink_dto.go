package dto

import (
	"time"
)

// ShortLinkDTO 短链接DTO
type ShortLinkDTO struct {
	ID         int64     `json:"id" comment:"ID"`
	Code       string    `json:"code" comment:"短码"`
	ShortURL   string    `json:"shortUrl" comment:"完整短链接"`
	TargetURL  string    `json:"targetUrl" comment:"目标URL"`
	Title      string    `json:"title" comment:"标题"`
	Icon       string    `json:"icon" comment:"图标URL"`
	VisitCount int64     `json:"visitCount" comment:"访问次数"`
	UserID     *int64    `json:"userId" comment:"所属用户ID"`
	Enabled    bool      `json:"enabled" comment:"是否启用"`
	CreatedAt  time.Time `json:"createdAt" comment:"创建时间"`
	UpdatedAt  time.Time `json:"updatedAt" comment:"更新时间"`
}

// ResolveDTO 短码解析结果DTO
type ResolveDTO struct {
	Code      string `json:"code" comment:"短码"`
	LinkID    int64  `json:"linkId" comment:"短链接ID"`
	TargetURL string `json:"targetUrl" comment:"目标URL"`
}

// OwnerStatsDTO 用户汇总统计DTO
type OwnerStatsDTO struct {
	TotalLinks  int64  `json:"totalLinks" comment:"链接总数"`
	TotalClicks int64  `json:"totalClicks" comment:"访问总量"`
	TopLocation string `json:"topLocation" comment:"热门国家"`
}

// LinkReportDTO 链接访问报表DTO
type LinkReportDTO struct {
	ByCountry    map[string]int64 `json:"byCountry" comment:"按国家统计"`
	ByHour       map[string]int64 `json:"byHour" comment:"按小时统计"`
	RecentEvents []VisitEventDTO  `json:"recentEvents" comment:"最近访问"`
}

// VisitEventDTO 访问事件DTO
type VisitEventDTO struct {
	Timestamp   string `json:"timestamp" comment:"访问时间"`
	Country     string `json:"country" comment:"国家"`
	Geolocation string `json:"geolocation" comment:"地理位置"`
}
