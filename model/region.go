package model

import (
	"time"

	"github.com/lib/pq"
)

// CropRegion 用户保存的裁剪区域 (裁剪场景)
type CropRegion struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	OwnerID   uint           `json:"owner_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"not null"`
	MinLng    float64        `json:"min_lng"`
	MinLat    float64        `json:"min_lat"`
	MaxLng    float64        `json:"max_lng"`
	MaxLat    float64        `json:"max_lat"`
	Zoom      int            `json:"zoom"`
	Tags      pq.StringArray `json:"tags" gorm:"type:text[]"`
	CreatedAt time.Time      `json:"created_at"`
}

// Bounds 返回区域的经纬度范围
func (r CropRegion) Bounds() Bounds {
	return Bounds{MinLng: r.MinLng, MinLat: r.MinLat, MaxLng: r.MaxLng, MaxLat: r.MaxLat}
}

// District 行政区划查询结果缓存 (天地图 administrative 接口原始 JSON)
type District struct {
	Keyword   string    `json:"keyword" gorm:"primaryKey"`
	Body      string    `json:"-" gorm:"type:text;not null"`
	FetchedAt time.Time `json:"fetched_at" gorm:"index"`
}
