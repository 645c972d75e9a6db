package handler

import (
	"context"
	"image"
	"time"

	"china-map/db"
	"china-map/model"
	"china-map/tianditu"
)

// CropRenderer 裁剪区域静态地图渲染
type CropRenderer interface {
	Render(ctx context.Context, b model.Bounds, zoom, width, height int) (image.Image, error)
}

// 全局依赖 (应在 main 中初始化)
var (
	Tianditu  *tianditu.Client
	Renderer  CropRenderer
	Users     db.UserStore
	Regions   db.RegionStore
	Districts db.DistrictStore

	// ExposeURLs 为 true 时 /api/tile/:z/:x/:y/urls 返回带令牌的原始地址
	ExposeURLs bool

	// DistrictMaxAge 数据库中行政区划结果的有效期
	DistrictMaxAge = 24 * time.Hour
)
