// Package crop 裁剪场景: 计算经纬度矩形覆盖的瓦片及像素窗口, 并渲染静态地图
package crop

import (
	"china-map/model"
	"china-map/utils"

	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
)

// MaxTiles 单个裁剪场景允许覆盖的最大瓦片数
const MaxTiles = 256

var (
	ErrInvalidBounds = errors.New("invalid bounds")
	ErrTooManyTiles  = errors.New("too many tiles")
)

// SceneTile 场景中的一张瓦片
type SceneTile struct {
	model.Tile
	Bounds model.Bounds `json:"bounds"`
	// 瓦片左上角相对裁剪窗口左上角的像素偏移, 可能为负
	OffsetX int `json:"offset_x"`
	OffsetY int `json:"offset_y"`
}

// Scene 裁剪场景
type Scene struct {
	Bounds       model.Bounds `json:"bounds"`
	Zoom         int          `json:"zoom"`
	Origin       model.Pixel  `json:"origin"` // 裁剪窗口左上角在世界平面图中的像素坐标
	Width        int          `json:"width"`  // 像素
	Height       int          `json:"height"` // 像素
	WidthMeters  float64      `json:"width_meters"`
	HeightMeters float64      `json:"height_meters"`
	Tiles        []SceneTile  `json:"tiles"`
}

// Coverage 计算经纬度矩形在指定层级下覆盖的瓦片
func Coverage(b model.Bounds, zoom int) (*Scene, error) {
	if !b.Valid() {
		return nil, errors.Wrapf(ErrInvalidBounds, "%+v", b)
	}
	b.MinLat = utils.ClampLat(b.MinLat)
	b.MaxLat = utils.ClampLat(b.MaxLat)

	topLeft, err := utils.PxFromGeo(b.MinLng, b.MaxLat, zoom)
	if err != nil {
		return nil, err
	}
	bottomRight, err := utils.PxFromGeo(b.MaxLng, b.MinLat, zoom)
	if err != nil {
		return nil, err
	}

	last := utils.TileCount(zoom) - 1
	x0, y0 := clamp(topLeft.X/utils.TileSize, last), clamp(topLeft.Y/utils.TileSize, last)
	x1, y1 := clamp(bottomRight.X/utils.TileSize, last), clamp(bottomRight.Y/utils.TileSize, last)

	count := (x1 - x0 + 1) * (y1 - y0 + 1)
	if count > MaxTiles {
		return nil, errors.Wrapf(ErrTooManyTiles, "%d tiles at zoom %d (max %d)", count, zoom, MaxTiles)
	}

	center := b.Center()
	scene := &Scene{
		Bounds: b,
		Zoom:   zoom,
		Origin: topLeft,
		Width:  max(bottomRight.X-topLeft.X, 1),
		Height: max(bottomRight.Y-topLeft.Y, 1),
		WidthMeters: utils.HaversineDistance(
			model.GeoPoint{Lng: b.MinLng, Lat: center.Lat},
			model.GeoPoint{Lng: b.MaxLng, Lat: center.Lat},
		),
		HeightMeters: utils.HaversineDistance(
			model.GeoPoint{Lng: center.Lng, Lat: b.MinLat},
			model.GeoPoint{Lng: center.Lng, Lat: b.MaxLat},
		),
		Tiles: make([]SceneTile, 0, count),
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			tile := model.Tile{X: x, Y: y, Z: zoom}
			scene.Tiles = append(scene.Tiles, SceneTile{
				Tile:    tile,
				Bounds:  TileBounds(tile),
				OffsetX: x*utils.TileSize - topLeft.X,
				OffsetY: y*utils.TileSize - topLeft.Y,
			})
		}
	}
	return scene, nil
}

// TileBounds 瓦片的经纬度范围
func TileBounds(tile model.Tile) model.Bounds {
	bound := maptile.New(uint32(tile.X), uint32(tile.Y), maptile.Zoom(tile.Z)).Bound()
	return model.Bounds{
		MinLng: bound.Min.Lon(),
		MinLat: bound.Min.Lat(),
		MaxLng: bound.Max.Lon(),
		MaxLat: bound.Max.Lat(),
	}
}

func clamp(i, last int) int {
	return max(0, min(i, last))
}
