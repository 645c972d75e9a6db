package utils

import (
	"errors"
	"fmt"
	"math"

	"china-map/model"
)

// EarthRadius WGS84 参考椭球长半轴 (米)
const EarthRadius = 6378137.0

// EarthPerimeter 地球周长 (米)
const EarthPerimeter = 2 * math.Pi * EarthRadius

// TileSize 瓦片像素
const TileSize = 256

// 缩放层级范围
const (
	MinZoom = 0
	MaxZoom = 18
)

// MaxLat Web 墨卡托投影的纬度上限, 超出后投影趋于无穷
const MaxLat = 85.05112877980659

// ErrInvalidZoom 缩放层级不在 [MinZoom, MaxZoom] 范围内
var ErrInvalidZoom = errors.New("invalid zoom level")

// Resolutions 0 到 18 级的分辨率列表 (米/像素)
var Resolutions = func() []float64 {
	res := make([]float64, 0, MaxZoom+1)
	for z := MinZoom; z <= MaxZoom; z++ {
		res = append(res, Resolution(z))
	}
	return res
}()

// DegreesToRadians 角度转弧度
func DegreesToRadians(d float64) float64 {
	return d * math.Pi / 180.0
}

// RadiansToDegrees 弧度转角度
func RadiansToDegrees(r float64) float64 {
	return r * 180.0 / math.Pi
}

// Geo2Proj 地理坐标转换为投影坐标
// 纬度为 ±90 时结果为 ±Inf
func Geo2Proj(lng, lat float64) (x, y float64) {
	x = DegreesToRadians(lng) * EarthRadius
	sin := math.Sin(DegreesToRadians(lat))
	y = EarthRadius / 2 * math.Log((1+sin)/(1-sin))
	return x, y
}

// Proj2Geo 投影坐标转换为地理坐标
func Proj2Geo(x, y float64) (lng, lat float64) {
	lng = RadiansToDegrees(x) / EarthRadius
	lat = RadiansToDegrees(2*math.Atan(math.Exp(y/EarthRadius)) - math.Pi/2)
	return lng, lat
}

// Resolution 获取某一层级下的分辨率
// 不做范围检查, 查表请用 ResolutionAt
func Resolution(zoom int) float64 {
	tileTotalPx := math.Pow(2, float64(zoom)) * TileSize
	return EarthPerimeter / tileTotalPx
}

// ResolutionAt 从分辨率表中取值
func ResolutionAt(zoom int) (float64, error) {
	if zoom < MinZoom || zoom > MaxZoom {
		return 0, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidZoom, zoom, MinZoom, MaxZoom)
	}
	return Resolutions[zoom], nil
}

// TileIndex 根据投影坐标及缩放层级计算行列号
func TileIndex(zoom int, x, y float64) (model.Tile, error) {
	res, err := ResolutionAt(zoom)
	if err != nil {
		return model.Tile{}, err
	}
	// 瓦片的原点在左上角, 而投影坐标系原点在赤道和本初子午线交汇点
	x, y = shiftOrigin(x, y)
	return model.Tile{
		X: int(math.Floor(x / res / TileSize)),
		Y: int(math.Floor(y / res / TileSize)),
		Z: zoom,
	}, nil
}

// TileIndexFromGeo 根据经纬度计算行列号
func TileIndexFromGeo(zoom int, lng, lat float64) (model.Tile, error) {
	x, y := Geo2Proj(lng, lat)
	return TileIndex(zoom, x, y)
}

// PxFromProj 将平面坐标根据缩放等级转换为世界平面图的像素坐标
func PxFromProj(x, y float64, zoom int) (model.Pixel, error) {
	res, err := ResolutionAt(zoom)
	if err != nil {
		return model.Pixel{}, err
	}
	x, y = shiftOrigin(x, y)
	return model.Pixel{
		X: int(math.Floor(x / res)),
		Y: int(math.Floor(y / res)),
		Z: zoom,
	}, nil
}

// PxFromGeo 将经纬度转化为像素坐标
func PxFromGeo(lng, lat float64, zoom int) (model.Pixel, error) {
	x, y := Geo2Proj(lng, lat)
	return PxFromProj(x, y, zoom)
}

// ClampLat 将纬度限制在 Web 墨卡托有效范围内
func ClampLat(lat float64) float64 {
	return math.Max(-MaxLat, math.Min(MaxLat, lat))
}

// TileCount 某一层级下每行 (列) 的瓦片数
func TileCount(zoom int) int {
	return 1 << zoom
}

func shiftOrigin(x, y float64) (float64, float64) {
	return x + EarthPerimeter/2, EarthPerimeter/2 - y
}

// HaversineDistance Haversine 公式 (直接计算两点间球面距离)
// 用于裁剪场景中计算区域的实际宽高
func HaversineDistance(p1, p2 model.GeoPoint) float64 {
	lat1 := DegreesToRadians(p1.Lat)
	lon1 := DegreesToRadians(p1.Lng)
	lat2 := DegreesToRadians(p2.Lat)
	lon2 := DegreesToRadians(p2.Lng)

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	// a = sin²(Δlat/2) + cos(lat1) * cos(lat2) * sin²(Δlon/2)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// c = 2 * atan2(√a, √(1-a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}
