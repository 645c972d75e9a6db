package model

import "fmt"

// GeoPoint 代表一个经纬度点 (WGS84, 单位: 度)
type GeoPoint struct {
	Lng float64 `json:"lng"` // 经度
	Lat float64 `json:"lat"` // 纬度
}

// ProjPoint 代表 Web 墨卡托投影平面中的一个点 (单位: 米)
type ProjPoint struct {
	X float64 `json:"x"` // 东西向距离
	Y float64 `json:"y"` // 南北向距离
}

// Tile 瓦片行列号
// 原点在世界平面图左上角: X 为列号 (向东递增), Y 为行号 (向南递增)
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// Pixel 某一层级下世界平面图中的像素坐标
type Pixel struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Bounds 经纬度矩形范围
type Bounds struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// Valid 检查范围是否合法 (最小值不能大于最大值, 且在经纬度取值范围内)
func (b Bounds) Valid() bool {
	if b.MinLng > b.MaxLng || b.MinLat > b.MaxLat {
		return false
	}
	return b.MinLng >= -180 && b.MaxLng <= 180 && b.MinLat >= -90 && b.MaxLat <= 90
}

// Center 范围中心点
func (b Bounds) Center() GeoPoint {
	return GeoPoint{Lng: (b.MinLng + b.MaxLng) / 2, Lat: (b.MinLat + b.MaxLat) / 2}
}
