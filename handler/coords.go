package handler

import (
	"net/http"

	"china-map/model"
	"china-map/utils"

	"github.com/gin-gonic/gin"
)

// GetProj 地理坐标转投影坐标
// GET /api/proj?lng=&lat=
func GetProj(c *gin.Context) {
	p, err := geoQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	x, y := utils.Geo2Proj(p.Lng, p.Lat)
	c.JSON(http.StatusOK, model.ProjPoint{X: x, Y: y})
}

// GetGeo 投影坐标转地理坐标
// GET /api/geo?x=&y=
func GetGeo(c *gin.Context) {
	p, err := projQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	lng, lat := utils.Proj2Geo(p.X, p.Y)
	c.JSON(http.StatusOK, model.GeoPoint{Lng: lng, Lat: lat})
}

// GetResolutions 各层级分辨率
func GetResolutions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tile_size":   utils.TileSize,
		"min_zoom":    utils.MinZoom,
		"max_zoom":    utils.MaxZoom,
		"resolutions": utils.Resolutions,
	})
}

// GetTileIndex 计算行列号, 支持投影坐标 (x, y) 或经纬度 (lng, lat)
// GET /api/tile-index?zoom=&x=&y=
func GetTileIndex(c *gin.Context) {
	zoom, p, err := zoomAndPoint(c)
	if err != nil {
		respondError(c, err)
		return
	}
	tile, err := utils.TileIndex(zoom, p.X, p.Y)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tile)
}

// GetPixel 计算世界平面图像素坐标
// GET /api/pixel?zoom=&lng=&lat=
func GetPixel(c *gin.Context) {
	zoom, p, err := zoomAndPoint(c)
	if err != nil {
		respondError(c, err)
		return
	}
	px, err := utils.PxFromProj(p.X, p.Y, zoom)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, px)
}

// geoQuery 解析经纬度参数, 纬度须在墨卡托有效范围内
func geoQuery(c *gin.Context) (model.GeoPoint, error) {
	lng, err := queryFloat(c, "lng")
	if err != nil {
		return model.GeoPoint{}, err
	}
	lat, err := queryFloat(c, "lat")
	if err != nil {
		return model.GeoPoint{}, err
	}
	if lng < -180 || lng > 180 {
		return model.GeoPoint{}, &paramError{name: "lng", value: c.Query("lng")}
	}
	if lat < -utils.MaxLat || lat > utils.MaxLat {
		return model.GeoPoint{}, &paramError{name: "lat", value: c.Query("lat")}
	}
	return model.GeoPoint{Lng: lng, Lat: lat}, nil
}

// projQuery 解析投影坐标参数, 须落在世界平面内

func projQuery(c *gin.Context) (model.ProjPoint, error) {
	x, err := queryFloat(c, "x")
	if err != nil {
		return model.ProjPoint{}, err
	}
	y, err := queryFloat(c, "y")
	if err != nil {
		return model.ProjPoint{}, err
	}
	const half = utils.EarthPerimeter / 2
	if x < -half || x > half {
		return model.ProjPoint{}, &paramError{name: "x", value: c.Query("x")}
	}
	if y < -half || y > half {
		return model.ProjPoint{}, &paramError{name: "y", value: c.Query("y")}
	}
	return model.ProjPoint{X: x, Y: y}, nil
}

// zoomAndPoint 解析层级及坐标, 有 lng 参数时按经纬度处理
func zoomAndPoint(c *gin.Context) (int, model.ProjPoint, error) {
	if c.Query("zoom") == "" {
		return 0, model.ProjPoint{}, &paramError{name: "zoom"}
	}
	zoom, err := queryInt(c, "zoom", 0)
	if err != nil {
		return 0, model.ProjPoint{}, err
	}

	if _, ok := c.GetQuery("lng"); ok {
		g, err := geoQuery(c)
		if err != nil {
			return 0, model.ProjPoint{}, err
		}
		x, y := utils.Geo2Proj(g.Lng, g.Lat)
		return zoom, model.ProjPoint{X: x, Y: y}, nil
	}

	p, err := projQuery(c)
	return zoom, p, err
}
