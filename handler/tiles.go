package handler

import (
	"net/http"

	"china-map/crop"
	"china-map/model"
	"china-map/tianditu"

	"github.com/gin-gonic/gin"
)

// tileParams 解析路径中的 :z/:x/:y
func tileParams(c *gin.Context) (model.Tile, error) {
	z, err := paramInt(c, "z")
	if err != nil {
		return model.Tile{}, err
	}
	x, err := paramInt(c, "x")
	if err != nil {
		return model.Tile{}, err
	}
	y, err := paramInt(c, "y")
	if err != nil {
		return model.Tile{}, err
	}
	tile := model.Tile{X: x, Y: y, Z: z}
	if err := tianditu.ValidateTile(tile); err != nil {
		return model.Tile{}, err
	}
	return tile, nil
}

// GetTile 瓦片代理, 令牌只保存在服务端
// GET /api/tiles/:layer/:z/:x/:y
func GetTile(c *gin.Context) {
	layer, err := tianditu.ParseLayer(c.Param("layer"))
	if err != nil {
		respondError(c, err)
		return
	}
	tile, err := tileParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := Tianditu.FetchTile(c.Request.Context(), layer, tile)
	if err != nil {
		upstreamErrors.WithLabelValues("tile").Inc()
		respondError(c, err)
		return
	}

	cache := "MISS"
	if data.Cached {
		cache = "HIT"
	}
	tileRequests.WithLabelValues(string(layer), cache).Inc()

	c.Header("X-Cache", cache)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, data.ContentType, data.Body)
}

// GetTileBounds 瓦片的经纬度范围
// GET /api/tile/:z/:x/:y/bounds
func GetTileBounds(c *gin.Context) {
	tile, err := tileParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tile":   tile,
		"bounds": crop.TileBounds(tile),
	})
}

// GetTileURLs 瓦片原始地址 (影像底图 + 影像注记)
// GET /api/tile/:z/:x/:y/urls
func GetTileURLs(c *gin.Context) {
	if !ExposeURLs {
		c.JSON(http.StatusForbidden, gin.H{"error": "原始瓦片地址未开放, 请使用 /api/tiles 代理"})
		return
	}
	tile, err := tileParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	urls := Tianditu.Builder().TileURLs(tile.X, tile.Y, tile.Z)
	c.JSON(http.StatusOK, gin.H{
		"tile": tile,
		"urls": urls,
	})
}
