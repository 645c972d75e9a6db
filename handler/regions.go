package handler

import (
	"net/http"
	"strconv"
	"strings"

	"china-map/crop"
	"china-map/model"
	"china-map/utils"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

// RegionRequest 保存裁剪区域请求
type RegionRequest struct {
	Name   string   `json:"name" binding:"required"`
	MinLng float64  `json:"min_lng"`
	MinLat float64  `json:"min_lat"`
	MaxLng float64  `json:"max_lng"`
	MaxLat float64  `json:"max_lat"`
	Zoom   int      `json:"zoom"`
	Tags   []string `json:"tags"`
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

func regionID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &paramError{name: "id", value: raw}
	}
	return uint(id), nil
}

// ListRegions 当前用户的裁剪区域
func ListRegions(c *gin.Context) {
	regions, err := Regions.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(regions),
		"regions": regions,
	})
}

// CreateRegion 保存裁剪区域
// 保存前按层级计算一次覆盖范围, 超出瓦片上限的区域不予保存
func CreateRegion(c *gin.Context) {
	var req RegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	region := &model.CropRegion{
		OwnerID: currentUserID(c),
		Name:    strings.TrimSpace(req.Name),
		MinLng:  req.MinLng,
		MinLat:  req.MinLat,
		MaxLng:  req.MaxLng,
		MaxLat:  req.MaxLat,
		Zoom:    req.Zoom,
		Tags:    pq.StringArray(req.Tags),
	}
	if region.Name == "" {
		respondError(c, &paramError{name: "name"})
		return
	}
	if _, err := utils.ResolutionAt(region.Zoom); err != nil {
		respondError(c, err)
		return
	}
	if _, err := crop.Coverage(region.Bounds(), region.Zoom); err != nil {
		respondError(c, err)
		return
	}

	if err := Regions.Create(c.Request.Context(), region); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, region)
}

// GetRegion 裁剪区域详情, 附带覆盖的瓦片
func GetRegion(c *gin.Context) {
	id, err := regionID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	region, err := Regions.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	scene, err := crop.Coverage(region.Bounds(), region.Zoom)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"region": region,
		"scene":  scene,
	})
}

// DeleteRegion 删除裁剪区域
func DeleteRegion(c *gin.Context) {
	id, err := regionID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := Regions.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
