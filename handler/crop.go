package handler

import (
	"bytes"
	"net/http"

	"china-map/crop"
	"china-map/model"

	"github.com/fogleman/gg"
	"github.com/gin-gonic/gin"
)

// 默认渲染尺寸
const (
	defaultRenderWidth  = 800
	defaultRenderHeight = 600
)

func boundsQuery(c *gin.Context) (model.Bounds, error) {
	var b model.Bounds
	var err error
	if b.MinLng, err = queryFloat(c, "min_lng"); err != nil {
		return b, err
	}
	if b.MinLat, err = queryFloat(c, "min_lat"); err != nil {
		return b, err
	}
	if b.MaxLng, err = queryFloat(c, "max_lng"); err != nil {
		return b, err
	}
	if b.MaxLat, err = queryFloat(c, "max_lat"); err != nil {
		return b, err
	}
	return b, nil
}

// GetCropScene 裁剪场景覆盖的瓦片及像素窗口
// GET /api/crop/scene?zoom=&min_lng=&min_lat=&max_lng=&max_lat=
func GetCropScene(c *gin.Context) {
	if c.Query("zoom") == "" {
		respondError(c, &paramError{name: "zoom"})
		return
	}
	zoom, err := queryInt(c, "zoom", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := boundsQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	scene, err := crop.Coverage(b, zoom)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

// RenderCrop 渲染裁剪区域 PNG
// GET /api/crop/render?min_lng=&min_lat=&max_lng=&max_lat=[&zoom=&width=&height=]
func RenderCrop(c *gin.Context) {
	b, err := boundsQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	zoom, err := queryInt(c, "zoom", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	width, err := queryInt(c, "width", defaultRenderWidth)
	if err != nil {
		respondError(c, err)
		return
	}
	height, err := queryInt(c, "height", defaultRenderHeight)
	if err != nil {
		respondError(c, err)
		return
	}

	img, err := Renderer.Render(c.Request.Context(), b, zoom, width, height)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
