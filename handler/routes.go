package handler

import (
	"net/http"

	"china-map/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes 配置路由
func SetupRoutes(r *gin.Engine) {
	r.Use(MetricsMiddleware())

	// CORS 跨域中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.SetHTMLTemplate(web.Templates())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 前端页面
	r.GET("/", Index)
	for _, v := range web.Views[1:] {
		r.GET(v.Path, RedirectView)
	}

	api := r.Group("/api")
	{
		api.GET("/views", GetViews)

		// 坐标转换
		api.GET("/proj", GetProj)
		api.GET("/geo", GetGeo)
		api.GET("/resolutions", GetResolutions)
		api.GET("/tile-index", GetTileIndex)
		api.GET("/pixel", GetPixel)

		// 瓦片
		api.GET("/tiles/:layer/:z/:x/:y", GetTile)
		api.GET("/tile/:z/:x/:y/bounds", GetTileBounds)
		api.GET("/tile/:z/:x/:y/urls", GetTileURLs)

		// 行政区划
		api.GET("/administrative", GetAdministrative)

		// 裁剪场景
		api.GET("/crop/scene", GetCropScene)
		api.GET("/crop/render", RenderCrop)

		// 用户
		api.POST("/login", Login)
		api.POST("/register", Register)

		// 需要认证的接口
		authorized := api.Group("/regions", AuthMiddleware())
		{
			authorized.GET("", ListRegions)
			authorized.POST("", CreateRegion)
			authorized.GET("/:id", GetRegion)
			authorized.DELETE("/:id", DeleteRegion)
		}
	}
}
