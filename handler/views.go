package handler

import (
	"net/http"

	"china-map/web"

	"github.com/gin-gonic/gin"
)

// Index 单页应用入口 (地图视图)
func Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title": web.Views[0].Title,
		"Views": web.Views,
	})
}

// RedirectView 前端使用 hash 路由, /about 重定向到 /#/about
func RedirectView(c *gin.Context) {
	view, ok := web.FindView(c.FullPath())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "页面不存在"})
		return
	}
	c.Redirect(http.StatusFound, "/#"+view.Path)
}

// GetViews 前端路由表
func GetViews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"history": "hash",
		"views":   web.Views,
	})
}
