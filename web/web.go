// Package web 前端单页应用外壳 (hash 路由)
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// View 前端路由
type View struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Views 路由表, 前端使用 hash 模式 (/#/about)
var Views = []View{
	{Path: "/", Name: "map", Title: "中国地图"},
	{Path: "/about", Name: "about", Title: "关于"},
	{Path: "/crop", Name: "crop", Title: "裁剪场景"},
}

// Href hash 路由链接
func (v View) Href() string {
	return "#" + v.Path
}

// FindView 根据路径查找路由
func FindView(path string) (View, bool) {
	for _, v := range Views {
		if v.Path == path {
			return v, true
		}
	}
	return View{}, false
}

// Templates 解析内嵌模板
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}
