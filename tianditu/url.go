// Package tianditu 天地图瓦片与行政区划服务的地址构造及访问
package tianditu

import (
	"fmt"
	"math/rand/v2"
	"net/url"
)

// Subdomains 天地图瓦片服务分片数 (t0 ~ t7)
const Subdomains = 8

// 服务地址
const (
	wmtsURL           = "https://t%d.tianditu.gov.cn/img_w/wmts?SERVICE=WMTS&REQUEST=GetTile&VERSION=1.0.0&LAYER=img&STYLE=default&TILEMATRIXSET=w&FORMAT=tiles&TILEMATRIX=%d&TILEROW=%d&TILECOL=%d&tk=%s"
	dataServerURL     = "http://t%d.tianditu.com/DataServer?T=cva_w&tk=%s&x=%d&y=%d&l=%d"
	administrativeURL = "http://api.tianditu.gov.cn/v2/administrative?keyword=%s&childLevel=1&extensions=false&tk=%s"
)

// Builder 根据访问令牌生成天地图请求地址
type Builder struct {
	Token string
	// Rand 返回 [0, n) 之间的随机数, 用于选择分片; 为空时使用 rand.IntN
	Rand func(n int) int
}

// NewBuilder 创建地址构造器
func NewBuilder(token string) *Builder {
	return &Builder{Token: token}
}

// Subdomain 随机选取一个分片序号
func (b *Builder) Subdomain() int {
	if b.Rand != nil {
		return b.Rand(Subdomains)
	}
	return rand.IntN(Subdomains)
}

// TileURLs 根据瓦片序列号得到瓦片地址
// 返回 [影像底图 WMTS 地址, 影像注记 DataServer 地址], 两者使用同一分片
func (b *Builder) TileURLs(x, y, zoom int) [2]string {
	i := b.Subdomain()
	return [2]string{
		b.ImageURL(i, x, y, zoom),
		b.LabelURL(i, x, y, zoom),
	}
}

// ImageURL 指定分片的影像底图地址
func (b *Builder) ImageURL(subdomain, x, y, zoom int) string {
	return fmt.Sprintf(wmtsURL, subdomain, zoom, y, x, url.QueryEscape(b.Token))
}

// LabelURL 指定分片的影像注记地址
func (b *Builder) LabelURL(subdomain, x, y, zoom int) string {
	return fmt.Sprintf(dataServerURL, subdomain, url.QueryEscape(b.Token), x, y, zoom)
}

// AdministrativeURL 行政区划查询地址
func (b *Builder) AdministrativeURL(keyword string) string {
	return fmt.Sprintf(administrativeURL, url.QueryEscape(keyword), url.QueryEscape(b.Token))
}
