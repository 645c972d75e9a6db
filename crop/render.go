package crop

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"china-map/model"
	"china-map/tianditu"
	"china-map/utils"

	sm "github.com/flopp/go-staticmaps"
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
)

// 渲染尺寸上限 (像素)
const (
	MaxRenderWidth  = 2048
	MaxRenderHeight = 2048
)

var ErrInvalidSize = errors.New("invalid render size")

const imagePattern = "http://%[1]s.tianditu.gov.cn/DataServer?T=img_w&x=%[3]d&y=%[4]d&l=%[2]d&tk=%[5]s"

// NewTileProvider 天地图影像底图的静态地图瓦片源
func NewTileProvider(token string) *sm.TileProvider {
	shards := make([]string, tianditu.Subdomains)
	for i := range shards {
		shards[i] = fmt.Sprintf("t%d", i)
	}
	return &sm.TileProvider{
		Name:        "tianditu-img",
		Attribution: "© 天地图",
		TileSize:    256,
		URLPattern:  imagePattern,
		APIKey:      token,
		Shards:      shards,
	}
}

// Renderer 裁剪区域静态地图渲染
type Renderer struct {
	provider *sm.TileProvider
	cache    sm.TileCache
	outline  color.Color
}

// NewRenderer 创建渲染器
func NewRenderer(token string) *Renderer {
	return &Renderer{
		provider: NewTileProvider(token),
		cache:    sm.NewTileCacheFromUserCache(0o755),
		outline:  color.RGBA{0xff, 0, 0, 0xff},
	}
}

// Render 渲染裁剪区域, zoom 为 0 时根据范围自动选择层级
func (r *Renderer) Render(ctx context.Context, b model.Bounds, zoom, width, height int) (image.Image, error) {
	if !b.Valid() {
		return nil, errors.Wrapf(ErrInvalidBounds, "%+v", b)
	}
	if width <= 0 || height <= 0 || width > MaxRenderWidth || height > MaxRenderHeight {
		return nil, errors.Wrapf(ErrInvalidSize, "%dx%d (max %dx%d)", width, height, MaxRenderWidth, MaxRenderHeight)
	}
	if zoom != 0 {
		if _, err := utils.ResolutionAt(zoom); err != nil {
			return nil, err
		}
	}

	m := r.newContext(b, zoom, width, height)

	type result struct {
		img image.Image
		err error
	}
	// 瓦片下载使用 http.DefaultClient, 无法随 ctx 取消; 取消后后台渲染仍会跑完,
	// 结果写入带缓冲的 done 后丢弃
	done := make(chan result, 1)
	go func() {
		img, err := m.Render()
		done <- result{img, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, errors.Wrap(res.err, "render static map")
		}
		return res.img, nil
	}
}

func (r *Renderer) newContext(b model.Bounds, zoom, width, height int) *sm.Context {
	m := sm.NewContext()
	m.SetSize(width, height)
	m.SetTileProvider(r.provider)
	m.SetCache(r.cache)
	m.SetMaxZoom(utils.MaxZoom)

	corners := []s2.LatLng{
		s2.LatLngFromDegrees(b.MaxLat, b.MinLng),
		s2.LatLngFromDegrees(b.MaxLat, b.MaxLng),
		s2.LatLngFromDegrees(b.MinLat, b.MaxLng),
		s2.LatLngFromDegrees(b.MinLat, b.MinLng),
	}
	rect := s2.RectFromLatLng(corners[0])
	for _, c := range corners[1:] {
		rect = rect.AddPoint(c)
	}
	// 指定层级时以范围中心定位, 否则按范围自适应
	if zoom > 0 {
		center := b.Center()
		m.SetCenter(s2.LatLngFromDegrees(center.Lat, center.Lng))
		m.SetZoom(zoom)
	} else {
		m.SetBoundingBox(rect)
	}
	m.AddObject(sm.NewArea(append(corners, corners[0]), r.outline, color.Transparent, 2))
	return m
}
