package tianditu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"china-map/model"
	"china-map/utils"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// Layer 瓦片图层
type Layer string

const (
	LayerImage Layer = "img" // 影像底图
	LayerLabel Layer = "cva" // 影像注记
)

var (
	ErrUnknownLayer    = errors.New("unknown layer")
	ErrTileOutOfRange  = errors.New("tile out of range")
	ErrEmptyKeyword    = errors.New("empty keyword")
	ErrInvalidResponse = errors.New("invalid upstream response")
)

// maxBodySize 单次响应体上限
const maxBodySize = 8 << 20

// UpstreamError 天地图返回非 200 状态码
type UpstreamError struct {
	URL    string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", redactToken(e.URL), e.Status)
}

// ParseLayer 解析图层名称
func ParseLayer(s string) (Layer, error) {
	switch Layer(s) {
	case LayerImage, LayerLabel:
		return Layer(s), nil
	default:
		return "", errors.Wrapf(ErrUnknownLayer, "%q", s)
	}
}

// TileData 瓦片内容
type TileData struct {
	ContentType string
	Body        []byte
	Cached      bool
}

// Options 客户端配置
type Options struct {
	HTTPClient        *http.Client
	TileTTL           time.Duration
	AdministrativeTTL time.Duration
}

// Client 天地图服务客户端, 瓦片和行政区划结果在内存中缓存
type Client struct {
	builder   *Builder
	http      *http.Client
	tiles     *gocache.Cache
	districts *gocache.Cache
	tileTTL   time.Duration
	adminTTL  time.Duration
}

// NewClient 创建客户端
func NewClient(b *Builder, opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.TileTTL <= 0 {
		opts.TileTTL = 10 * time.Minute
	}
	if opts.AdministrativeTTL <= 0 {
		opts.AdministrativeTTL = time.Hour
	}
	return &Client{
		builder:   b,
		http:      opts.HTTPClient,
		tiles:     gocache.New(opts.TileTTL, 2*opts.TileTTL),
		districts: gocache.New(opts.AdministrativeTTL, 2*opts.AdministrativeTTL),
		tileTTL:   opts.TileTTL,
		adminTTL:  opts.AdministrativeTTL,
	}
}

// Builder 返回地址构造器
func (c *Client) Builder() *Builder {
	return c.builder
}

// ValidateTile 检查层级及行列号是否合法
func ValidateTile(tile model.Tile) error {
	if _, err := utils.ResolutionAt(tile.Z); err != nil {
		return err
	}
	n := utils.TileCount(tile.Z)
	if tile.X < 0 || tile.Y < 0 || tile.X >= n || tile.Y >= n {
		return errors.Wrapf(ErrTileOutOfRange, "tile %s (max index %d)", tile, n-1)
	}
	return nil
}

// FetchTile 获取瓦片
func (c *Client) FetchTile(ctx context.Context, layer Layer, tile model.Tile) (*TileData, error) {
	if err := ValidateTile(tile); err != nil {
		return nil, err
	}

	key := string(layer) + "/" + tile.String()
	if v, found := c.tiles.Get(key); found {
		data := *(v.(*TileData))
		data.Cached = true
		return &data, nil
	}

	var u string
	switch layer {
	case LayerImage:
		u = c.builder.ImageURL(c.builder.Subdomain(), tile.X, tile.Y, tile.Z)
	case LayerLabel:
		u = c.builder.LabelURL(c.builder.Subdomain(), tile.X, tile.Y, tile.Z)
	default:
		return nil, errors.Wrapf(ErrUnknownLayer, "%q", layer)
	}

	body, contentType, err := c.get(ctx, u)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch tile %s/%s", layer, tile)
	}
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	data := &TileData{ContentType: contentType, Body: body}
	c.tiles.Set(key, data, c.tileTTL)
	slog.Debug("tile fetched", "layer", layer, "tile", tile.String(), "bytes", len(body))
	return data, nil
}

// Administrative 行政区划查询, 返回天地图原始 JSON
func (c *Client) Administrative(ctx context.Context, keyword string) ([]byte, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if v, found := c.districts.Get(keyword); found {
		return v.([]byte), nil
	}

	body, _, err := c.get(ctx, c.builder.AdministrativeURL(keyword))
	if err != nil {
		return nil, errors.Wrapf(err, "administrative lookup %q", keyword)
	}
	if !json.Valid(body) {
		return nil, errors.Wrapf(ErrInvalidResponse, "administrative lookup %q: body is not json", keyword)
	}

	c.districts.Set(keyword, body, c.adminTTL)
	return body, nil
}

// CachedTiles 当前缓存的瓦片数
func (c *Client) CachedTiles() int {
	return c.tiles.ItemCount()
}

func (c *Client) get(ctx context.Context, u string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "build request")
	}
	// 天地图会拒绝没有 User-Agent 的请求
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; china-map)")

	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redactToken(ue.URL)
		}
		return nil, "", errors.Wrap(err, "request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &UpstreamError{URL: u, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", errors.Wrap(err, "read body")
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// redactToken 日志及错误信息中隐藏访问令牌
func redactToken(u string) string {
	i := strings.Index(u, "tk=")
	if i < 0 {
		return u
	}
	end := strings.IndexByte(u[i:], '&')
	if end < 0 {
		return u[:i] + "tk=***"
	}
	return u[:i] + "tk=***" + u[i+end:]
}
