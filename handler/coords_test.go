package handler

import (
	"net/http"
	"testing"

	"china-map/model"
	"china-map/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GetProj(t *testing.T) {
	env := setupTest(t)

	w := env.get("/api/proj?lng=0&lat=0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ProjPoint{X: 0, Y: 0}, decode[model.ProjPoint](t, w))

	w = env.get("/api/proj?lng=116.391&lat=39.907")
	require.Equal(t, http.StatusOK, w.Code)
	x, y := utils.Geo2Proj(116.391, 39.907)
	p := decode[model.ProjPoint](t, w)
	assert.InDelta(t, x, p.X, 1e-6)
	assert.InDelta(t, y, p.Y, 1e-6)

	// 墨卡托纬度上限处投影到世界平面上边缘
	w = env.get("/api/proj?lng=0&lat=" + ftoa(utils.MaxLat))
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, utils.EarthPerimeter/2, decode[model.ProjPoint](t, w).Y, 1e-3)
}

func Test_GetProj_BadParams(t *testing.T) {
	env := setupTest(t)

	w := env.get("/api/proj?lng=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "缺少参数 lat")

	w = env.get("/api/proj?lng=abc&lat=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "lng")

	w = env.get("/api/proj?lng=181&lat=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.get("/api/proj?lng=0&lat=-91")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 超出墨卡托有效范围的纬度不再静默截断
	w = env.get("/api/proj?lng=0&lat=89")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "lat")

	for _, q := range []string{
		"lng=NaN&lat=0",
		"lng=0&lat=NaN",
		"lng=Inf&lat=0",
		"lng=0&lat=-Inf",
		"lng=1e300&lat=0",
	} {
		w = env.get("/api/proj?" + q)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Contains(t, w.Body.String(), "error", q)
	}
}

func Test_GetGeo(t *testing.T) {
	env := setupTest(t)

	x, y := utils.Geo2Proj(121.4737, 31.2304)
	w := env.get("/api/geo?x=" + ftoa(x) + "&y=" + ftoa(y))
	require.Equal(t, http.StatusOK, w.Code)
	g := decode[model.GeoPoint](t, w)
	assert.InDelta(t, 121.4737, g.Lng, 1e-9)
	assert.InDelta(t, 31.2304, g.Lat, 1e-9)

	w = env.get("/api/geo?x=1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, q := range []string{"x=Inf&y=0", "x=0&y=NaN", "x=1e300&y=0", "x=0&y=-3e7"} {
		w = env.get("/api/geo?" + q)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func Test_GetResolutions(t *testing.T) {
	env := setupTest(t)

	w := env.get("/api/resolutions")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		TileSize    int       `json:"tile_size"`
		MaxZoom     int       `json:"max_zoom"`
		Resolutions []float64 `json:"resolutions"`
	}](t, w)
	assert.Equal(t, 256, body.TileSize)
	assert.Equal(t, 18, body.MaxZoom)
	require.Len(t, body.Resolutions, 19)
	assert.Equal(t, utils.Resolutions, body.Resolutions)
}

func Test_GetTileIndex(t *testing.T) {
	env := setupTest(t)

	w := env.get("/api/tile-index?zoom=1&x=0&y=0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.Tile{X: 1, Y: 1, Z: 1}, decode[model.Tile](t, w))

	w = env.get("/api/tile-index?zoom=10&lng=116.391&lat=39.907")
	require.Equal(t, http.StatusOK, w.Code)
	want, err := utils.TileIndexFromGeo(10, 116.391, 39.907)
	require.NoError(t, err)
	assert.Equal(t, want, decode[model.Tile](t, w))

	w = env.get("/api/tile-index?zoom=19&x=0&y=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid zoom level")

	w = env.get("/api/tile-index?x=0&y=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "zoom")

	w = env.get("/api/tile-index?zoom=a&x=0&y=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.get("/api/tile-index?zoom=3&x=NaN&y=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "x")
}

func Test_GetPixel(t *testing.T) {
	env := setupTest(t)

	w := env.get("/api/pixel?zoom=0&lng=0&lat=0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.Pixel{X: 128, Y: 128, Z: 0}, decode[model.Pixel](t, w))

	w = env.get("/api/pixel?zoom=2&x=0&y=0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.Pixel{X: 512, Y: 512, Z: 2}, decode[model.Pixel](t, w))

	w = env.get("/api/pixel?zoom=-1&x=0&y=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.get("/api/pixel?zoom=3&x=1e300&y=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.get("/api/pixel?zoom=3&lng=0&lat=Inf")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
