package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"china-map/db"
	"china-map/model"

	"github.com/gin-gonic/gin"
)

const jsonContentType = "application/json; charset=utf-8"

// GetAdministrative 行政区划查询
// 优先使用数据库中未过期的结果, 否则请求天地图并保存
// GET /api/administrative?keyword=
func GetAdministrative(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		respondError(c, &paramError{name: "keyword"})
		return
	}
	ctx := c.Request.Context()

	if Districts != nil {
		d, err := Districts.Find(ctx, keyword, DistrictMaxAge)
		switch {
		case err == nil:
			districtLookups.WithLabelValues("db").Inc()
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, jsonContentType, []byte(d.Body))
			return
		case !errors.Is(err, db.ErrNotFound):
			slog.Warn("查询行政区划缓存失败", "keyword", keyword, "error", err)
		}
	}

	body, err := Tianditu.Administrative(ctx, keyword)
	if err != nil {
		upstreamErrors.WithLabelValues("administrative").Inc()
		respondError(c, err)
		return
	}
	districtLookups.WithLabelValues("upstream").Inc()

	if Districts != nil {
		d := &model.District{Keyword: keyword, Body: string(body), FetchedAt: time.Now()}
		if err := Districts.Save(ctx, d); err != nil {
			slog.Warn("保存行政区划失败", "keyword", keyword, "error", err)
		}
	}

	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, jsonContentType, body)
}
