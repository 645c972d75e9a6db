package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"china-map/crop"
	"china-map/db"
	"china-map/tianditu"
	"china-map/utils"

	"github.com/gin-gonic/gin"
)

// ErrBadParam 请求参数错误
var ErrBadParam = errors.New("请求参数错误")

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	if e.value == "" {
		return ErrBadParam.Error() + ": 缺少参数 " + e.name
	}
	return ErrBadParam.Error() + ": " + e.name + "=" + strconv.Quote(e.value)
}

func (e *paramError) Unwrap() error { return ErrBadParam }

// statusOf 错误对应的 HTTP 状态码
func statusOf(err error) int {
	var upstream *tianditu.UpstreamError
	switch {
	case errors.Is(err, ErrBadParam),
		errors.Is(err, utils.ErrInvalidZoom),
		errors.Is(err, tianditu.ErrTileOutOfRange),
		errors.Is(err, tianditu.ErrUnknownLayer),
		errors.Is(err, tianditu.ErrEmptyKeyword),
		errors.Is(err, crop.ErrInvalidBounds),
		errors.Is(err, crop.ErrTooManyTiles),
		errors.Is(err, crop.ErrInvalidSize):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrDuplicate):
		return http.StatusConflict
	case errors.As(err, &upstream), errors.Is(err, tianditu.ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError 统一错误响应
func respondError(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
		if status == http.StatusInternalServerError {
			msg = "服务器内部错误"
		}
	}
	c.JSON(status, gin.H{"error": msg})
}

func queryFloat(c *gin.Context, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, &paramError{name: name}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &paramError{name: name, value: raw}
	}
	return v, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, value: raw}
	}
	return v, nil
}

func paramInt(c *gin.Context, name string) (int, error) {
	raw := c.Param(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, value: raw}
	}
	return v, nil
}
