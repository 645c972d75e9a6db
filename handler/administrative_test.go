package handler

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"china-map/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GetAdministrative(t *testing.T) {
	env := setupTest(t)
	target := "/api/administrative?keyword=" + url.QueryEscape("四川省")

	w := env.get(target)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "四川省")
	assert.Equal(t, 1, env.districts.saves)

	w = env.get(target)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, 1, env.districts.saves)
}

func Test_GetAdministrative_Expired(t *testing.T) {
	env := setupTest(t)
	env.districts.districts["浙江省"] = model.District{
		Keyword:   "浙江省",
		Body:      `{"stale":true}`,
		FetchedAt: time.Now().Add(-48 * time.Hour),
	}

	w := env.get("/api/administrative?keyword=" + url.QueryEscape("浙江省"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.NotContains(t, w.Body.String(), "stale")
}

func Test_GetAdministrative_Errors(t *testing.T) {
	env := setupTest(t)

	w := env.get("/api/administrative?keyword=%20")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.get("/api/administrative?keyword=broken")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 0, env.districts.saves)
}
