package tianditu

import (
	"net/url"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "0123456789abcdef"

var subdomainPattern = regexp.MustCompile(`^https?://t(\d)\.tianditu\.`)

func Test_TileURLs(t *testing.T) {
	b := NewBuilder(testToken)
	for range 100 {
		urls := b.TileURLs(1, 2, 3)

		assert.Contains(t, urls[0], "TILEROW=2")
		assert.Contains(t, urls[0], "TILECOL=1")
		assert.Contains(t, urls[0], "TILEMATRIX=3")
		assert.Contains(t, urls[0], "tk="+testToken)
		assert.Contains(t, urls[1], "x=1&y=2&l=3")
		assert.Contains(t, urls[1], "tk="+testToken)

		var shards [2]int
		for i, u := range urls {
			m := subdomainPattern.FindStringSubmatch(u)
			require.Len(t, m, 2, u)
			shard, err := strconv.Atoi(m[1])
			require.NoError(t, err)
			assert.GreaterOrEqual(t, shard, 0)
			assert.Less(t, shard, Subdomains)
			shards[i] = shard
		}
		assert.Equal(t, shards[0], shards[1])
	}
}

func Test_TileURLs_Exact(t *testing.T) {
	b := &Builder{Token: testToken, Rand: func(n int) int { return n - 1 }}
	urls := b.TileURLs(1, 2, 3)
	assert.Equal(t,
		"https://t7.tianditu.gov.cn/img_w/wmts?SERVICE=WMTS&REQUEST=GetTile&VERSION=1.0.0&LAYER=img&STYLE=default&TILEMATRIXSET=w&FORMAT=tiles&TILEMATRIX=3&TILEROW=2&TILECOL=1&tk="+testToken,
		urls[0])
	assert.Equal(t,
		"http://t7.tianditu.com/DataServer?T=cva_w&tk="+testToken+"&x=1&y=2&l=3",
		urls[1])
}

func Test_Subdomain_Uniform(t *testing.T) {
	b := NewBuilder(testToken)
	seen := make(map[int]int)
	for range 4000 {
		seen[b.Subdomain()]++
	}
	assert.Len(t, seen, Subdomains)
	for i := 0; i < Subdomains; i++ {
		assert.Greater(t, seen[i], 300, "shard %d", i)
	}
}

func Test_AdministrativeURL(t *testing.T) {
	b := NewBuilder(testToken)
	u := b.AdministrativeURL("北京市")
	assert.Equal(t,
		"http://api.tianditu.gov.cn/v2/administrative?keyword=%E5%8C%97%E4%BA%AC%E5%B8%82&childLevel=1&extensions=false&tk="+testToken,
		u)

	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "北京市", parsed.Query().Get("keyword"))
	assert.Equal(t, "1", parsed.Query().Get("childLevel"))

	u = b.AdministrativeURL("a&tk=evil")
	parsed, err = url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "a&tk=evil", parsed.Query().Get("keyword"))
	assert.Equal(t, testToken, parsed.Query().Get("tk"))
}
