package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"testing"
	"time"

	"china-map/db"
	"china-map/model"
	"china-map/tianditu"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testToken = "0123456789abcdef"

type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// fakeTianditu 模拟天地图服务
func fakeTianditu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch r.URL.Path {
	case "/img_w/wmts":
		if q.Get("TILEMATRIX") == "9" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg:" + q.Get("TILEMATRIX") + "/" + q.Get("TILECOL") + "/" + q.Get("TILEROW")))
	case "/DataServer":
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png:" + q.Get("l") + "/" + q.Get("x") + "/" + q.Get("y")))
	case "/v2/administrative":
		if q.Get("keyword") == "broken" {
			_, _ = w.Write([]byte("not json"))
			return
		}
		body, _ := json.Marshal(map[string]any{
			"status": 200,
			"data":   []map[string]string{{"name": q.Get("keyword")}},
		})
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type memUsers struct {
	mu    sync.Mutex
	next  uint
	users map[string]*model.User
}

func (s *memUsers) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return db.ErrDuplicate
	}
	s.next++
	u.ID = s.next
	cp := *u
	s.users[u.Username] = &cp
	return nil
}

func (s *memUsers) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memRegions struct {
	mu      sync.Mutex
	next    uint
	regions map[uint]model.CropRegion
}

func (s *memRegions) Create(_ context.Context, r *model.CropRegion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	r.ID = s.next
	r.CreatedAt = time.Now()
	s.regions[r.ID] = *r
	return nil
}

func (s *memRegions) ListByOwner(_ context.Context, ownerID uint) ([]model.CropRegion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CropRegion, 0)
	for _, r := range s.regions {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memRegions) Get(_ context.Context, ownerID, id uint) (*model.CropRegion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regions[id]
	if !ok || r.OwnerID != ownerID {
		return nil, db.ErrNotFound
	}
	return &r, nil
}

func (s *memRegions) Delete(_ context.Context, ownerID, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regions[id]
	if !ok || r.OwnerID != ownerID {
		return db.ErrNotFound
	}
	delete(s.regions, id)
	return nil
}

type memDistricts struct {
	mu        sync.Mutex
	districts map[string]model.District
	saves     int
}

func (s *memDistricts) Find(_ context.Context, keyword string, maxAge time.Duration) (*model.District, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.districts[keyword]
	if !ok || time.Since(d.FetchedAt) > maxAge {
		return nil, db.ErrNotFound
	}
	return &d, nil
}

func (s *memDistricts) Save(_ context.Context, d *model.District) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.districts[d.Keyword] = *d
	return nil
}

type fakeRenderer struct {
	calls []model.Bounds
}

func (f *fakeRenderer) Render(_ context.Context, b model.Bounds, _, width, height int) (image.Image, error) {
	f.calls = append(f.calls, b)
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

type testEnv struct {
	router    *gin.Engine
	districts *memDistricts
	renderer  *fakeRenderer
}

// setupTest 使用模拟依赖初始化路由
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(http.HandlerFunc(fakeTianditu))
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)

	env := &testEnv{
		districts: &memDistricts{districts: make(map[string]model.District)},
		renderer:  &fakeRenderer{},
	}

	Tianditu = tianditu.NewClient(
		&tianditu.Builder{Token: testToken, Rand: func(int) int { return 0 }},
		tianditu.Options{HTTPClient: &http.Client{Transport: rewriteTransport{target: target}}},
	)
	Users = &memUsers{users: make(map[string]*model.User)}
	Regions = &memRegions{regions: make(map[uint]model.CropRegion)}
	Districts = env.districts
	Renderer = env.renderer
	ExposeURLs = false
	SetJWT("test-secret", time.Hour)

	env.router = gin.New()
	SetupRoutes(env.router)
	return env
}

func (e *testEnv) do(method, target string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, target, nil, "")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
