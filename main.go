package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"china-map/config"
	"china-map/crop"
	"china-map/db"
	"china-map/handler"
	"china-map/logging"
	"china-map/tianditu"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 读取配置
	cfg, err := config.Load()
	if err != nil {
		slog.Error("加载配置失败", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	slog.Info("=== 中国地图服务启动 ===")

	// 2. 初始化数据库
	// 连接 PostgreSQL，自动迁移表结构
	conn, err := db.InitDB(cfg.DB)
	if err != nil {
		slog.Error("初始化数据库失败", "error", err)
		os.Exit(1)
	}

	// 3. 初始化天地图客户端及依赖
	builder := tianditu.NewBuilder(cfg.Tianditu.Token)
	handler.Tianditu = tianditu.NewClient(builder, tianditu.Options{
		HTTPClient:        &http.Client{Timeout: cfg.Tianditu.Timeout},
		TileTTL:           cfg.Tianditu.TileTTL,
		AdministrativeTTL: cfg.Tianditu.AdministrativeTTL,
	})
	handler.ExposeURLs = cfg.Tianditu.ExposeURLs
	handler.Renderer = crop.NewRenderer(cfg.Tianditu.Token)
	handler.Users = db.NewUserStore(conn)
	handler.Regions = db.NewRegionStore(conn)
	handler.Districts = db.NewDistrictStore(conn)
	handler.SetJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	// 4. 初始化 Gin 引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	// 5. 配置路由
	handler.SetupRoutes(r)

	// 6. 启动服务器
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("服务器启动", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("服务器启动失败", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("服务器关闭失败", "error", err)
	}
	slog.Info("服务器已退出")
}
