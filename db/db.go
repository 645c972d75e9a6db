package db

import (
	"fmt"
	"log/slog"
	"time"

	"china-map/config"
	"china-map/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 连接 PostgreSQL 并自动迁移表结构
func InitDB(cfg config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	// 带重试的数据库连接 (Docker 启动时数据库可能还没准备好)
	var (
		conn *gorm.DB
		err  error
	)
	for i := 0; i < cfg.MaxRetries; i++ {
		conn, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err == nil {
			break
		}
		slog.Warn("等待数据库就绪...", "attempt", i+1, "max", cfg.MaxRetries, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 自动迁移模式 (自动创建表结构)
	if err := conn.AutoMigrate(&model.User{}, &model.CropRegion{}, &model.District{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	slog.Info("数据库连接并初始化成功", "host", cfg.Host, "db", cfg.Name)
	return conn, nil
}
