package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"china-map/model"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("记录不存在")
	ErrDuplicate = errors.New("记录已存在")
)

// UserStore 用户存储
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// RegionStore 裁剪区域存储, 所有操作都限定在所属用户范围内
type RegionStore interface {
	Create(ctx context.Context, r *model.CropRegion) error
	ListByOwner(ctx context.Context, ownerID uint) ([]model.CropRegion, error)
	Get(ctx context.Context, ownerID, id uint) (*model.CropRegion, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

// DistrictStore 行政区划查询结果存储
type DistrictStore interface {
	// Find 查找 maxAge 以内获取的结果
	Find(ctx context.Context, keyword string, maxAge time.Duration) (*model.District, error)
	Save(ctx context.Context, d *model.District) error
}

// translate 将 gorm 错误转换为包内错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

type GormUserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(ctx context.Context, u *model.User) error {
	if err := translate(s.db.WithContext(ctx).Create(u).Error); err != nil {
		return fmt.Errorf("创建用户失败: %w", err)
	}
	return nil
}

func (s *GormUserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

type GormRegionStore struct {
	db *gorm.DB
}

func NewRegionStore(db *gorm.DB) *GormRegionStore {
	return &GormRegionStore{db: db}
}

func (s *GormRegionStore) Create(ctx context.Context, r *model.CropRegion) error {
	if err := translate(s.db.WithContext(ctx).Create(r).Error); err != nil {
		return fmt.Errorf("保存裁剪区域失败: %w", err)
	}
	return nil
}

func (s *GormRegionStore) ListByOwner(ctx context.Context, ownerID uint) ([]model.CropRegion, error) {
	regions := make([]model.CropRegion, 0)
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&regions).Error
	if err != nil {
		return nil, fmt.Errorf("查询裁剪区域失败: %w", err)
	}
	return regions, nil
}

func (s *GormRegionStore) Get(ctx context.Context, ownerID, id uint) (*model.CropRegion, error) {
	var r model.CropRegion
	err := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&r).Error
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *GormRegionStore) Delete(ctx context.Context, ownerID, id uint) error {
	res := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.CropRegion{})
	if res.Error != nil {
		return fmt.Errorf("删除裁剪区域失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormDistrictStore struct {
	db *gorm.DB
}

func NewDistrictStore(db *gorm.DB) *GormDistrictStore {
	return &GormDistrictStore{db: db}
}

func (s *GormDistrictStore) Find(ctx context.Context, keyword string, maxAge time.Duration) (*model.District, error) {
	var d model.District
	err := s.db.WithContext(ctx).
		Where("keyword = ? AND fetched_at > ?", keyword, time.Now().Add(-maxAge)).
		First(&d).Error
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// Save 按关键字插入或更新
func (s *GormDistrictStore) Save(ctx context.Context, d *model.District) error {
	if err := s.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("保存行政区划失败: %w", err)
	}
	return nil
}
