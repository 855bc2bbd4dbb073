package repository

import (
	"context"

	"gorm.io/gorm"

	"resale_erp_202601/internal/model"
)

// ==================== 接口定义 ====================

// ToyRepository 潮玩分类仓储接口（品牌 → 系列 → 角色）
type ToyRepository interface {
	// 品牌
	CreateBrand(ctx context.Context, brand *model.ToyBrand) error
	GetBrand(ctx context.Context, id int64) (*model.ToyBrand, error)
	GetBrandByName(ctx context.Context, name string) (*model.ToyBrand, error)
	ListBrands(ctx context.Context) ([]model.ToyBrand, error)

	// 系列
	CreateSeries(ctx context.Context, series *model.ToySeries) error
	GetSeries(ctx context.Context, id int64) (*model.ToySeries, error)
	GetSeriesByName(ctx context.Context, brandID int64, name string) (*model.ToySeries, error)
	ListSeries(ctx context.Context, brandID int64) ([]model.ToySeries, error)

	// 角色
	CreateCharacter(ctx context.Context, ch *model.ToyCharacter) error
	GetCharacterByName(ctx context.Context, seriesID int64, name string) (*model.ToyCharacter, error)
	ListCharacters(ctx context.Context, seriesID int64) ([]model.ToyCharacter, error)

	// 层级
	Hierarchy(ctx context.Context) ([]model.ToyBrand, error)
}

// ==================== 仓储实现 ====================

type toyRepo struct {
	db *gorm.DB
}

// NewToyRepository 创建潮玩分类仓储
func NewToyRepository(db *gorm.DB) ToyRepository {
	return &toyRepo{db: db}
}

func (r *toyRepo) CreateBrand(ctx context.Context, brand *model.ToyBrand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *toyRepo) GetBrand(ctx context.Context, id int64) (*model.ToyBrand, error) {
	var brand model.ToyBrand
	err := r.db.WithContext(ctx).
		Preload("Series", "is_active = ?", true).
		First(&brand, id).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *toyRepo) GetBrandByName(ctx context.Context, name string) (*model.ToyBrand, error) {
	var brand model.ToyBrand
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *toyRepo) ListBrands(ctx context.Context) ([]model.ToyBrand, error) {
	var brands []model.ToyBrand
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("Series", "is_active = ?", true).
		Preload("Series.Characters", "is_active = ?", true).
		Order("created_at DESC").
		Find(&brands).Error
	return brands, err
}

func (r *toyRepo) CreateSeries(ctx context.Context, series *model.ToySeries) error {
	return r.db.WithContext(ctx).Create(series).Error
}

func (r *toyRepo) GetSeries(ctx context.Context, id int64) (*model.ToySeries, error) {
	var series model.ToySeries
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Characters", "is_active = ?", true).
		First(&series, id).Error
	if err != nil {
		return nil, err
	}
	return &series, nil
}

func (r *toyRepo) GetSeriesByName(ctx context.Context, brandID int64, name string) (*model.ToySeries, error) {
	var series model.ToySeries
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND name = ?", brandID, name).
		First(&series).Error
	if err != nil {
		return nil, err
	}
	return &series, nil
}

func (r *toyRepo) ListSeries(ctx context.Context, brandID int64) ([]model.ToySeries, error) {
	var series []model.ToySeries
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("Brand").
		Preload("Characters", "is_active = ?", true)
	if brandID > 0 {
		query = query.Where("brand_id = ?", brandID)
	}
	err := query.Order("created_at DESC").Find(&series).Error
	return series, err
}

func (r *toyRepo) CreateCharacter(ctx context.Context, ch *model.ToyCharacter) error {
	return r.db.WithContext(ctx).Create(ch).Error
}

func (r *toyRepo) GetCharacterByName(ctx context.Context, seriesID int64, name string) (*model.ToyCharacter, error) {
	var ch model.ToyCharacter
	err := r.db.WithContext(ctx).
		Where("series_id = ? AND name = ?", seriesID, name).
		First(&ch).Error
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *toyRepo) ListCharacters(ctx context.Context, seriesID int64) ([]model.ToyCharacter, error) {
	var chars []model.ToyCharacter
	err := r.db.WithContext(ctx).
		Where("series_id = ? AND is_active = ?", seriesID, true).
		Order("name ASC").
		Find(&chars).Error
	return chars, err
}

// Hierarchy 完整三级层级，角色下挂在册的潮玩类商品
func (r *toyRepo) Hierarchy(ctx context.Context) ([]model.ToyBrand, error) {
	var brands []model.ToyBrand
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("Series", "is_active = ?", true).
		Preload("Series.Characters", "is_active = ?", true).
		Preload("Series.Characters.Items", "item_type = ?", model.ItemTypeToy).
		Preload("Series.Characters.Items.Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order("name ASC").
		Find(&brands).Error
	return brands, err
}
