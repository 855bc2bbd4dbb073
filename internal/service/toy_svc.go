package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/pkg/cache"
)

// ToyService 潮玩三级分类：品牌 → 系列 → 角色
type ToyService struct {
	toyRepo repository.ToyRepository
	cache   *cache.TagCache
}

// NewToyService 创建潮玩分类服务
func NewToyService(toyRepo repository.ToyRepository, tagCache *cache.TagCache) *ToyService {
	return &ToyService{toyRepo: toyRepo, cache: tagCache}
}

// ==================== 品牌 ====================

func (s *ToyService) ListBrands(ctx context.Context) ([]model.ToyBrand, error) {
	cached, err := s.cache.GetOrLoad("toys:brands", func() (interface{}, error) {
		return s.toyRepo.ListBrands(ctx)
	}, cache.TagToys)
	if err != nil {
		return nil, err
	}
	return cached.([]model.ToyBrand), nil
}

func (s *ToyService) CreateBrand(ctx context.Context, req *dto.ToyBrandRequest) (*model.ToyBrand, error) {
	if _, err := s.toyRepo.GetBrandByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("品牌 %s 已存在", req.Name)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	brand := &model.ToyBrand{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		IsActive:    true,
	}
	if err := s.toyRepo.CreateBrand(ctx, brand); err != nil {
		return nil, fmt.Errorf("创建品牌失败: %v", err)
	}

	s.cache.Invalidate(cache.TagToys)
	return brand, nil
}

// ==================== 系列 ====================

func (s *ToyService) ListSeries(ctx context.Context, brandID int64) ([]model.ToySeries, error) {
	key := fmt.Sprintf("toys:series:%d", brandID)
	cached, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		return s.toyRepo.ListSeries(ctx, brandID)
	}, cache.TagToys)
	if err != nil {
		return nil, err
	}
	return cached.([]model.ToySeries), nil
}

// CreateSeries 同一品牌下系列名唯一
func (s *ToyService) CreateSeries(ctx context.Context, req *dto.ToySeriesRequest) (*model.ToySeries, error) {
	if _, err := s.toyRepo.GetBrand(ctx, req.BrandID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("品牌不存在: %d", req.BrandID)
		}
		return nil, err
	}
	if _, err := s.toyRepo.GetSeriesByName(ctx, req.BrandID, req.Name); err == nil {
		return nil, fmt.Errorf("该品牌下系列 %s 已存在", req.Name)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	series := &model.ToySeries{
		BrandID:     req.BrandID,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		ReleaseDate: datePtr(req.ReleaseDate),
		IsActive:    true,
	}
	if err := s.toyRepo.CreateSeries(ctx, series); err != nil {
		return nil, fmt.Errorf("创建系列失败: %v", err)
	}

	s.cache.Invalidate(cache.TagToys)
	return series, nil
}

// ==================== 角色 ====================

func (s *ToyService) ListCharacters(ctx context.Context, seriesID int64) ([]model.ToyCharacter, error) {
	key := fmt.Sprintf("toys:characters:%d", seriesID)
	cached, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		return s.toyRepo.ListCharacters(ctx, seriesID)
	}, cache.TagToys)
	if err != nil {
		return nil, err
	}
	return cached.([]model.ToyCharacter), nil
}

func (s *ToyService) CreateCharacter(ctx context.Context, req *dto.ToyCharacterRequest) (*model.ToyCharacter, error) {
	if _, err := s.toyRepo.GetSeries(ctx, req.SeriesID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("系列不存在: %d", req.SeriesID)
		}
		return nil, err
	}
	if _, err := s.toyRepo.GetCharacterByName(ctx, req.SeriesID, req.Name); err == nil {
		return nil, fmt.Errorf("该系列下角色 %s 已存在", req.Name)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	ch := &model.ToyCharacter{
		SeriesID:    req.SeriesID,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    true,
	}
	if err := s.toyRepo.CreateCharacter(ctx, ch); err != nil {
		return nil, fmt.Errorf("创建角色失败: %v", err)
	}

	s.cache.Invalidate(cache.TagToys)
	return ch, nil
}

// ==================== 层级 ====================

// Hierarchy 品牌 → 系列 → 角色树，节点带在册潮玩商品数
func (s *ToyService) Hierarchy(ctx context.Context) ([]dto.ToyHierarchyNode, error) {
	cached, err := s.cache.GetOrLoad("toys:hierarchy", func() (interface{}, error) {
		brands, err := s.toyRepo.Hierarchy(ctx)
		if err != nil {
			return nil, err
		}

		tree := make([]dto.ToyHierarchyNode, 0, len(brands))
		for _, brand := range brands {
			brandNode := dto.ToyHierarchyNode{
				ID:    brand.ID,
				Name:  brand.Name,
				Image: brand.Logo,
			}
			for _, series := range brand.Series {
				seriesNode := dto.ToyHierarchyNode{
					ID:    series.ID,
					Name:  series.Name,
					Image: series.Image,
				}
				for _, ch := range series.Characters {
					charNode := dto.ToyHierarchyNode{
						ID:        ch.ID,
						Name:      ch.Name,
						Image:     ch.Image,
						ItemCount: len(ch.Items),
					}
					seriesNode.ItemCount += charNode.ItemCount
					seriesNode.Children = append(seriesNode.Children, charNode)
				}
				brandNode.ItemCount += seriesNode.ItemCount
				brandNode.Children = append(brandNode.Children, seriesNode)
			}
			tree = append(tree, brandNode)
		}
		return tree, nil
	}, cache.TagToys)
	if err != nil {
		return nil, err
	}
	return cached.([]dto.ToyHierarchyNode), nil
}
