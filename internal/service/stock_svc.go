package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/model"
	"resale_erp_202601/internal/repository"
	"resale_erp_202601/pkg/cache"
)

// ErrNegativeStock 调整后的库存不允许为负
var ErrNegativeStock = errors.New("库存不能为负数")

// StockService 手动库存调整，每次调整落一条审计记录
// 当前库存取最近一条调整的 NewStock，没有调整记录时默认 1（单件商品）
type StockService struct {
	itemRepo  repository.ItemRepository
	stockRepo repository.StockAdjustmentRepository
	cache     *cache.TagCache
}

// NewStockService 创建库存调整服务
func NewStockService(
	itemRepo repository.ItemRepository,
	stockRepo repository.StockAdjustmentRepository,
	tagCache *cache.TagCache,
) *StockService {
	return &StockService{itemRepo: itemRepo, stockRepo: stockRepo, cache: tagCache}
}

// CurrentStock 当前库存
func (s *StockService) CurrentStock(ctx context.Context, itemID string) (int, error) {
	adjs, err := s.stockRepo.ListByItemID(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if len(adjs) == 0 {
		return 1, nil
	}
	return adjs[0].NewStock, nil
}

// Adjust 执行一次调整
func (s *StockService) Adjust(ctx context.Context, req *dto.StockAdjustRequest) (*model.StockAdjustment, error) {
	if req.Quantity < 0 {
		return nil, errors.New("调整数量不能为负")
	}

	if _, err := s.itemRepo.GetByItemID(ctx, req.ItemID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	previous, err := s.CurrentStock(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	var newStock int
	switch req.AdjustmentType {
	case model.AdjustmentSet:
		newStock = req.Quantity
	case model.AdjustmentAdd:
		newStock = previous + req.Quantity
	case model.AdjustmentSubtract:
		newStock = previous - req.Quantity
	default:
		return nil, fmt.Errorf("无效的调整类型: %q", req.AdjustmentType)
	}
	if newStock < 0 {
		return nil, ErrNegativeStock
	}

	adj := &model.StockAdjustment{
		ItemID:         req.ItemID,
		AdjustmentType: req.AdjustmentType,
		Quantity:       req.Quantity,
		PreviousStock:  previous,
		NewStock:       newStock,
		Reason:         req.Reason,
		Remarks:        req.Remarks,
	}
	if err := s.stockRepo.Create(ctx, adj); err != nil {
		return nil, fmt.Errorf("记录库存调整失败: %v", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(cache.TagItems, cache.TagStats)
	}
	return adj, nil
}

// History 某商品的调整历史，新的在前
func (s *StockService) History(ctx context.Context, itemID string) ([]model.StockAdjustment, error) {
	return s.stockRepo.ListByItemID(ctx, itemID)
}
