package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"resale_erp_202601/internal/api/dto"
	"resale_erp_202601/internal/model"
)

// ==================== 货号聚合 ====================

// GroupedQuery 聚合列表的查询参数
type GroupedQuery struct {
	Search   string
	ItemType string
	Status   string
	Page     int
	PageSize int
}

// 没填货号的商品统一归到一个占位分组
const unknownItemNumber = "未知货号"

// Grouped 按货号聚合同款商品：每组给出在库/已售数量、购入/售出总额、
// 利润合计和按尺码的明细，分组按最近购入时间倒序
func (s *ItemService) Grouped(ctx context.Context, q GroupedQuery) ([]dto.GroupedItem, int64, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("查询商品失败: %v", err)
	}

	groups := make(map[string][]model.Item)
	order := make([]string, 0)
	for _, item := range items {
		if !matchesGroupedQuery(&item, q) {
			continue
		}
		key := item.ItemNumber
		if key == "" {
			key = unknownItemNumber
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	grouped := make([]dto.GroupedItem, 0, len(order))
	for _, key := range order {
		grouped = append(grouped, buildGroup(key, groups[key]))
	}
	sort.Slice(grouped, func(i, j int) bool {
		return grouped[i].LatestPurchaseDate > grouped[j].LatestPurchaseDate
	})

	total := int64(len(grouped))
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 24
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(grouped) {
		return []dto.GroupedItem{}, total, nil
	}
	end := start + q.PageSize
	if end > len(grouped) {
		end = len(grouped)
	}
	return grouped[start:end], total, nil
}

func matchesGroupedQuery(item *model.Item, q GroupedQuery) bool {
	if q.ItemType != "" && item.ItemType != q.ItemType {
		return false
	}
	if q.Status != "" {
		if len(item.Transactions) == 0 || item.Transactions[0].OrderStatus != q.Status {
			return false
		}
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(item.ItemName), needle) &&
			!strings.Contains(strings.ToLower(item.ItemNumber), needle) &&
			!strings.Contains(strings.ToLower(item.ItemBrand), needle) {
			return false
		}
	}
	return true
}

func buildGroup(itemNumber string, items []model.Item) dto.GroupedItem {
	group := dto.GroupedItem{
		ItemNumber: itemNumber,
		ItemName:   items[0].ItemName,
		ItemBrand:  items[0].ItemBrand,
		ItemType:   items[0].ItemType,
		TotalItems: len(items),
	}

	sizeIndex := make(map[string]int)
	for _, item := range items {
		var txn *model.Transaction
		if len(item.Transactions) > 0 {
			txn = &item.Transactions[0]
		}

		sold := txn != nil && txn.SoldDate != nil
		if sold {
			group.SoldCount++
		} else {
			group.InStockCount++
		}

		if txn != nil {
			group.TotalPurchaseValue += ConvertToCNY(
				txn.PurchasePrice, txn.PurchasePriceCurrency, txn.PurchasePriceExchangeRate)
			if sold && txn.SoldPrice != nil {
				group.TotalSoldValue += ConvertToCNY(
					*txn.SoldPrice, strVal(txn.SoldPriceCurrency), strVal(txn.SoldPriceExchangeRate))
			}
			if txn.ItemNetProfit != nil {
				group.TotalProfit += ConvertToCNY(*txn.ItemNetProfit, "CNY", "1")
			}

			date := txn.PurchaseDate.Format("2006-01-02")
			if group.LatestPurchaseDate == "" || date > group.LatestPurchaseDate {
				group.LatestPurchaseDate = date
			}
			if group.OldestPurchaseDate == "" || date < group.OldestPurchaseDate {
				group.OldestPurchaseDate = date
			}
		}

		idx, ok := sizeIndex[item.ItemSize]
		if !ok {
			idx = len(group.Sizes)
			sizeIndex[item.ItemSize] = idx
			group.Sizes = append(group.Sizes, dto.GroupedSize{Size: item.ItemSize})
		}
		group.Sizes[idx].Count++
		if sold {
			group.Sizes[idx].Sold++
		} else {
			group.Sizes[idx].InStock++
		}

		if len(group.Photos) == 0 && len(item.Photos) > 0 {
			group.Photos = item.Photos
		}
	}

	group.TotalPurchaseValue = round2(group.TotalPurchaseValue)
	group.TotalSoldValue = round2(group.TotalSoldValue)
	group.TotalProfit = round2(group.TotalProfit)
	if group.TotalPurchaseValue > 0 {
		group.AverageProfitRate = round1(group.TotalProfit / group.TotalPurchaseValue * 100)
	}
	return group
}

// ==================== 输入联想 ====================

// Autocomplete 商品名/货号联想，少于 2 个字符不触发，最多返回 10 条
// kind 为 "name" 按名称和品牌匹配，"number" 按货号匹配
func (s *ItemService) Autocomplete(ctx context.Context, query, kind string) ([]dto.AutocompleteSuggestion, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if len([]rune(query)) < 2 {
		return []dto.AutocompleteSuggestion{}, nil
	}

	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询商品失败: %v", err)
	}

	// 同名同货号的商品合并为一个候选，带数量
	seen := make(map[string]int)
	candidates := make([]dto.AutocompleteSuggestion, 0)
	for _, item := range items {
		key := item.ItemName + "\x00" + item.ItemNumber
		if idx, ok := seen[key]; ok {
			candidates[idx].Count++
			continue
		}
		seen[key] = len(candidates)
		candidates = append(candidates, dto.AutocompleteSuggestion{
			ItemName:   item.ItemName,
			ItemNumber: item.ItemNumber,
			ItemBrand:  item.ItemBrand,
			ItemType:   item.ItemType,
			Count:      1,
		})
	}

	suggestions := make([]dto.AutocompleteSuggestion, 0, 10)
	for _, c := range candidates {
		switch kind {
		case "number":
			if c.ItemNumber == "" || !strings.Contains(strings.ToLower(c.ItemNumber), query) {
				continue
			}
			c.Type = "number"
			c.DisplayText = c.ItemNumber
			c.SecondaryText = c.ItemName
		default:
			if !strings.Contains(strings.ToLower(c.ItemName), query) &&
				!strings.Contains(strings.ToLower(c.ItemBrand), query) {
				continue
			}
			c.Type = "name"
			c.DisplayText = c.ItemName
			if c.ItemBrand != "" {
				c.DisplayText = fmt.Sprintf("%s (%s)", c.ItemName, c.ItemBrand)
			}
			c.SecondaryText = "无货号"
			if c.ItemNumber != "" {
				c.SecondaryText = "货号: " + c.ItemNumber
			}
		}
		suggestions = append(suggestions, c)
	}

	// 命中多的候选排前面，同数量按名称稳定排序
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Count != suggestions[j].Count {
			return suggestions[i].Count > suggestions[j].Count
		}
		return suggestions[i].ItemName < suggestions[j].ItemName
	})
	if len(suggestions) > 10 {
		suggestions = suggestions[:10]
	}
	return suggestions, nil
}
