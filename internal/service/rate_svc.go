package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultJPYToCNY 汇率接口不可用时的兜底值
const DefaultJPYToCNY = 0.05

// RateService 日元兑人民币实时汇率，带内存快照和兜底
type RateService struct {
	client  *resty.Client
	baseURL string

	mu        sync.RWMutex
	rate      float64
	fetchedAt time.Time
}

// NewRateService 创建汇率服务
func NewRateService(baseURL string) *RateService {
	if baseURL == "" {
		baseURL = "https://open.er-api.com/v6/latest/JPY"
	}
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second)

	return &RateService{
		client:  client,
		baseURL: baseURL,
		rate:    DefaultJPYToCNY,
	}
}

type rateResp struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Refresh 拉取最新汇率并更新快照
func (s *RateService) Refresh(ctx context.Context) error {
	var res rateResp
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&res).
		Get(s.baseURL)
	if err != nil {
		return fmt.Errorf("汇率请求失败: %v", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("汇率接口异常 [%d]: %s", resp.StatusCode(), resp.String())
	}

	cny, ok := res.Rates["CNY"]
	if !ok || cny <= 0 {
		return fmt.Errorf("汇率响应缺少 CNY: %s", resp.String())
	}

	s.mu.Lock()
	s.rate = cny
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	log.Printf("[Rate] JPY/CNY 汇率更新: %.5f", cny)
	return nil
}

// JPYToCNY 当前快照，拉取失败过就是兜底值
func (s *RateService) JPYToCNY() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate
}

// FetchedAt 最近一次成功拉取时间，零值表示从未成功
func (s *RateService) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
