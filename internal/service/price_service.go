package service

import (
	"context"
	"slices"
	"strings"

	"krishimitra-go/internal/model"
	"krishimitra-go/internal/repository"
)

// PriceService 定义了价格查询的接口。
type PriceService interface {
	// List 返回满足所有非空过滤条件的价格行（大小写不敏感的相等比较）。
	// 结果永远不为 nil。
	List(ctx context.Context, filter model.PriceFilter) []model.PriceRow
	// Facets 返回各筛选字段去重排序后的可选值。
	Facets(ctx context.Context) model.PriceFacets
}

type priceService struct {
	priceRepo repository.PriceRepository
}

// NewPriceService 创建一个新的 PriceService 实例。
func NewPriceService(priceRepo repository.PriceRepository) PriceService {
	return &priceService{priceRepo: priceRepo}
}

func (s *priceService) List(_ context.Context, filter model.PriceFilter) []model.PriceRow {
	rows := s.priceRepo.All()
	out := make([]model.PriceRow, 0, len(rows))
	for _, row := range rows {
		if matchField(filter.Crop, row.Crop) &&
			matchField(filter.State, row.State) &&
			matchField(filter.Market, row.Market) &&
			matchField(filter.Trend, row.Trend) {
			out = append(out, row)
		}
	}
	return out
}

// matchField 过滤值为空时视为不过滤。
func matchField(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

func (s *priceService) Facets(_ context.Context) model.PriceFacets {
	rows := s.priceRepo.All()
	var crops, states, markets, trends []string
	for _, row := range rows {
		crops = append(crops, row.Crop)
		states = append(states, row.State)
		markets = append(markets, row.Market)
		trends = append(trends, row.Trend)
	}
	return model.PriceFacets{
		Crops:   distinctSorted(crops),
		States:  distinctSorted(states),
		Markets: distinctSorted(markets),
		Trends:  distinctSorted(trends),
	}
}

func distinctSorted(values []string) []string {
	out := slices.Clone(values)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
