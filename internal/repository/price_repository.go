package repository

import (
	"krishimitra-go/internal/catalog"
	"krishimitra-go/internal/model"
)

// PriceRepository 提供价格表的只读访问。
type PriceRepository interface {
	// All 按 id 顺序返回所有价格行的副本。
	All() []model.PriceRow
}

type priceRepository struct {
	rows []model.PriceRow
}

// NewPriceRepository 创建一个新的 PriceRepository 实例。
func NewPriceRepository(c *catalog.Catalog) PriceRepository {
	return &priceRepository{rows: c.Prices}
}

func (r *priceRepository) All() []model.PriceRow {
	out := make([]model.PriceRow, len(r.rows))
	copy(out, r.rows)
	return out
}
