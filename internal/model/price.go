package model

// 价格趋势取值。
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// PriceRow 是市场价格表中的一行。
type PriceRow struct {
	ID          int     `json:"id" yaml:"id"`
	Crop        string  `json:"crop" yaml:"crop"`
	Variety     string  `json:"variety" yaml:"variety"`
	Price       float64 `json:"price" yaml:"price"`
	Unit        string  `json:"unit" yaml:"unit"`
	Market      string  `json:"market" yaml:"market"`
	State       string  `json:"state" yaml:"state"`
	Trend       string  `json:"trend" yaml:"trend"`
	Change      float64 `json:"change" yaml:"change"`
	LastUpdated string  `json:"lastUpdated" yaml:"lastUpdated"`
}

// PriceFilter 是 GET /prices 的查询条件，空字符串表示不过滤。
type PriceFilter struct {
	Crop   string `form:"crop"`
	State  string `form:"state"`
	Market string `form:"market"`
	Trend  string `form:"trend"`
}

// PriceFacets 列出价格表中各筛选字段的可选值。
type PriceFacets struct {
	Crops   []string `json:"crops"`
	States  []string `json:"states"`
	Markets []string `json:"markets"`
	Trends  []string `json:"trends"`
}
