package repository

import (
	"strings"

	"krishimitra-go/internal/catalog"
	"krishimitra-go/internal/model"
)

// DiseaseRepository 根据文件名选择预置病害记录。
type DiseaseRepository interface {
	// MatchFileName 按 match_order 依次检查关键字是否出现在文件名中（大小写不敏感），
	// 都不命中时返回 default 记录。返回值是副本。
	MatchFileName(fileName string) model.DiseaseRecord
}

type diseaseRepository struct {
	byKey      map[string]model.DiseaseRecord
	matchOrder []string
}

// NewDiseaseRepository 创建一个新的 DiseaseRepository 实例。
func NewDiseaseRepository(c *catalog.Catalog) DiseaseRepository {
	byKey := make(map[string]model.DiseaseRecord, len(c.Diseases.Records))
	for _, r := range c.Diseases.Records {
		byKey[r.Key] = r
	}
	return &diseaseRepository{byKey: byKey, matchOrder: c.Diseases.MatchOrder}
}

func (r *diseaseRepository) MatchFileName(fileName string) model.DiseaseRecord {
	name := strings.ToLower(fileName)
	for _, key := range r.matchOrder {
		if strings.Contains(name, key) {
			return r.byKey[key]
		}
	}
	return r.byKey[catalog.DefaultDiseaseKey]
}
