// Package catalog 加载编译进二进制的静态数据表（问答、病害、价格）。
// 所有数据在启动时解析并校验一次，之后只读。
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"krishimitra-go/internal/model"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	chatFile    = "data/chat.yaml"
	diseaseFile = "data/diseases.yaml"
	priceFile   = "data/prices.yaml"

	// DefaultDiseaseKey 是文件名不含任何关键字时使用的病害记录。
	DefaultDiseaseKey = "default"
	// EnglishLanguage 是问答缺少目标语言时的回退语言。
	EnglishLanguage = "en"
)

// Chat 是问答数据。
type Chat struct {
	Entries  []model.ChatEntry `yaml:"entries"`
	Fallback struct {
		English string `yaml:"english"`
		Other   string `yaml:"other"`
	} `yaml:"fallback"`
	Suggestions []string `yaml:"suggestions"`
}

// Diseases 是病害数据及关键字匹配顺序。
type Diseases struct {
	Records    []model.DiseaseRecord `yaml:"records"`
	MatchOrder []string              `yaml:"match_order"`
}

type prices struct {
	Rows []model.PriceRow `yaml:"rows"`
}

// Catalog 汇总所有静态数据表。
type Catalog struct {
	Chat     Chat
	Diseases Diseases
	Prices   []model.PriceRow
}

// Load 从内嵌文件加载数据。
func Load() (*Catalog, error) {
	return LoadFS(embedded)
}

// LoadFS 从给定文件系统加载数据，文件路径与内嵌目录一致。
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var c Catalog
	if err := decode(fsys, chatFile, &c.Chat); err != nil {
		return nil, err
	}
	if err := decode(fsys, diseaseFile, &c.Diseases); err != nil {
		return nil, err
	}
	var p prices
	if err := decode(fsys, priceFile, &p); err != nil {
		return nil, err
	}
	c.Prices = p.Rows

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func decode(fsys fs.FS, name string, out interface{}) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("catalog: 读取 %s 失败: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("catalog: 解析 %s 失败: %w", name, err)
	}
	return nil
}

func (c *Catalog) validate() error {
	var errs []error

	if len(c.Chat.Entries) == 0 {
		errs = append(errs, errors.New("chat: entries 为空"))
	}
	for i, e := range c.Chat.Entries {
		if strings.TrimSpace(e.Trigger) == "" {
			errs = append(errs, fmt.Errorf("chat: 第 %d 条缺少 trigger", i+1))
		}
		if e.Responses[EnglishLanguage] == "" {
			errs = append(errs, fmt.Errorf("chat: %q 缺少 en 回答", e.Trigger))
		}
	}
	if c.Chat.Fallback.English == "" || c.Chat.Fallback.Other == "" {
		errs = append(errs, errors.New("chat: fallback 不完整"))
	}

	keys := make(map[string]bool, len(c.Diseases.Records))
	for _, r := range c.Diseases.Records {
		if keys[r.Key] {
			errs = append(errs, fmt.Errorf("diseases: key %q 重复", r.Key))
		}
		keys[r.Key] = true
		if r.Confidence < 0 || r.Confidence > 100 {
			errs = append(errs, fmt.Errorf("diseases: %q 置信度 %.1f 超出 [0, 100]", r.Key, r.Confidence))
		}
	}
	if !keys[DefaultDiseaseKey] {
		errs = append(errs, fmt.Errorf("diseases: 缺少 %q 记录", DefaultDiseaseKey))
	}
	for _, k := range c.Diseases.MatchOrder {
		if !keys[k] {
			errs = append(errs, fmt.Errorf("diseases: match_order 中的 %q 没有对应记录", k))
		}
	}

	// id 必须从 1 开始连续且唯一
	for i, row := range c.Prices {
		if row.ID != i+1 {
			errs = append(errs, fmt.Errorf("prices: 第 %d 行 id 为 %d, 期望 %d", i+1, row.ID, i+1))
		}
		switch row.Trend {
		case model.TrendUp, model.TrendDown, model.TrendStable:
		default:
			errs = append(errs, fmt.Errorf("prices: id %d 的 trend %q 无效", row.ID, row.Trend))
		}
	}

	return errors.Join(errs...)
}
