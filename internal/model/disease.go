package model

import "time"

// DiseaseRecord 是预置的病害识别结果，加载后只读。
type DiseaseRecord struct {
	Key         string  `yaml:"key"`
	Name        string  `yaml:"disease"`
	Confidence  float64 `yaml:"confidence"`
	Description string  `yaml:"description"`
	Treatment   string  `yaml:"treatment"`
}

// DetectionResult 是 POST /detect-disease 的响应。
// 每次请求都新建，置信度扰动不会写回 DiseaseRecord。
type DetectionResult struct {
	Disease     string  `json:"disease"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
	Treatment   string  `json:"treatment"`
}

// DetectionEvent 描述一次病害识别，异步发送到 Kafka。
type DetectionEvent struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	FileSize   int64     `json:"file_size"`
	Disease    string    `json:"disease"`
	Confidence float64   `json:"confidence"`
	DetectedAt time.Time `json:"detected_at"`
}
