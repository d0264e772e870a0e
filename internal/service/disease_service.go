package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"krishimitra-go/internal/model"
	"krishimitra-go/internal/repository"
	"krishimitra-go/pkg/events"
	"krishimitra-go/pkg/log"
)

const (
	confidenceJitter = 2.0
	maxConfidence    = 99.9
)

// ErrInvalidImageFormat 表示上传文件的扩展名不是 jpg/jpeg/png。
var ErrInvalidImageFormat = errors.New("invalid image format: only jpg, jpeg and png are accepted")

var allowedImageExtensions = []string{".jpg", ".jpeg", ".png"}

// ImageUpload 描述一次上传，图片内容本身不会被读取。
type ImageUpload struct {
	FileName string
	Size     int64
}

// DiseaseService 定义了病害识别（模拟）的接口。
type DiseaseService interface {
	Detect(ctx context.Context, upload ImageUpload) (model.DetectionResult, error)
}

type diseaseService struct {
	diseaseRepo repository.DiseaseRepository
	publisher   events.Publisher
	rnd         Rand
	now         func() time.Time
}

// NewDiseaseService 创建一个新的 DiseaseService 实例。rnd 为 nil 时使用 DefaultRand。
func NewDiseaseService(diseaseRepo repository.DiseaseRepository, publisher events.Publisher, rnd Rand) DiseaseService {
	if rnd == nil {
		rnd = DefaultRand()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &diseaseService{
		diseaseRepo: diseaseRepo,
		publisher:   publisher,
		rnd:         rnd,
		now:         time.Now,
	}
}

// Detect 校验扩展名，按文件名关键字选出预置记录，并对置信度做 ±2 的随机扰动。
func (s *diseaseService) Detect(ctx context.Context, upload ImageUpload) (model.DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return model.DetectionResult{}, fmt.Errorf("detect %q: %w", upload.FileName, err)
	}

	if !hasImageExtension(upload.FileName) {
		return model.DetectionResult{}, ErrInvalidImageFormat
	}

	record := s.diseaseRepo.MatchFileName(upload.FileName)
	result := model.DetectionResult{
		Disease:     record.Name,
		Confidence:  s.perturb(record.Confidence),
		Description: record.Description,
		Treatment:   record.Treatment,
	}

	evt := model.DetectionEvent{
		ID:         uuid.NewString(),
		FileName:   upload.FileName,
		FileSize:   upload.Size,
		Disease:    result.Disease,
		Confidence: result.Confidence,
		DetectedAt: s.now(),
	}
	if err := s.publisher.PublishDetection(ctx, evt); err != nil {
		log.Warnw("检测事件发送失败", "file", upload.FileName, "error", err)
	}

	log.Infow("病害识别完成", "file", upload.FileName, "disease", result.Disease, "confidence", result.Confidence)
	return result, nil
}

func (s *diseaseService) perturb(confidence float64) float64 {
	c := round1(confidence + uniform(s.rnd, -confidenceJitter, confidenceJitter))
	switch {
	case c > maxConfidence:
		return maxConfidence
	case c < 0:
		return 0
	}
	return c
}

func hasImageExtension(fileName string) bool {
	name := strings.ToLower(fileName)
	for _, ext := range allowedImageExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
