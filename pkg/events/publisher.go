// Package events 将病害识别事件发送到 Kafka。
// 事件仅用于统计分析，发送失败不影响接口响应。
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"krishimitra-go/internal/config"
	"krishimitra-go/internal/model"
	"krishimitra-go/pkg/log"
)

// Publisher 定义了检测事件的发送接口。
type Publisher interface {
	PublishDetection(ctx context.Context, evt model.DetectionEvent) error
	Close() error
}

// messageWriter 是 *kafka.Writer 的最小子集，便于测试替换。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	topic  string
}

// New 根据配置创建 Publisher。未配置 brokers 时返回不做任何事的实现。
func New(cfg config.KafkaConfig) Publisher {
	if !cfg.Enabled() {
		log.Info("未配置 Kafka，检测事件不会被发送")
		return Nop{}
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Errorw("发送检测事件到 Kafka 失败", "count", len(messages), "error", err)
			}
		},
	}
	log.Infow("Kafka 生产者初始化成功", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return newKafkaPublisher(w, cfg.Topic)
}

func newKafkaPublisher(w messageWriter, topic string) *kafkaPublisher {
	return &kafkaPublisher{writer: w, topic: topic}
}

// PublishDetection 序列化事件并写入 Kafka，以事件 ID 作为消息 key。
func (p *kafkaPublisher) PublishDetection(ctx context.Context, evt model.DetectionEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("events: 序列化检测事件失败: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.ID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("events: 写入 topic %s 失败: %w", p.topic, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop 丢弃所有事件。
type Nop struct{}

func (Nop) PublishDetection(context.Context, model.DetectionEvent) error { return nil }

func (Nop) Close() error { return nil }
