// Package repository 提供对静态数据表的只读访问。
package repository

import (
	"maps"

	"krishimitra-go/internal/catalog"
	"krishimitra-go/internal/model"
)

// ChatRepository 定义了预置问答的读取操作。
type ChatRepository interface {
	// Entries 按匹配顺序返回所有问答，每次返回新的副本。
	Entries() []model.ChatEntry
	// Fallback 返回未命中时的兜底回答：en 返回英文，其余语言一律返回 other。
	Fallback(language string) string
	// Suggestions 返回推荐追问，每次返回新切片。
	Suggestions() []string
}

type chatRepository struct {
	chat catalog.Chat
}

// NewChatRepository 创建一个新的 ChatRepository 实例。
func NewChatRepository(c *catalog.Catalog) ChatRepository {
	return &chatRepository{chat: c.Chat}
}

func (r *chatRepository) Entries() []model.ChatEntry {
	out := make([]model.ChatEntry, len(r.chat.Entries))
	for i, e := range r.chat.Entries {
		out[i] = model.ChatEntry{Trigger: e.Trigger, Responses: maps.Clone(e.Responses)}
	}
	return out
}

func (r *chatRepository) Fallback(language string) string {
	if language == catalog.EnglishLanguage {
		return r.chat.Fallback.English
	}
	return r.chat.Fallback.Other
}

func (r *chatRepository) Suggestions() []string {
	out := make([]string, len(r.chat.Suggestions))
	copy(out, r.chat.Suggestions)
	return out
}
