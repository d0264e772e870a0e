// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"strings"

	"krishimitra-go/internal/catalog"
	"krishimitra-go/internal/model"
	"krishimitra-go/internal/repository"
	"krishimitra-go/pkg/log"
)

// DefaultLanguage 是请求未指定 language 时使用的语言。
const DefaultLanguage = catalog.EnglishLanguage

// ChatService 定义了问答操作的接口。
type ChatService interface {
	// Respond 根据消息中出现的触发短语返回预置回答。
	Respond(ctx context.Context, message, language string) model.ChatResponse
}

type chatTrigger struct {
	lowered string
	entry   model.ChatEntry
}

type chatService struct {
	chatRepo repository.ChatRepository
	triggers []chatTrigger
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(chatRepo repository.ChatRepository) ChatService {
	entries := chatRepo.Entries()
	triggers := make([]chatTrigger, 0, len(entries))
	for _, e := range entries {
		triggers = append(triggers, chatTrigger{lowered: strings.ToLower(e.Trigger), entry: e})
	}
	return &chatService{chatRepo: chatRepo, triggers: triggers}
}

func (s *chatService) Respond(ctx context.Context, message, language string) model.ChatResponse {
	lowered := strings.ToLower(message)

	var response string
	for _, t := range s.triggers {
		if !strings.Contains(lowered, t.lowered) {
			continue
		}
		if r, ok := t.entry.Responses[language]; ok {
			response = r
		} else {
			response = t.entry.Responses[catalog.EnglishLanguage]
		}
		log.Debugw("命中预置问答", "trigger", t.entry.Trigger, "language", language)
		break
	}

	if response == "" {
		response = s.chatRepo.Fallback(language)
	}

	return model.ChatResponse{
		Response:    response,
		Suggestions: s.chatRepo.Suggestions(),
	}
}
