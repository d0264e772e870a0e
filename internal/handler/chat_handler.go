package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"krishimitra-go/internal/model"
	"krishimitra-go/internal/service"
	"krishimitra-go/pkg/log"
)

const maxChatFrameBytes = 64 << 10

var (
	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // 允许所有来源，与 CORS 策略一致
		},
	}

	errMissingMessage = errors.New("field required: message")
)

// ChatHandler 负责处理问答请求（HTTP 与 WebSocket）。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat 处理 POST /chat。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid request body: "+err.Error())
		return
	}
	message, language, err := unpackChatRequest(req)
	if err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.chatService.Respond(c.Request.Context(), message, language))
}

// Stream 处理 GET /chat/ws：每收到一帧 {message, language} 就回复一帧 ChatResponse。
// 格式错误的帧返回 {"error": ...}，连接保持不断开。
func (h *ChatHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxChatFrameBytes)

	log.Infow("WebSocket 连接已建立", "clientIP", c.ClientIP())

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("从 WebSocket 读取消息失败: %v", err)
			}
			return
		}

		var req model.ChatRequest
		if err := json.Unmarshal(frame, &req); err != nil {
			if werr := conn.WriteJSON(gin.H{"error": "invalid message: " + err.Error()}); werr != nil {
				return
			}
			continue
		}
		message, language, err := unpackChatRequest(req)
		if err != nil {
			if werr := conn.WriteJSON(gin.H{"error": err.Error()}); werr != nil {
				return
			}
			continue
		}

		resp := h.chatService.Respond(c.Request.Context(), message, language)
		if err := conn.WriteJSON(resp); err != nil {
			log.Warnf("写入 WebSocket 响应失败: %v", err)
			return
		}
	}
}

func unpackChatRequest(req model.ChatRequest) (message, language string, err error) {
	if req.Message == nil {
		return "", "", errMissingMessage
	}
	language = service.DefaultLanguage
	if req.Language != nil {
		language = *req.Language
	}
	return *req.Message, language, nil
}
