// Package model 定义了接口层使用的请求与响应结构体。
package model

// ChatRequest 是 POST /chat 以及 websocket 聊天帧的请求体。
// 使用指针以区分字段缺失与空字符串。
type ChatRequest struct {
	Message  *string `json:"message"`
	Language *string `json:"language"`
}

// ChatResponse 是聊天接口的响应。
type ChatResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

// ChatEntry 是一条预置问答：触发短语以及按语言代码索引的回答。
type ChatEntry struct {
	Trigger   string            `yaml:"trigger"`
	Responses map[string]string `yaml:"responses"`
}
