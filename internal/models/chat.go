package models

// ChatRole 对话角色（与 Gemini API 的 role 取值一致）
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatTurn 一轮历史对话
// 客户端无状态：每次请求由调用方带上完整历史
type ChatTurn struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// Source 知识检索引用（grounding 来源，可能为空）
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// ChatReply 助手回复
type ChatReply struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}
