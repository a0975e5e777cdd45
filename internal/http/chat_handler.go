package httpapi

import (
	"net/http"

	"pulsera-data/internal/ai"
	"pulsera-data/internal/models"
	"pulsera-data/internal/service"

	"go.uber.org/zap"
)

// ChatHandler 对话助手 API
// 只读取患者快照做个性化，从不修改患者状态
type ChatHandler struct {
	assistant ai.ChatAssistant
	svc       *service.DataService
	logger    *zap.Logger
}

func NewChatHandler(assistant ai.ChatAssistant, svc *service.DataService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{assistant: assistant, svc: svc, logger: logger}
}

// chatRequest 对话请求
// includePatientContext=false 时使用通用 system 指令（不带患者数据）
type chatRequest struct {
	History               []models.ChatTurn `json:"history"`
	Message               string            `json:"message"`
	IncludePatientContext bool              `json:"includePatientContext"`
}

// POST /pulsera/api/v1/chat
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, Fail("message is required"))
		return
	}

	var patient *models.Patient
	if req.IncludePatientContext {
		p := h.svc.Patient()
		patient = &p
	}

	reply := h.assistant.Ask(r.Context(), req.History, req.Message, patient)
	writeJSON(w, http.StatusOK, Ok(reply))
}
