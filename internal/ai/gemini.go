package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pulsera-data/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// geminiContent Gemini API 的一段对话内容
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiSchema 结构化输出 schema（约束 AI 只能返回约定形状的 JSON）
type geminiSchema struct {
	Type       string                  `json:"type"`
	Enum       []string                `json:"enum,omitempty"`
	Items      *geminiSchema           `json:"items,omitempty"`
	Properties map[string]geminiSchema `json:"properties,omitempty"`
	Required   []string                `json:"required,omitempty"`
}

// geminiGenerationConfig 生成配置
type geminiGenerationConfig struct {
	ResponseMIMEType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

// geminiTool 外部工具声明（googleSearch 用于 grounding）
type geminiTool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

// generateContentRequest generateContent 请求体
type generateContentRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
	Tools             []geminiTool            `json:"tools,omitempty"`
}

// generateContentResponse generateContent 响应体
type generateContentResponse struct {
	Candidates []struct {
		Content           geminiContent      `json:"content"`
		GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

type groundingMetadata struct {
	GroundingChunks []struct {
		Web *struct {
			URI   string `json:"uri"`
			Title string `json:"title"`
		} `json:"web,omitempty"`
	} `json:"groundingChunks,omitempty"`
}

// text 取第一个候选的文本
func (r *generateContentResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	for _, part := range r.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text
		}
	}
	return ""
}

// GeminiClient Gemini 生成式 API 客户端
// 无状态：每次调用只携带一次性的患者快照，不保留任何患者数据
type GeminiClient struct {
	httpClient *resty.Client
	model      string
	logger     *zap.Logger
}

// NewGeminiClient 创建 Gemini 客户端
// 显式超时：挂死的远端调用不能无限挂起 UI 操作
func NewGeminiClient(cfg *config.GeminiConfig, logger *zap.Logger) *GeminiClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)

	return &GeminiClient{
		httpClient: client,
		model:      cfg.Model,
		logger:     logger,
	}
}

// generateContent 调用 models/{model}:generateContent
func (c *GeminiClient) generateContent(ctx context.Context, request *generateContentRequest) (*generateContentResponse, error) {
	var response generateContentResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))

	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini API: %w", err)
	}
	if resp.IsError() {
		// 错误响应可能没有被 SetResult 解析，重新解一次
		_ = json.Unmarshal(resp.Body(), &response)
		if response.Error != nil {
			return nil, fmt.Errorf("Gemini API error: %s (status: %d)", response.Error.Message, response.Error.Code)
		}
		return nil, fmt.Errorf("Gemini API returned HTTP %d", resp.StatusCode())
	}
	return &response, nil
}
