package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"pulsera-data/internal/models"

	"go.uber.org/zap"
)

// ChatAssistant 对话助手客户端接口
// 无状态：完整历史由调用方每次带上；返回值永远可展示（失败时给降级文案，不抛错）
type ChatAssistant interface {
	Ask(ctx context.Context, history []models.ChatTurn, message string, patient *models.Patient) models.ChatReply
}

// chatHistoryWindow 患者上下文最多携带最近 5 条体征记录
const chatHistoryWindow = 5

// FallbackChatReply 请求失败时的降级回复（聊天 UI 必须始终有内容可显示）
func FallbackChatReply() models.ChatReply {
	return models.ChatReply{
		Text:    "Service temporarily unavailable.",
		Sources: []models.Source{},
	}
}

// genericSystemInstruction 没有患者快照时的通用 system 指令
const genericSystemInstruction = "You are 'Pulse', a helpful medical assistant. You are talking directly to the patient. Use Google Search to verify serious symptoms. Be empathetic, professional, and friendly. CRITICAL: Keep your answers extremely short and precise (max 2 sentences). Avoid long explanations. Always advise consulting a doctor for serious issues."

// buildChatSystemInstruction 构建个性化 system 指令
// 嵌入浓缩的患者上下文：年龄、病情、当前风险、最近 5 条体征
func buildChatSystemInstruction(patient *models.Patient) string {
	if patient == nil {
		return genericSystemInstruction
	}

	vitalsJSON, _ := json.Marshal(patient.LastVitals(chatHistoryWindow))
	return fmt.Sprintf(`You are 'Pulse', a personal health assistant for the patient, %s.

PATIENT DATA CONTEXT:
- Age: %d
- Conditions: %s
- Current Risk Level: %s
- Health Trend: %s
- Latest Analysis Summary: "%s"

RECENT VITALS HISTORY (Last %d records):
%s

INSTRUCTIONS:
- You have full access to the patient's data above.
- If the user asks about their health status (BP, sugar, heart rate), explain what changed over time and why it matters.
- DO NOT repeat the raw numbers in your explanation.
- Describe trends (rising, falling, unstable) and what they mean in simple human language.
- Example: "Your blood pressure is trending up, which might be why you feel tired."
- CRITICAL: Keep your answers EXTREMELY SHORT and PRECISE (max 2-3 sentences). Do not write long paragraphs.
- Use Google Search to look up general medical information if needed.
- DISCLAIMER: You are an AI. For chest pain, difficulty breathing, or severe symptoms, ALWAYS tell them to call emergency services or a doctor immediately.`,
		patient.Name, patient.Age, patient.Condition,
		patient.CurrentRisk.Level, patient.CurrentRisk.Trend, patient.CurrentRisk.Summary,
		chatHistoryWindow, vitalsJSON,
	)
}

// Ask 发起一轮对话（启用 Google Search grounding，引用来源可能为空）
func (c *GeminiClient) Ask(ctx context.Context, history []models.ChatTurn, message string, patient *models.Patient) models.ChatReply {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, geminiContent{
			Role:  string(turn.Role),
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: message}},
	})

	request := &generateContentRequest{
		Contents: contents,
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: buildChatSystemInstruction(patient)}},
		},
		Tools: []geminiTool{{GoogleSearch: &struct{}{}}},
	}

	response, err := c.generateContent(ctx, request)
	if err != nil {
		c.logger.Error("Chat call failed", zap.Error(err))
		return FallbackChatReply()
	}

	text := response.text()
	if text == "" {
		text = "I couldn't process that."
	}

	reply := models.ChatReply{Text: text, Sources: []models.Source{}}
	if len(response.Candidates) > 0 && response.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range response.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				reply.Sources = append(reply.Sources, models.Source{
					URI:   chunk.Web.URI,
					Title: chunk.Web.Title,
				})
			}
		}
	}

	c.logger.Debug("Chat completed",
		zap.Int("history_turns", len(history)),
		zap.Int("source_count", len(reply.Sources)),
		zap.Bool("personalized", patient != nil),
	)
	return reply
}
