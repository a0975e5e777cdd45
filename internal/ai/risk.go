package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"pulsera-data/internal/models"

	"go.uber.org/zap"
)

// RiskAnalyzer 风险评估客户端接口（DataService 依赖注入用）
type RiskAnalyzer interface {
	AnalyzePatientRisk(ctx context.Context, patient models.Patient, newRecord models.VitalRecord) (models.RiskAnalysis, error)
}

// riskHistoryWindow 提示词最多携带最近 3 条历史记录（控制 prompt 大小的固定策略）
const riskHistoryWindow = 3

// FallbackRiskAnalysis 分析失败时的保守回退值
// 刻意选择 WORSENING：评估不可用时绝不静默报告"正常"
func FallbackRiskAnalysis() models.RiskAnalysis {
	return models.RiskAnalysis{
		Level:          models.RiskWorsening,
		Summary:        "AI service unavailable. Please consult a doctor.",
		ActionItems:    []string{"Check inputs"},
		AlertTriggered: false,
		Trend:          models.TrendStable,
	}
}

// riskResponseSchema RiskAnalysis 的严格输出 schema
func riskResponseSchema() *geminiSchema {
	return &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]geminiSchema{
			"level":          {Type: "STRING", Enum: []string{"NORMAL", "WORSENING", "CRITICAL"}},
			"summary":        {Type: "STRING"},
			"trend":          {Type: "STRING", Enum: []string{"IMPROVING", "STABLE", "WORSENING"}},
			"actionItems":    {Type: "ARRAY", Items: &geminiSchema{Type: "STRING"}},
			"alertTriggered": {Type: "BOOLEAN"},
		},
		Required: []string{"level", "summary", "trend", "actionItems", "alertTriggered"},
	}
}

// buildRiskPrompt 构建评估提示词
// patient 是追加新记录之前的快照：历史最多取最近 3 条，新记录单独列出
func buildRiskPrompt(patient models.Patient, newRecord models.VitalRecord) string {
	historyJSON, _ := json.Marshal(patient.LastVitals(riskHistoryWindow))
	recordJSON, _ := json.Marshal(newRecord)

	return fmt.Sprintf(`You are an AI medical risk assessment engine for "Pulsera".
Analyze the following data for the user. Merge the new record with history.

User/Patient: %s, %dy, %s.

Recent Vitals History (Last %d):
%s

NEW INCOMING DATA:
%s

TASK:
Determine risk level (NORMAL, WORSENING, CRITICAL).
Identify the trend (IMPROVING, STABLE, WORSENING).

SUMMARY RULES:
1. Explain what changed over time and why it matters.
2. Do NOT repeat the raw numbers in the summary.
3. Describe trends (e.g., "rising", "falling", "fluctuating").
4. Explain what those trends mean in simple human language.
5. Example: "Your blood pressure has been slowly increasing this week, which puts more strain on your heart."

Provide a list of 2-3 action items.

Output JSON only.`,
		patient.Name, patient.Age, patient.Condition,
		riskHistoryWindow, historyJSON, recordJSON,
	)
}

// AnalyzePatientRisk 调用结构化生成端点做风险评估
// 返回 error 时调用方必须使用 FallbackRiskAnalysis()（fail closed）
func (c *GeminiClient) AnalyzePatientRisk(ctx context.Context, patient models.Patient, newRecord models.VitalRecord) (models.RiskAnalysis, error) {
	request := &generateContentRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: buildRiskPrompt(patient, newRecord)}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   riskResponseSchema(),
		},
	}

	response, err := c.generateContent(ctx, request)
	if err != nil {
		c.logger.Error("Risk analysis call failed",
			zap.String("patient_id", patient.ID),
			zap.String("record_id", newRecord.ID),
			zap.Error(err),
		)
		return models.RiskAnalysis{}, err
	}

	text := response.text()
	if text == "" {
		return models.RiskAnalysis{}, fmt.Errorf("empty response from risk analysis")
	}

	var analysis models.RiskAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return models.RiskAnalysis{}, fmt.Errorf("failed to unmarshal risk analysis: %w", err)
	}
	if !analysis.Validate() {
		return models.RiskAnalysis{}, fmt.Errorf("risk analysis payload does not match schema")
	}

	c.logger.Info("Risk analysis completed",
		zap.String("patient_id", patient.ID),
		zap.String("level", string(analysis.Level)),
		zap.String("trend", string(analysis.Trend)),
		zap.Bool("alert", analysis.AlertTriggered),
	)
	return analysis, nil
}
