package models

import "time"

// RiskLevel 风险等级（与 pulseraFront types.ts 对齐）
type RiskLevel string

const (
	RiskNormal    RiskLevel = "NORMAL"
	RiskWorsening RiskLevel = "WORSENING"
	RiskCritical  RiskLevel = "CRITICAL"
)

// RiskTrend 健康趋势
type RiskTrend string

const (
	TrendImproving RiskTrend = "IMPROVING"
	TrendStable    RiskTrend = "STABLE"
	TrendWorsening RiskTrend = "WORSENING"
)

// VitalSource 体征记录来源
type VitalSource string

const (
	SourceManual         VitalSource = "MANUAL"
	SourceHospitalUpload VitalSource = "HOSPITAL_UPLOAD"
	SourceWearable       VitalSource = "WEARABLE"
)

// LabFlag 化验结果标记
type LabFlag string

const (
	LabNormal LabFlag = "NORMAL"
	LabHigh   LabFlag = "HIGH"
	LabLow    LabFlag = "LOW"
)

// VitalRecord 一次体征测量快照（创建后不可变）
// id 和 timestamp 由服务端分配，调用方只提供测量值
// 数值字段用指针表示可选（上传/设备来源可能只带部分字段）
type VitalRecord struct {
	ID               string      `json:"id"`
	Timestamp        time.Time   `json:"timestamp"`
	Source           VitalSource `json:"source"`
	Systolic         *int        `json:"systolic,omitempty"`
	Diastolic        *int        `json:"diastolic,omitempty"`
	HeartRate        *int        `json:"heartRate,omitempty"`
	Temperature      *float64    `json:"temperature,omitempty"`
	OxygenSaturation *int        `json:"oxygenSaturation,omitempty"`
	Glucose          *int        `json:"glucose,omitempty"`
	Notes            string      `json:"notes,omitempty"`
}

// HasMeasurement 是否至少带一个测量值
func (v *VitalRecord) HasMeasurement() bool {
	return v.Systolic != nil || v.Diastolic != nil || v.HeartRate != nil ||
		v.Temperature != nil || v.OxygenSaturation != nil || v.Glucose != nil
}

// LabResult 化验结果（外部来源，核心不修改）
// value 用字符串，兼容非数值的化验编码
type LabResult struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	TestName  string      `json:"testName"`
	Value     string      `json:"value"`
	Unit      string      `json:"unit"`
	Range     string      `json:"range"`
	Flag      LabFlag     `json:"flag"`
	Source    VitalSource `json:"source"`
}

// RiskAnalysis 派生的风险评估（整体替换，不做局部更新）
type RiskAnalysis struct {
	Level          RiskLevel `json:"level"`
	Summary        string    `json:"summary"`
	ActionItems    []string  `json:"actionItems"`
	AlertTriggered bool      `json:"alertTriggered"`
	Trend          RiskTrend `json:"trend"`
}

// Validate 校验 AI 返回的评估是否符合约定 schema
// 解析失败或枚举非法时调用方必须回退到保守的 fallback
func (r *RiskAnalysis) Validate() bool {
	switch r.Level {
	case RiskNormal, RiskWorsening, RiskCritical:
	default:
		return false
	}
	switch r.Trend {
	case TrendImproving, TrendStable, TrendWorsening:
	default:
		return false
	}
	if r.Summary == "" {
		return false
	}
	return r.ActionItems != nil
}

// Patient 患者聚合（每个会话单例）
// vitalsHistory 按写入顺序追加（不保证按 timestamp 排序）
// currentRisk 始终对应最近一条追加的体征记录
type Patient struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Age           int           `json:"age"`
	Condition     string        `json:"condition"`
	VitalsHistory []VitalRecord `json:"vitalsHistory"`
	LabHistory    []LabResult   `json:"labHistory"`
	CurrentRisk   RiskAnalysis  `json:"currentRisk"`
}

// Clone 深拷贝（快照语义：AI 客户端和 HTTP 层拿到的是副本）
func (p *Patient) Clone() Patient {
	cp := *p
	cp.VitalsHistory = append([]VitalRecord(nil), p.VitalsHistory...)
	cp.LabHistory = append([]LabResult(nil), p.LabHistory...)
	cp.CurrentRisk.ActionItems = append([]string(nil), p.CurrentRisk.ActionItems...)
	return cp
}

// LastVitals 返回最近 n 条体征记录（不足 n 条时返回全部）
func (p *Patient) LastVitals(n int) []VitalRecord {
	if n <= 0 || len(p.VitalsHistory) == 0 {
		return nil
	}
	if len(p.VitalsHistory) <= n {
		return append([]VitalRecord(nil), p.VitalsHistory...)
	}
	return append([]VitalRecord(nil), p.VitalsHistory[len(p.VitalsHistory)-n:]...)
}
