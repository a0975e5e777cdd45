package models

// VitalInput 新增体征记录的输入（id/timestamp 由核心分配）
// 字段校验（来源合法、至少一个测量值）在 HTTP 边界完成
type VitalInput struct {
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
func (in *VitalInput) HasMeasurement() bool {
	return in.Systolic != nil || in.Diastolic != nil || in.HeartRate != nil ||
		in.Temperature != nil || in.OxygenSaturation != nil || in.Glucose != nil
}
