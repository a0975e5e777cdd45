package models

// AppointmentStatus 预约状态
type AppointmentStatus string

const (
	AppointmentUpcoming  AppointmentStatus = "Upcoming"
	AppointmentCompleted AppointmentStatus = "Completed"
)

// Appointment 就诊预约
// id 由调用方（前端）预生成，日期为 ISO-8601 字符串（与 pulseraFront 对齐）
type Appointment struct {
	ID        string            `json:"id"`
	Doctor    string            `json:"doctor"`
	Specialty string            `json:"specialty"`
	Date      string            `json:"date"`
	Type      string            `json:"type"`
	Status    AppointmentStatus `json:"status"`
	Location  string            `json:"location"`
}

// Document 已上传/归档的医疗文档（只读种子数据）
type Document struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	Size   string `json:"size"`
	Status string `json:"status"`
}
