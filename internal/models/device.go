package models

// DeviceStatus 设备连接状态
type DeviceStatus string

const (
	DeviceConnected    DeviceStatus = "Connected"
	DeviceDisconnected DeviceStatus = "Disconnected"
	DeviceSyncing      DeviceStatus = "Syncing"
)

// DeviceIntegration 模拟的穿戴设备/健康应用集成
// 仅保存在进程内存中，进程重启后重置（刻意的范围边界，不是遗漏）
// iconBg/iconColor 是前端展示元数据，随 JSON 透传给 pulseraFront
type DeviceIntegration struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Provider     string       `json:"provider"`
	Type         string       `json:"type"`
	Status       DeviceStatus `json:"status"`
	LastSync     string       `json:"lastSync,omitempty"`
	BatteryLevel *int         `json:"batteryLevel,omitempty"`
	IconBg       string       `json:"iconBg"`
	IconColor    string       `json:"iconColor"`
}
