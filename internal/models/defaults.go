package models

import "time"

// IntPtr 返回 int 指针（可选数值字段的简写）
func IntPtr(v int) *int { return &v }

// Float64Ptr 返回 float64 指针
func Float64Ptr(v float64) *float64 { return &v }

// DefaultPatientID 演示患者 ID
const DefaultPatientID = "p-123456"

// DefaultPatient 种子患者（加载失败/首次启动时的文档化默认值）
// 数据与 pulseraFront 的 INITIAL_PATIENT 保持一致
func DefaultPatient() Patient {
	now := time.Now().UTC()
	day := 24 * time.Hour

	return Patient{
		ID:        DefaultPatientID,
		Name:      "Alex Rivera",
		Age:       42,
		Condition: "Hypertension & Type 2 Diabetes",
		VitalsHistory: []VitalRecord{
			{
				ID: "v1", Timestamp: now.Add(-3 * day), Source: SourceManual,
				Systolic: IntPtr(120), Diastolic: IntPtr(80), HeartRate: IntPtr(72),
				Glucose: IntPtr(105), Temperature: Float64Ptr(98.4), Notes: "Feeling good",
			},
			{
				ID: "v2", Timestamp: now.Add(-2 * day), Source: SourceManual,
				Systolic: IntPtr(125), Diastolic: IntPtr(82), HeartRate: IntPtr(75),
				Glucose: IntPtr(110), Temperature: Float64Ptr(98.6), Notes: "Ate late dinner",
			},
			{
				ID: "v3", Timestamp: now.Add(-1 * day), Source: SourceHospitalUpload,
				Systolic: IntPtr(130), Diastolic: IntPtr(85), HeartRate: IntPtr(78),
				Glucose: IntPtr(115), Temperature: Float64Ptr(99.1), Notes: "Clinic checkup",
			},
		},
		LabHistory: []LabResult{
			{ID: "l1", Timestamp: now.Add(-180 * day), TestName: "HbA1c", Value: "6.2", Unit: "%", Range: "4.0-5.6", Flag: LabHigh, Source: SourceHospitalUpload},
			{ID: "l2", Timestamp: now.Add(-90 * day), TestName: "HbA1c", Value: "6.5", Unit: "%", Range: "4.0-5.6", Flag: LabHigh, Source: SourceHospitalUpload},
			{ID: "l3", Timestamp: now.Add(-10 * day), TestName: "HbA1c", Value: "6.8", Unit: "%", Range: "4.0-5.6", Flag: LabHigh, Source: SourceHospitalUpload},
			{ID: "l4", Timestamp: now.Add(-180 * day), TestName: "Cholesterol (Total)", Value: "190", Unit: "mg/dL", Range: "125-200", Flag: LabNormal, Source: SourceHospitalUpload},
			{ID: "l5", Timestamp: now.Add(-10 * day), TestName: "Cholesterol (Total)", Value: "210", Unit: "mg/dL", Range: "125-200", Flag: LabHigh, Source: SourceHospitalUpload},
		},
		CurrentRisk: RiskAnalysis{
			Level:          RiskNormal,
			Summary:        "Your vitals are slightly elevating but remain within a manageable range.",
			ActionItems:    []string{"Monitor glucose before breakfast", "Reduce sodium intake"},
			AlertTriggered: false,
			Trend:          TrendStable,
		},
	}
}

// DefaultAppointments 种子预约列表
func DefaultAppointments() []Appointment {
	return []Appointment{
		{ID: "apt-1", Doctor: "Dr. Emily Chen", Specialty: "Endocrinologist", Date: "2024-03-25T10:00:00", Type: "Follow-up", Status: AppointmentUpcoming, Location: "Pulsera Medical Center, Suite 304"},
		{ID: "apt-2", Doctor: "Dr. Sarah Connors", Specialty: "Cardiologist", Date: "2024-03-10T14:30:00", Type: "Annual Physical", Status: AppointmentCompleted, Location: "Heart & Vascular Institute"},
		{ID: "apt-3", Doctor: "Lab Corp", Specialty: "Diagnostics", Date: "2024-03-08T09:00:00", Type: "Blood Work", Status: AppointmentCompleted, Location: "Main St Lab"},
	}
}

// DefaultDevices 种子设备列表（每个进程生命周期重新初始化）
func DefaultDevices() []DeviceIntegration {
	return []DeviceIntegration{
		{ID: "apple-health", Name: "Apple Health", Provider: "Apple", Type: "App", Status: DeviceConnected, LastSync: "10 mins ago", IconBg: "bg-zinc-900", IconColor: "text-white"},
		{ID: "oura", Name: "Oura Ring Gen 3", Provider: "Oura", Type: "Wearable", Status: DeviceConnected, LastSync: "Just now", BatteryLevel: IntPtr(82), IconBg: "bg-zinc-100", IconColor: "text-zinc-900"},
		{ID: "dexcom", Name: "Dexcom G7", Provider: "Dexcom", Type: "Medical Device", Status: DeviceConnected, LastSync: "5 mins ago", BatteryLevel: IntPtr(100), IconBg: "bg-green-50", IconColor: "text-green-600"},
		{ID: "fitbit", Name: "Fitbit Sense", Provider: "Fitbit", Type: "Wearable", Status: DeviceDisconnected, IconBg: "bg-teal-50", IconColor: "text-teal-600"},
		{ID: "whoop", Name: "Whoop 4.0", Provider: "Whoop", Type: "Wearable", Status: DeviceDisconnected, IconBg: "bg-zinc-800", IconColor: "text-white"},
	}
}

// DefaultDocuments 种子文档列表（只读）
func DefaultDocuments() []Document {
	return []Document{
		{ID: "doc-1", Name: "Blood Work Analysis.pdf", Date: "2024-03-08", Type: "Lab Report", Size: "1.2 MB", Status: "Analyzed"},
		{ID: "doc-2", Name: "Cardiology Referral.pdf", Date: "2024-02-15", Type: "Referral", Size: "450 KB", Status: "Archived"},
		{ID: "doc-3", Name: "Annual Physical Summary.pdf", Date: "2024-01-20", Type: "Summary", Size: "2.4 MB", Status: "Analyzed"},
	}
}
