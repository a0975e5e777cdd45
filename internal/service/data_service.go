package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"pulsera-data/internal/ai"
	"pulsera-data/internal/models"
	"pulsera-data/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DataService 患者状态管理器（核心的唯一可变状态持有者）
// 单写者约束在这里用互斥锁显式强制：同一时刻最多一次患者状态变更、
// 最多一个在途的风险评估请求，不依赖 UI 层禁用按钮
// 并发的重复提交按获取锁的顺序串行执行，后到者胜（last-write-wins）
//
// 所有权：Patient/Appointment/Device 在进程生命周期内由本实例独占；
// 持久化适配器只做序列化，AI 客户端只拿一次性只读快照
type DataService struct {
	store  *store.PatientStore
	risk   ai.RiskAnalyzer
	logger *zap.Logger

	mu           sync.Mutex
	patient      models.Patient
	appointments []models.Appointment
	devices      []models.DeviceIntegration
	documents    []models.Document
}

// NewDataService 创建状态管理器
// 从持久化适配器加载一次初始状态；键缺失或 payload 损坏时使用种子数据，启动不失败
func NewDataService(patientStore *store.PatientStore, risk ai.RiskAnalyzer, logger *zap.Logger) *DataService {
	s := &DataService{
		store:  patientStore,
		risk:   risk,
		logger: logger,
	}

	ctx := context.Background()
	patient, ok := patientStore.LoadPatient(ctx)
	if !ok {
		patient = models.DefaultPatient()
		logger.Info("Seeded initial patient", zap.String("patient_id", patient.ID))
	}
	appointments, ok := patientStore.LoadAppointments(ctx)
	if !ok {
		appointments = models.DefaultAppointments()
		logger.Info("Seeded initial appointments", zap.Int("count", len(appointments)))
	}

	s.patient = patient
	s.appointments = appointments
	// 设备与文档不持久化：每个进程生命周期重新播种（刻意的范围边界）
	s.devices = models.DefaultDevices()
	s.documents = models.DefaultDocuments()

	return s
}

// Patient 当前患者快照（只读副本，无副作用）
func (s *DataService) Patient() models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patient.Clone()
}

// Appointments 当前预约列表快照
func (s *DataService) Appointments() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Appointment(nil), s.appointments...)
}

// Devices 当前设备列表快照
func (s *DataService) Devices() []models.DeviceIntegration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DeviceIntegration(nil), s.devices...)
}

// Documents 文档列表快照（只读种子数据）
func (s *DataService) Documents() []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Document(nil), s.documents...)
}

// AddVitalRecord 追加一条体征记录并刷新风险评估
// 流程：分配 id/时间戳 → 追加 → 评估（携带追加前快照 + 新记录）→ 整体替换 currentRisk → 持久化
// 评估失败时使用文档化的保守回退值；变更本身仍然完成并持久化
func (s *DataService) AddVitalRecord(ctx context.Context, input models.VitalInput) models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := models.VitalRecord{
		ID:               uuid.NewString(),
		Timestamp:        time.Now().UTC(),
		Source:           input.Source,
		Systolic:         input.Systolic,
		Diastolic:        input.Diastolic,
		HeartRate:        input.HeartRate,
		Temperature:      input.Temperature,
		OxygenSaturation: input.OxygenSaturation,
		Glucose:          input.Glucose,
		Notes:            input.Notes,
	}

	return s.appendAndAnalyzeLocked(ctx, record)
}

// ProcessHospitalUpload 处理上传的医院报告
// 真实的文件解析属于外部协作方，这里模拟抽取一条体征记录，
// 之后走与 AddVitalRecord 相同的 追加 → 评估 → 持久化 路径
func (s *DataService) ProcessHospitalUpload(ctx context.Context, fileName string) models.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := models.VitalRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    models.SourceHospitalUpload,
		Systolic:  models.IntPtr(135),
		Diastolic: models.IntPtr(88),
		HeartRate: models.IntPtr(80),
		Notes:     fmt.Sprintf("Extracted from %s: Routine Checkup.", fileName),
	}

	return s.appendAndAnalyzeLocked(ctx, record)
}

// appendAndAnalyzeLocked 追加+评估+持久化（调用方必须持有锁）
// 持久化的状态总是"先有这条记录、后算出的 currentRisk"这一配对
func (s *DataService) appendAndAnalyzeLocked(ctx context.Context, record models.VitalRecord) models.Patient {
	// 评估用追加前的快照：提示词携带最近 3 条历史，新记录单独给出
	snapshot := s.patient.Clone()

	s.patient.VitalsHistory = append(s.patient.VitalsHistory, record)

	analysis, err := s.risk.AnalyzePatientRisk(ctx, snapshot, record)
	if err != nil {
		// fail closed：评估不可用时绝不静默报告"正常"
		s.logger.Warn("Risk analysis unavailable, applying conservative fallback",
			zap.String("record_id", record.ID),
			zap.Error(err),
		)
		analysis = ai.FallbackRiskAnalysis()
	}
	s.patient.CurrentRisk = analysis

	s.persistLocked(ctx)

	s.logger.Info("Vital record added",
		zap.String("record_id", record.ID),
		zap.String("source", string(record.Source)),
		zap.Int("vitals_count", len(s.patient.VitalsHistory)),
		zap.String("risk_level", string(analysis.Level)),
	)
	return s.patient.Clone()
}

// AddAppointment 新增预约（调用方预生成 id；新项排在最前）
func (s *DataService) AddAppointment(ctx context.Context, apt models.Appointment) []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appointments = append([]models.Appointment{apt}, s.appointments...)
	s.persistLocked(ctx)

	s.logger.Info("Appointment added",
		zap.String("appointment_id", apt.ID),
		zap.String("doctor", apt.Doctor),
	)
	return append([]models.Appointment(nil), s.appointments...)
}

// RemoveAppointment 按 id 删除预约（id 不存在时是 no-op，不报错）
func (s *DataService) RemoveAppointment(ctx context.Context, id string) []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]models.Appointment, 0, len(s.appointments))
	for _, apt := range s.appointments {
		if apt.ID != id {
			filtered = append(filtered, apt)
		}
	}
	removed := len(filtered) != len(s.appointments)
	s.appointments = filtered
	s.persistLocked(ctx)

	if removed {
		s.logger.Info("Appointment removed", zap.String("appointment_id", id))
	}
	return append([]models.Appointment(nil), s.appointments...)
}

// ToggleDeviceConnection 切换设备连接状态
// 连接时分配随机电量(60-99)和 "Just now" 同步标签；断开时清空两者
// id 不存在时是 no-op；设备状态不持久化
func (s *DataService) ToggleDeviceConnection(id string) []models.DeviceIntegration {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].ID != id {
			continue
		}
		if s.devices[i].Status == models.DeviceConnected {
			s.devices[i].Status = models.DeviceDisconnected
			s.devices[i].LastSync = ""
			s.devices[i].BatteryLevel = nil
		} else {
			s.devices[i].Status = models.DeviceConnected
			s.devices[i].LastSync = "Just now"
			s.devices[i].BatteryLevel = models.IntPtr(rand.Intn(40) + 60)
		}
		s.logger.Info("Device connection toggled",
			zap.String("device_id", id),
			zap.String("status", string(s.devices[i].Status)),
		)
		break
	}
	return append([]models.DeviceIntegration(nil), s.devices...)
}

// SyncAllDevices 刷新所有已连接设备的同步标签（未连接设备不动）
func (s *DataService) SyncAllDevices() []models.DeviceIntegration {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.devices {
		if s.devices[i].Status == models.DeviceConnected {
			s.devices[i].LastSync = "Just now"
		}
	}
	return append([]models.DeviceIntegration(nil), s.devices...)
}

// persistLocked 持久化当前状态（调用方必须持有锁）
// best-effort：持久化失败只记日志，绝不回滚用户刚看到成功的内存变更
func (s *DataService) persistLocked(ctx context.Context) {
	if err := s.store.Save(ctx, s.patient, s.appointments); err != nil {
		s.logger.Warn("State persist failed, keeping in-memory state", zap.Error(err))
	}
}
