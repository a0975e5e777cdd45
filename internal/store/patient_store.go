package store

import (
	"context"
	"encoding/json"
	"fmt"

	"pulsera-data/internal/models"

	"go.uber.org/zap"
)

// 两个独立键的 JSON blob（对应浏览器 localStorage 的两个条目）
// 没有 schema 版本号：跨版本形状漂移按"键不存在"处理，由调用方回退到种子数据
const (
	PatientKey      = "pulsera:patient"
	AppointmentsKey = "pulsera:appointments"
)

// PatientStore 患者聚合与预约列表的持久化适配器
// 不拥有数据，只负责按需序列化/反序列化；整个 blob 原子替换
type PatientStore struct {
	kv     KV
	logger *zap.Logger
}

// NewPatientStore 创建持久化适配器
func NewPatientStore(kv KV, logger *zap.Logger) *PatientStore {
	return &PatientStore{kv: kv, logger: logger}
}

// LoadPatient 读取患者 blob
// 键不存在或 payload 反序列化失败都按"缺失"处理（ok=false），启动不失败
func (s *PatientStore) LoadPatient(ctx context.Context) (models.Patient, bool) {
	raw, err := s.kv.Get(ctx, PatientKey)
	if err != nil {
		if err != ErrMiss {
			s.logger.Warn("Failed to load patient blob, falling back to seed",
				zap.String("key", PatientKey),
				zap.Error(err),
			)
		}
		return models.Patient{}, false
	}

	var p models.Patient
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID == "" {
		s.logger.Warn("Malformed patient blob, falling back to seed",
			zap.String("key", PatientKey),
			zap.Error(err),
		)
		return models.Patient{}, false
	}
	return p, true
}

// LoadAppointments 读取预约列表 blob
func (s *PatientStore) LoadAppointments(ctx context.Context) ([]models.Appointment, bool) {
	raw, err := s.kv.Get(ctx, AppointmentsKey)
	if err != nil {
		if err != ErrMiss {
			s.logger.Warn("Failed to load appointments blob, falling back to seed",
				zap.String("key", AppointmentsKey),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var apts []models.Appointment
	if err := json.Unmarshal([]byte(raw), &apts); err != nil {
		s.logger.Warn("Malformed appointments blob, falling back to seed",
			zap.String("key", AppointmentsKey),
			zap.Error(err),
		)
		return nil, false
	}
	return apts, true
}

// Save 持久化患者与预约列表（两个 blob 各自整体替换）
// 对 UI 流程是 fire-and-forget：调用方记录错误后继续，绝不回滚内存中的变更
func (s *PatientStore) Save(ctx context.Context, patient models.Patient, appointments []models.Appointment) error {
	patientJSON, err := json.Marshal(patient)
	if err != nil {
		return fmt.Errorf("failed to marshal patient: %w", err)
	}
	aptsJSON, err := json.Marshal(appointments)
	if err != nil {
		return fmt.Errorf("failed to marshal appointments: %w", err)
	}

	if err := s.kv.Set(ctx, PatientKey, string(patientJSON), 0); err != nil {
		return fmt.Errorf("failed to save patient: %w", err)
	}
	if err := s.kv.Set(ctx, AppointmentsKey, string(aptsJSON), 0); err != nil {
		return fmt.Errorf("failed to save appointments: %w", err)
	}

	s.logger.Debug("Persisted dashboard state",
		zap.Int("vitals_count", len(patient.VitalsHistory)),
		zap.Int("appointment_count", len(appointments)),
	)
	return nil
}
