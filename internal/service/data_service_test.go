package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pulsera-data/internal/ai"
	"pulsera-data/internal/models"
	"pulsera-data/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeKV 仅用于单元测试（内存 KV）
type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	// 置为 true 时所有写入失败（模拟存储不可用）
	failSet bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet {
		return errors.New("storage unavailable")
	}
	f.data[key] = value
	return nil
}

// stubAnalyzer 风险评估客户端桩
type stubAnalyzer struct {
	mu       sync.Mutex
	result   models.RiskAnalysis
	err      error
	calls    int
	lastSeen struct {
		historyLen int
		recordID   string
	}
}

func (s *stubAnalyzer) AnalyzePatientRisk(ctx context.Context, patient models.Patient, newRecord models.VitalRecord) (models.RiskAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastSeen.historyLen = len(patient.VitalsHistory)
	s.lastSeen.recordID = newRecord.ID
	if s.err != nil {
		return models.RiskAnalysis{}, s.err
	}
	return s.result, nil
}

func newTestService(t *testing.T, analyzer *stubAnalyzer) (*DataService, *fakeKV) {
	t.Helper()
	kv := newFakeKV()
	ps := store.NewPatientStore(kv, zap.NewNop())
	return NewDataService(ps, analyzer, zap.NewNop()), kv
}

func criticalAnalysis() models.RiskAnalysis {
	return models.RiskAnalysis{
		Level:          models.RiskCritical,
		Summary:        "Blood pressure is rising sharply and needs attention.",
		ActionItems:    []string{"See a doctor"},
		AlertTriggered: true,
		Trend:          models.TrendWorsening,
	}
}

func TestNewDataService_SeedsDefaultsWhenStoreEmpty(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: criticalAnalysis()})

	patient := svc.Patient()
	assert.Equal(t, models.DefaultPatientID, patient.ID)
	assert.Len(t, patient.VitalsHistory, 3)
	assert.Equal(t, models.RiskNormal, patient.CurrentRisk.Level)

	assert.Len(t, svc.Appointments(), 3)
	assert.Len(t, svc.Devices(), 5)
	assert.Len(t, svc.Documents(), 3)
}

func TestAddVitalRecord_AppendsAndAppliesAnalysis(t *testing.T) {
	// 规约场景：种子患者（3 条体征，NORMAL）+ 桩返回 CRITICAL
	analyzer := &stubAnalyzer{result: criticalAnalysis()}
	svc, _ := newTestService(t, analyzer)

	patient := svc.AddVitalRecord(context.Background(), models.VitalInput{
		Source:    models.SourceManual,
		Systolic:  models.IntPtr(150),
		Diastolic: models.IntPtr(95),
		HeartRate: models.IntPtr(90),
	})

	assert.Len(t, patient.VitalsHistory, 4)
	assert.Equal(t, models.RiskCritical, patient.CurrentRisk.Level)
	assert.Equal(t, models.TrendWorsening, patient.CurrentRisk.Trend)
	assert.True(t, patient.CurrentRisk.AlertTriggered)

	// id/时间戳由核心分配
	last := patient.VitalsHistory[3]
	assert.NotEmpty(t, last.ID)
	assert.False(t, last.Timestamp.IsZero())
	assert.Equal(t, models.SourceManual, last.Source)
	assert.Equal(t, 150, *last.Systolic)

	// 评估收到的是追加前的快照 + 新记录
	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, 3, analyzer.lastSeen.historyLen)
	assert.Equal(t, last.ID, analyzer.lastSeen.recordID)
}

func TestAddVitalRecord_AnalyzerFailureUsesExactFallback(t *testing.T) {
	// 规约场景：桩抛错 → currentRisk 严格等于文档化回退值，历史仍然 +1
	analyzer := &stubAnalyzer{err: errors.New("upstream timeout")}
	svc, _ := newTestService(t, analyzer)

	patient := svc.AddVitalRecord(context.Background(), models.VitalInput{
		Source:   models.SourceManual,
		Systolic: models.IntPtr(150),
	})

	assert.Len(t, patient.VitalsHistory, 4)
	assert.Equal(t, ai.FallbackRiskAnalysis(), patient.CurrentRisk)
}

func TestAddVitalRecord_HistoryGrowsByOnePerCall(t *testing.T) {
	analyzer := &stubAnalyzer{result: criticalAnalysis()}
	svc, _ := newTestService(t, analyzer)

	for i := 0; i < 5; i++ {
		before := svc.Patient()
		after := svc.AddVitalRecord(context.Background(), models.VitalInput{
			Source:    models.SourceWearable,
			HeartRate: models.IntPtr(70 + i),
		})
		require.Len(t, after.VitalsHistory, len(before.VitalsHistory)+1)

		// 只追加，不重排：旧前缀保持原样
		for j := range before.VitalsHistory {
			assert.Equal(t, before.VitalsHistory[j].ID, after.VitalsHistory[j].ID)
		}
	}
}

func TestAddVitalRecord_PersistsAfterMutation(t *testing.T) {
	analyzer := &stubAnalyzer{result: criticalAnalysis()}
	svc, kv := newTestService(t, analyzer)

	svc.AddVitalRecord(context.Background(), models.VitalInput{
		Source:   models.SourceManual,
		Systolic: models.IntPtr(140),
	})

	// 用同一个 KV 重建服务：持久化的状态必须是"记录+配套评估"这一配对
	reloaded := NewDataService(store.NewPatientStore(kv, zap.NewNop()), analyzer, zap.NewNop())
	patient := reloaded.Patient()
	assert.Len(t, patient.VitalsHistory, 4)
	assert.Equal(t, models.RiskCritical, patient.CurrentRisk.Level)
}

func TestAddVitalRecord_PersistFailureKeepsInMemoryState(t *testing.T) {
	analyzer := &stubAnalyzer{result: criticalAnalysis()}
	svc, kv := newTestService(t, analyzer)
	kv.failSet = true

	// 持久化失败绝不回滚用户刚看到成功的内存变更
	patient := svc.AddVitalRecord(context.Background(), models.VitalInput{
		Source:   models.SourceManual,
		Systolic: models.IntPtr(140),
	})
	assert.Len(t, patient.VitalsHistory, 4)
	assert.Len(t, svc.Patient().VitalsHistory, 4)
}

func TestProcessHospitalUpload_SimulatedExtraction(t *testing.T) {
	analyzer := &stubAnalyzer{result: criticalAnalysis()}
	svc, _ := newTestService(t, analyzer)

	patient := svc.ProcessHospitalUpload(context.Background(), "discharge_report.pdf")

	require.Len(t, patient.VitalsHistory, 4)
	extracted := patient.VitalsHistory[3]
	assert.Equal(t, models.SourceHospitalUpload, extracted.Source)
	assert.Equal(t, 135, *extracted.Systolic)
	assert.Equal(t, 88, *extracted.Diastolic)
	assert.Equal(t, 80, *extracted.HeartRate)
	assert.Contains(t, extracted.Notes, "discharge_report.pdf")

	// 与 AddVitalRecord 相同的评估路径
	assert.Equal(t, 1, analyzer.calls)
	assert.Equal(t, models.RiskCritical, patient.CurrentRisk.Level)
}

func TestAddAppointment_MostRecentFirst(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: criticalAnalysis()})

	apt := models.Appointment{
		ID: "apt-new", Doctor: "Dr. Nia Okafor", Specialty: "Nephrologist",
		Date: "2026-09-10T11:00:00", Type: "Consultation",
		Status: models.AppointmentUpcoming, Location: "Renal Clinic",
	}
	list := svc.AddAppointment(context.Background(), apt)

	require.Len(t, list, 4)
	assert.Equal(t, "apt-new", list[0].ID)
	assert.Equal(t, "apt-new", svc.Appointments()[0].ID)
}

func TestRemoveAppointment_UnknownIDIsNoOp(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: criticalAnalysis()})

	before := svc.Appointments()
	require.Len(t, before, 3)

	after := svc.RemoveAppointment(context.Background(), "nonexistent-id")
	assert.Equal(t, before, after)
}

func TestRemoveAppointment_RemovesById(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: criticalAnalysis()})

	after := svc.RemoveAppointment(context.Background(), "apt-2")
	require.Len(t, after, 2)
	for _, apt := range after {
		assert.NotEqual(t, "apt-2", apt.ID)
	}
}

func TestToggleDeviceConnection_IsItsOwnInverse(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: criticalAnalysis()})

	// fitbit 初始是 Disconnected
	devices := svc.ToggleDeviceConnection("fitbit")
	fitbit := findDevice(t, devices, "fitbit")
	assert.Equal(t, models.DeviceConnected, fitbit.Status)
	assert.Equal(t, "Just now", fitbit.LastSync)
	require.NotNil(t, fitbit.BatteryLevel)
	assert.GreaterOrEqual(t, *fitbit.BatteryLevel, 60)
	assert.LessOrEqual(t, *fitbit.BatteryLevel, 99)

	// 再切一次回到断开：电量和同步标签清空
	devices = svc.ToggleDeviceConnection("fitbit")
	fitbit = findDevice(t, devices, "fitbit")
	assert.Equal(t, models.DeviceDisconnected, fitbit.Status)
	assert.Empty(t, fitbit.LastSync)
	assert.Nil(t, fitbit.BatteryLevel)
}

func TestToggleDeviceConnection_UnknownIDIsNoOp(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: criticalAnalysis()})

	before := svc.Devices()
	after := svc.ToggleDeviceConnection("no-such-device")
	assert.Equal(t, before, after)
}

func TestSyncAllDevices_OnlyTouchesConnected(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: criticalAnalysis()})

	devices := svc.SyncAllDevices()
	for _, d := range devices {
		if d.Status == models.DeviceConnected {
			assert.Equal(t, "Just now", d.LastSync, d.ID)
		} else {
			assert.Empty(t, d.LastSync, d.ID)
		}
	}
}

func TestDevices_NotPersisted(t *testing.T) {
	svc, kv := newTestService(t, &stubAnalyzer{result: criticalAnalysis()})

	svc.ToggleDeviceConnection("fitbit")

	// 设备状态是进程内存，重建后回到种子状态
	reloaded := NewDataService(store.NewPatientStore(kv, zap.NewNop()), &stubAnalyzer{}, zap.NewNop())
	fitbit := findDevice(t, reloaded.Devices(), "fitbit")
	assert.Equal(t, models.DeviceDisconnected, fitbit.Status)
}

func TestSnapshots_AreCopies(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{result: criticalAnalysis()})

	patient := svc.Patient()
	patient.VitalsHistory[0].Notes = "mutated by caller"
	patient.Name = "Someone Else"

	fresh := svc.Patient()
	assert.Equal(t, "Feeling good", fresh.VitalsHistory[0].Notes)
	assert.Equal(t, "Alex Rivera", fresh.Name)
}

func findDevice(t *testing.T, devices []models.DeviceIntegration, id string) models.DeviceIntegration {
	t.Helper()
	for _, d := range devices {
		if d.ID == id {
			return d
		}
	}
	t.Fatalf("device %s not found", id)
	return models.DeviceIntegration{}
}
