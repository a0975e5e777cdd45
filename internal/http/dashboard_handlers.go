package httpapi

import (
	"net/http"

	"pulsera-data/internal/models"
	"pulsera-data/internal/service"

	"go.uber.org/zap"
)

// DashboardHandler 患者仪表盘 API（pulseraFront 通过它调用状态管理器）
type DashboardHandler struct {
	svc    *service.DataService
	logger *zap.Logger
}

func NewDashboardHandler(svc *service.DataService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// GET /pulsera/api/v1/patient
func (h *DashboardHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Patient()))
}

// POST /pulsera/api/v1/patient/vitals
// 输入校验在这个边界完成：核心假定收到的都是合法领域值
func (h *DashboardHandler) AddVitalRecord(w http.ResponseWriter, r *http.Request) {
	var input models.VitalInput
	if err := decodeJSON(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	if input.Source == "" {
		input.Source = models.SourceManual
	}
	switch input.Source {
	case models.SourceManual, models.SourceHospitalUpload, models.SourceWearable:
	default:
		writeJSON(w, http.StatusBadRequest, Fail("unknown vital source"))
		return
	}
	if !input.HasMeasurement() {
		writeJSON(w, http.StatusBadRequest, Fail("at least one measurement is required"))
		return
	}

	patient := h.svc.AddVitalRecord(r.Context(), input)
	writeJSON(w, http.StatusOK, Ok(patient))
}

// uploadRequest 上传请求（文件解析是模拟的，只需要文件名）
type uploadRequest struct {
	FileName string `json:"fileName"`
}

// POST /pulsera/api/v1/patient/uploads
func (h *DashboardHandler) ProcessUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil || req.FileName == "" {
		writeJSON(w, http.StatusBadRequest, Fail("fileName is required"))
		return
	}

	patient := h.svc.ProcessHospitalUpload(r.Context(), req.FileName)
	writeJSON(w, http.StatusOK, Ok(patient))
}

// GET /pulsera/api/v1/appointments
func (h *DashboardHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Appointments()))
}

// POST /pulsera/api/v1/appointments
// id 由前端预生成（与 pulseraFront 的预约表单一致）
func (h *DashboardHandler) AddAppointment(w http.ResponseWriter, r *http.Request) {
	var apt models.Appointment
	if err := decodeJSON(r, &apt); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if apt.ID == "" || apt.Doctor == "" || apt.Date == "" {
		writeJSON(w, http.StatusBadRequest, Fail("id, doctor and date are required"))
		return
	}
	if apt.Status == "" {
		apt.Status = models.AppointmentUpcoming
	}

	writeJSON(w, http.StatusOK, Ok(h.svc.AddAppointment(r.Context(), apt)))
}

// DELETE /pulsera/api/v1/appointments/{id}
// 删除不存在的 id 是 no-op，同样返回 200 和当前列表
func (h *DashboardHandler) RemoveAppointment(w http.ResponseWriter, r *http.Request, id string) {
	writeJSON(w, http.StatusOK, Ok(h.svc.RemoveAppointment(r.Context(), id)))
}

// GET /pulsera/api/v1/devices
func (h *DashboardHandler) GetDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Devices()))
}

// POST /pulsera/api/v1/devices/{id}/toggle
func (h *DashboardHandler) ToggleDevice(w http.ResponseWriter, r *http.Request, id string) {
	writeJSON(w, http.StatusOK, Ok(h.svc.ToggleDeviceConnection(id)))
}

// POST /pulsera/api/v1/devices/sync
func (h *DashboardHandler) SyncAllDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.SyncAllDevices()))
}

// GET /pulsera/api/v1/documents
func (h *DashboardHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Documents()))
}
