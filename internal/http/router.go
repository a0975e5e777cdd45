package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterDashboardRoutes 注册与 pulseraFront 对齐的路由
func (r *Router) RegisterDashboardRoutes(d *DashboardHandler) {
	// patient
	r.Handle("/pulsera/api/v1/patient", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.GetPatient(w, req)
	})

	// vitals
	r.Handle("/pulsera/api/v1/patient/vitals", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.AddVitalRecord(w, req)
	})

	// hospital report upload (simulated extraction)
	r.Handle("/pulsera/api/v1/patient/uploads", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.ProcessUpload(w, req)
	})

	// appointments list/add
	r.Handle("/pulsera/api/v1/appointments", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			d.GetAppointments(w, req)
		case http.MethodPost:
			d.AddAppointment(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// appointments/{id} delete
	r.Handle("/pulsera/api/v1/appointments/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(req.URL.Path, "/pulsera/api/v1/appointments/")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		d.RemoveAppointment(w, req, id)
	})

	// devices
	r.Handle("/pulsera/api/v1/devices", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.GetDevices(w, req)
	})

	// devices/sync + devices/{id}/toggle
	r.Handle("/pulsera/api/v1/devices/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/pulsera/api/v1/devices/")
		if rest == "sync" {
			d.SyncAllDevices(w, req)
			return
		}
		if id, ok := strings.CutSuffix(rest, "/toggle"); ok && id != "" && !strings.Contains(id, "/") {
			d.ToggleDevice(w, req, id)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	// documents (read-only)
	r.Handle("/pulsera/api/v1/documents", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.GetDocuments(w, req)
	})

	// health check
	r.Handle("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// RegisterChatRoutes 注册对话助手路由
func (r *Router) RegisterChatRoutes(c *ChatHandler) {
	r.Handle("/pulsera/api/v1/chat", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		c.Ask(w, req)
	})
}
