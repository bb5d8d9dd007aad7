package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/dental-clinic-scheduling/internal/appointment"
	"github.com/hackgods/dental-clinic-scheduling/internal/chart"
	"github.com/hackgods/dental-clinic-scheduling/internal/directory"
	"github.com/hackgods/dental-clinic-scheduling/internal/inventory"
	"github.com/hackgods/dental-clinic-scheduling/internal/metrics"
	"github.com/hackgods/dental-clinic-scheduling/internal/records"
)

type RouterConfig struct {
	Appointments *appointment.Service
	Directory    *directory.Service
	Charts       *chart.Service
	Inventory    *inventory.Service
	Records      *records.Service
	Store        Pinger
	StoreBackend string
	Redis        *redis.Client // nil when locks are local
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recoverer)

	// Health endpoints
	health := NewHealthHandler(cfg.Store, cfg.StoreBackend, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	dir := cfg.Directory
	r.Route("/staff", func(r chi.Router) {
		r.Get("/", listStaffHandler(dir))
		r.Post("/", createStaffHandler(dir))
		r.Get("/dentists", listDentistsHandler(dir))
		r.Get("/check-phone", checkUniqueHandler("phone", func(r *http.Request, v string, exclude uuid.UUID) (bool, error) {
			return dir.IsPhoneUnique(r.Context(), v, exclude)
		}))
		r.Get("/check-telegram", checkUniqueHandler("handle", func(r *http.Request, v string, exclude uuid.UUID) (bool, error) {
			return dir.IsTelegramUnique(r.Context(), v, exclude)
		}))
		r.Get("/{id}", getStaffHandler(dir))
		r.Put("/{id}", updateStaffHandler(dir))
		r.Delete("/{id}", deleteStaffHandler(dir))
	})

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", listPatientsHandler(dir))
		r.Post("/", createPatientHandler(dir))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", getPatientHandler(dir))
			r.Put("/", updatePatientHandler(dir))
			r.Delete("/", deletePatientHandler(dir))

			r.Get("/chart", getChartHandler(cfg.Charts))
			r.Route("/chart/teeth/{tooth}", func(r chi.Router) {
				r.Put("/status", setToothStatusHandler(cfg.Charts))
				r.Put("/notes", setToothNotesHandler(cfg.Charts))
				r.Post("/treatments", addTreatmentHandler(cfg.Charts))
				r.Delete("/treatments/{treatmentID}", deleteTreatmentHandler(cfg.Charts))
			})

			r.Get("/notes", listNotesHandler(cfg.Records))
			r.Post("/notes", addNoteHandler(cfg.Records))
			r.Delete("/notes/{noteID}", deleteNoteHandler(cfg.Records))
			r.Get("/images", listImagesHandler(cfg.Records))
			r.Post("/images", addImageHandler(cfg.Records))
			r.Delete("/images/{imageID}", deleteImageHandler(cfg.Records))
		})
	})

	appts := cfg.Appointments
	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(appts))
		r.Post("/", createAppointmentHandler(appts))
		r.Get("/{id}", getAppointmentHandler(appts))
		r.Put("/{id}", updateAppointmentHandler(appts))
		r.Delete("/{id}", deleteAppointmentHandler(appts))
		r.Post("/{id}/status", changeStatusHandler(appts))
		r.Get("/{id}/events", listEventsHandler(appts))
	})

	r.Get("/schedule/{date}/timeline", timelineHandler(appts))
	r.Get("/schedule/{date}/availability", availabilityHandler(appts))

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", listRoomsHandler(appts))
		r.Post("/", createRoomHandler(appts))
		r.Put("/{id}", updateRoomHandler(appts))
		r.Put("/{id}/status", setRoomStatusHandler(appts))
	})

	r.Get("/holidays", listHolidaysHandler(appts))
	r.Post("/holidays", addHolidayHandler(appts))
	r.Delete("/holidays/{id}", deleteHolidayHandler(appts))

	r.Get("/day-offs", listDayOffsHandler(appts))
	r.Post("/day-offs", requestDayOffHandler(appts))
	r.Post("/day-offs/{id}/review", reviewDayOffHandler(appts))

	r.Get("/treatments", treatmentCatalogHandler(cfg.Charts))

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", listItemsHandler(cfg.Inventory))
		r.Post("/", createItemHandler(cfg.Inventory))
		r.Get("/low-stock", lowStockHandler(cfg.Inventory))
		r.Get("/{id}", getItemHandler(cfg.Inventory))
		r.Put("/{id}", updateItemHandler(cfg.Inventory))
		r.Delete("/{id}", deleteItemHandler(cfg.Inventory))
		r.Post("/{id}/adjust", adjustItemHandler(cfg.Inventory))
	})

	return r
}
