package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	"github.com/hackgods/dental-clinic-scheduling/internal/logging"
)

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	Days         int
	BookingRatio float64
	StatusRatio  float64
	ReadRatio    float64
}

// DataPool holds the ids the workers pick from.
type DataPool struct {
	Patients []uuid.UUID
	Dentists []uuid.UUID
	Rooms    []uuid.UUID

	mu           sync.RWMutex
	appointments []uuid.UUID
}

func (dp *DataPool) AddAppointment(id uuid.UUID) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (uuid.UUID, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return uuid.Nil, false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, status int) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case status >= 200 && status < 300:
		atomic.AddInt64(&om.Success, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, p50, p95, max time.Duration) {
	om.mu.Lock()
	latencies := append([]time.Duration(nil), om.Latencies...)
	om.mu.Unlock()

	if len(latencies) == 0 {
		return 0, 0, 0, 0
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	n := len(latencies)
	return sum / time.Duration(n), latencies[n*50/100], latencies[min(n*95/100, n-1)], latencies[n-1]
}

type Metrics struct {
	Booking      OperationMetrics
	StatusChange OperationMetrics
	Timeline     OperationMetrics
	Availability OperationMetrics
	ReadByID     OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
	log     zerolog.Logger
}

func main() {
	_ = godotenv.Load()
	log := logging.New(os.Getenv("APP_ENV"), "info", os.Stdout).With().Str("service", "simulate").Logger()

	cfg := loadConfig()
	if cfg.Workers <= 0 || cfg.Duration <= 0 || cfg.Days <= 0 {
		log.Fatal().Msg("SIM_WORKERS, SIM_DURATION and SIM_DAYS must be positive")
	}

	log.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("booking", cfg.BookingRatio).
		Float64("status", cfg.StatusRatio).
		Float64("read", cfg.ReadRatio).
		Msg("simulator starting")

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := sim.loadDataPool(ctx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("load data pool")
	}
	sim.pool = pool

	log.Info().
		Int("patients", len(pool.Patients)).
		Int("dentists", len(pool.Dentists)).
		Int("rooms", len(pool.Rooms)).
		Msg("data pool loaded")

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:   strings.TrimRight(getEnv("SIM_API_BASE_URL", "http://localhost:8080"), "/"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		Days:         getInt("SIM_DAYS", 5),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.5),
		StatusRatio:  getFloat("SIM_STATUS_RATIO", 0.2),
		ReadRatio:    getFloat("SIM_READ_RATIO", 0.3),
	}

	// Normalize ratios
	total := cfg.BookingRatio + cfg.StatusRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.StatusRatio /= total
		cfg.ReadRatio /= total
	}
	return cfg
}

// loadDataPool reads the ids through the API so the simulator works against either store backend.
func (s *Simulator) loadDataPool(ctx context.Context) (*DataPool, error) {
	var patients []clinic.Patient
	if err := s.getJSON(ctx, "/patients", &patients); err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	var dentists []clinic.Dentist
	if err := s.getJSON(ctx, "/staff/dentists", &dentists); err != nil {
		return nil, fmt.Errorf("load dentists: %w", err)
	}
	var rooms []clinic.Room
	if err := s.getJSON(ctx, "/rooms", &rooms); err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	pool := &DataPool{}
	for _, p := range patients {
		pool.Patients = append(pool.Patients, p.ID)
	}
	for _, d := range dentists {
		if d.Status == clinic.StaffActive {
			pool.Dentists = append(pool.Dentists, d.ID)
		}
	}
	for _, r := range rooms {
		if r.Status != clinic.RoomMaintenance {
			pool.Rooms = append(pool.Rooms, r.ID)
		}
	}

	if len(pool.Patients) == 0 || len(pool.Dentists) == 0 || len(pool.Rooms) == 0 {
		return nil, fmt.Errorf("need at least one patient, active dentist and bookable room")
	}
	return pool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for ctx.Err() == nil {
		r := rng.Float64()
		switch {
		case r < s.config.BookingRatio:
			s.doBooking(ctx, rng)
		case r < s.config.BookingRatio+s.config.StatusRatio:
			s.doStatusChange(ctx, rng)
		default:
			switch rng.Intn(3) {
			case 0:
				s.doTimeline(ctx, rng)
			case 1:
				s.doAvailability(ctx, rng)
			default:
				s.doReadByID(ctx, rng)
			}
		}
	}
}

// randomVisit picks a morning or afternoon start on the half hour so bookings stay clear of lunch.
func (s *Simulator) randomVisit(rng *rand.Rand) (date string, start, end clinic.Clock) {
	date = time.Now().AddDate(0, 0, 1+rng.Intn(s.config.Days)).Format(clinic.DateLayout)
	starts := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30"}
	start = clinic.MustClock(starts[rng.Intn(len(starts))])
	end = start + 30
	if rng.Intn(2) == 0 && start != clinic.MustClock("12:00") {
		end += 30
	}
	return date, start, end
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	date, start, end := s.randomVisit(rng)
	body := map[string]string{
		"patient_id": s.pool.Patients[rng.Intn(len(s.pool.Patients))].String(),
		"dentist_id": s.pool.Dentists[rng.Intn(len(s.pool.Dentists))].String(),
		"room_id":    s.pool.Rooms[rng.Intn(len(s.pool.Rooms))].String(),
		"date":       date,
		"start_time": start.String(),
		"end_time":   end.String(),
	}

	var created clinic.Appointment
	latency, status := s.send(ctx, http.MethodPost, "/appointments", body, &created)
	if status == http.StatusCreated && created.ID != uuid.Nil {
		s.pool.AddAppointment(created.ID)
	}
	s.metrics.Booking.Record(latency, status)
}

func (s *Simulator) doStatusChange(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}
	targets := []clinic.AppointmentStatus{clinic.StatusConfirmed, clinic.StatusCancelled, clinic.StatusScheduled}
	body := map[string]string{"status": string(targets[rng.Intn(len(targets))])}

	latency, status := s.send(ctx, http.MethodPost, "/appointments/"+id.String()+"/status", body, nil)
	s.metrics.StatusChange.Record(latency, status)
}

func (s *Simulator) doTimeline(ctx context.Context, rng *rand.Rand) {
	date, _, _ := s.randomVisit(rng)
	latency, status := s.send(ctx, http.MethodGet, "/schedule/"+date+"/timeline?dentist=all", nil, nil)
	s.metrics.Timeline.Record(latency, status)
}

func (s *Simulator) doAvailability(ctx context.Context, rng *rand.Rand) {
	date, start, _ := s.randomVisit(rng)
	latency, status := s.send(ctx, http.MethodGet, "/schedule/"+date+"/availability?slot="+start.String(), nil, nil)
	s.metrics.Availability.Record(latency, status)
}

func (s *Simulator) doReadByID(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}
	latency, status := s.send(ctx, http.MethodGet, "/appointments/"+id.String(), nil, nil)
	s.metrics.ReadByID.Record(latency, status)
}

// send returns status 0 when the request never got an answer.
func (s *Simulator) send(ctx context.Context, method, path string, body any, out any) (time.Duration, int) {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, reader)
	if err != nil {
		return 0, 0
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return latency, 0
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return latency, resp.StatusCode
}

func (s *Simulator) getJSON(ctx context.Context, path string, out any) error {
	_, status := s.send(ctx, http.MethodGet, path, nil, out)
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, status)
	}
	return nil
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n\n", s.config.Workers)

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Status change", &s.metrics.StatusChange)
	printOperationReport("Timeline", &s.metrics.Timeline)
	printOperationReport("Availability", &s.metrics.Availability)
	printOperationReport("Read by ID", &s.metrics.ReadByID)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)
	avg, p50, p95, max := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s p50=%s p95=%s max=%s\n\n",
		avg.Round(time.Millisecond), p50.Round(time.Millisecond),
		p95.Round(time.Millisecond), max.Round(time.Millisecond))
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
