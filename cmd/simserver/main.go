// simserver is a development stand-in for the SimShield backend. It serves
// the fleet/usage/analyze/actions/best-options/whatif endpoints with
// generated data and pushes anomaly and bulk-action frames over the live
// alert feed, so the console can be run without a real backend.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const (
	defaultPort        = "8080"
	defaultSimCount    = 25
	defaultAlertEveryS = 10
)

var deviceTypes = []string{"POS", "SmartMeter", "Tracker", "Camera", "Sensor"}
var cities = []string{"Istanbul", "Ankara", "Izmir", "Bursa", "Antalya"}
var anomalyTypes = []string{"sudden_spike", "sustained_drain", "inactivity", "unexpected_roaming"}
var statuses = []string{"active", "active", "active", "blocked", "suspended"}

// sim is the generated fleet row
type sim struct {
	SimID        string `json:"sim_id"`
	DeviceType   string `json:"device_type"`
	APN          string `json:"apn"`
	Plan         string `json:"plan"`
	Status       string `json:"status"`
	City         string `json:"city"`
	RiskScore    int    `json:"risk_score"`
	RiskLevel    string `json:"risk_level"`
	AnomalyCount int    `json:"anomaly_count"`
}

// hub fans alert frames out to all connected feed clients
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	logrus.Infof("Feed client connected: %s", conn.RemoteAddr())
}

func (h *hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(frame interface{}) {
	payload, err := json.Marshal(frame)
	if err != nil {
		logrus.Errorf("Error marshalling frame for broadcast: %v", err)
		return
	}
	h.mu.Lock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logrus.Warnf("Feed client %s write failed, removing: %v", conn.RemoteAddr(), err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
	h.mu.Unlock()
}

type server struct {
	mu   sync.Mutex
	sims []sim
	hub  *hub
}

func riskLevel(score int) string {
	switch {
	case score >= 70:
		return "red"
	case score >= 40:
		return "orange"
	default:
		return "green"
	}
}

func generateFleet(count int) []sim {
	sims := make([]sim, count)
	for i := range sims {
		score := rand.Intn(100)
		sims[i] = sim{
			SimID:        fmt.Sprintf("SIM-%04d", i+1),
			DeviceType:   deviceTypes[rand.Intn(len(deviceTypes))],
			APN:          "iot.simshield",
			Plan:         fmt.Sprintf("IoT-%dMB", 100*(1+rand.Intn(5))),
			Status:       statuses[rand.Intn(len(statuses))],
			City:         cities[rand.Intn(len(cities))],
			RiskScore:    score,
			RiskLevel:    riskLevel(score),
			AnomalyCount: rand.Intn(4),
		}
	}
	return sims
}

func (s *server) getFleet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Half the time wrap the list, exercising both accepted response shapes
	if rand.Intn(2) == 0 {
		writeJSON(w, http.StatusOK, s.sims)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sims": s.sims})
}

func (s *server) getUsage(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}
	now := time.Now()
	points := make([]map[string]interface{}, 0, days)
	for i := days - 1; i >= 0; i-- {
		points = append(points, map[string]interface{}{
			"timestamp":  now.AddDate(0, 0, -i),
			"mb_used":    10 + rand.Float64()*90,
			"roaming_mb": rand.Float64() * 5,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"usage": points})
}

func (s *server) analyze(w http.ResponseWriter, r *http.Request) {
	simID := mux.Vars(r)["simId"]
	score := rand.Intn(100)
	anomalyType := anomalyTypes[rand.Intn(len(anomalyTypes))]
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"anomalies": []map[string]interface{}{
			{
				"type":        anomalyType,
				"detected_at": time.Now(),
				"reason":      "usage outside learned baseline",
				"evidence":    map[string]interface{}{"baseline_mb": 42.0},
			},
		},
		"risk_score": score,
		"risk_level": riskLevel(score),
		"summary":    fmt.Sprintf("%s shows %s behavior", simID, anomalyType),
	})
}

func (s *server) latestAnalysis(w http.ResponseWriter, r *http.Request) {
	// Some SIMs have never been analyzed
	if rand.Intn(4) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no analysis"})
		return
	}
	s.analyze(w, r)
}

func (s *server) actions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SimIDs []string `json:"sim_ids"`
		Action string   `json:"action"`
		Reason string   `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request"})
		return
	}

	created := make([]map[string]interface{}, 0, len(req.SimIDs))
	for _, id := range req.SimIDs {
		created = append(created, map[string]interface{}{"id": uuid.New().String(), "sim_id": id})
	}
	message := fmt.Sprintf("%s applied to %d SIM(s)", req.Action, len(req.SimIDs))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"created": created,
		"message": message,
	})

	// Confirm over the feed shortly after, like the real backend does
	go func() {
		time.Sleep(500 * time.Millisecond)
		s.hub.broadcast(map[string]interface{}{
			"type":    "bulk_action",
			"message": message,
		})
	}()
}

func (s *server) bestOptions(w http.ResponseWriter, r *http.Request) {
	options := make([]map[string]interface{}, 0, 3)
	current := 20 + rand.Float64()*30
	for i := 0; i < 3; i++ {
		candidate := current * (0.6 + 0.15*float64(i))
		options = append(options, map[string]interface{}{
			"plan_id":         uuid.New().String(),
			"name":            fmt.Sprintf("IoT-%dMB", 200*(i+1)),
			"current_total":   current,
			"candidate_total": candidate,
			"saving":          current - candidate,
			"breakdown": map[string]float64{
				"base_cost":    candidate * 0.8,
				"overage_cost": candidate * 0.1,
				"addon_cost":   candidate * 0.1,
				"total_cost":   candidate,
			},
			"description": "projected from last 30 days of usage",
		})
	}
	writeJSON(w, http.StatusOK, options)
}

func (s *server) whatIf(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scenario   string `json:"scenario"`
		Parameters struct {
			DurationDays int `json:"duration_days"`
		} `json:"parameters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request"})
		return
	}

	current := 20 + rand.Float64()*30
	projected := current * (0.8 + rand.Float64()*0.6)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current_monthly":   current,
		"projected_monthly": projected,
		"cost_change":       projected - current,
		"risk_change":       rand.Intn(21) - 10,
		"recommendations":   []string{"review plan size", "consider roaming addon"},
		"description":       fmt.Sprintf("scenario %s over %d days", req.Scenario, req.Parameters.DurationDays),
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *server) alertFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("Feed upgrade failed: %v", err)
		return
	}
	s.hub.register(conn)

	// Drain the connection; the feed is push-only
	go func() {
		defer s.hub.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// emitAnomalies periodically pushes anomaly frames for random SIMs
func (s *server) emitAnomalies(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		if len(s.sims) == 0 {
			s.mu.Unlock()
			continue
		}
		target := &s.sims[rand.Intn(len(s.sims))]
		target.RiskScore = 40 + rand.Intn(60)
		target.RiskLevel = riskLevel(target.RiskScore)
		target.AnomalyCount++
		frame := map[string]interface{}{
			"type":       "anomaly_detected",
			"sim_id":     target.SimID,
			"risk_score": target.RiskScore,
			"severity":   target.RiskLevel,
			"latest_anomaly": map[string]string{
				"type": anomalyTypes[rand.Intn(len(anomalyTypes))],
			},
		}
		s.mu.Unlock()

		logrus.Infof("Emitting anomaly for %s", frame["sim_id"])
		s.hub.broadcast(frame)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Errorf("Error encoding response: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	port := getEnv("PORT", defaultPort)
	simCount, _ := strconv.Atoi(getEnv("SIM_COUNT", fmt.Sprintf("%d", defaultSimCount)))
	alertEveryS, _ := strconv.Atoi(getEnv("ALERT_INTERVAL_SEC", fmt.Sprintf("%d", defaultAlertEveryS)))

	srv := &server{
		sims: generateFleet(simCount),
		hub:  newHub(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/fleet", srv.getFleet).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/usage/{simId}", srv.getUsage).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/analyze/{simId}", srv.analyze).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/analyze/{simId}/latest", srv.latestAnalysis).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/actions", srv.actions).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/best-options/{simId}", srv.bestOptions).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/whatif/{simId}", srv.whatIf).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/ws/alerts", srv.alertFeed)

	go srv.emitAnomalies(time.Duration(alertEveryS) * time.Second)

	handler := cors.AllowAll().Handler(r)
	logrus.Infof("simserver listening on :%s with %d SIMs", port, simCount)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logrus.Fatalf("simserver failed: %v", err)
	}
}
