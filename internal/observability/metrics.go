package observability

import "sync"

// MetricsSinkContract is the interface the core uses to emit counters and
// latency observations. Storage and exposition are owned by the deployment,
// not by this module.
type MetricsSinkContract interface {
	// IncEngineRequest counts one call to the generation engine, keyed by
	// model name and "success"/"error".
	IncEngineRequest(model, status string)
	// ObserveEngineLatency records one engine round-trip duration in seconds.
	ObserveEngineLatency(model string, seconds float64)
	// IncEngineFailure counts an engine failure by error class.
	IncEngineFailure(model, errorType string)
	// IncGeneration counts a completed note generation, keyed by outcome
	// status and whether safety mode was active.
	IncGeneration(status string, safetyMode bool)
	// IncInjectionDetected counts one flagged injection scan.
	IncInjectionDetected()
}

// InMemorySink is a MetricsSinkContract backed by maps. It is the default
// wiring and the test double; a real deployment replaces it at the edge.
type InMemorySink struct {
	mu               sync.Mutex
	engineRequests   map[string]int
	engineFailures   map[string]int
	generations      map[string]int
	injectionFlagged int
	latencySum       map[string]float64
	latencyCount     map[string]int
}

var _ MetricsSinkContract = (*InMemorySink)(nil)

func NewInMemorySink() *InMemorySink {
	return &InMemorySink{
		engineRequests: make(map[string]int),
		engineFailures: make(map[string]int),
		generations:    make(map[string]int),
		latencySum:     make(map[string]float64),
		latencyCount:   make(map[string]int),
	}
}

func (s *InMemorySink) IncEngineRequest(model, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engineRequests[model+"/"+status]++
}

func (s *InMemorySink) ObserveEngineLatency(model string, seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latencySum[model] += seconds
	s.latencyCount[model]++
}

func (s *InMemorySink) IncEngineFailure(model, errorType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engineFailures[model+"/"+errorType]++
}

func (s *InMemorySink) IncGeneration(status string, safetyMode bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := status + "/full"
	if safetyMode {
		key = status + "/safe"
	}
	s.generations[key]++
}

func (s *InMemorySink) IncInjectionDetected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.injectionFlagged++
}

// EngineRequestCount returns the counter for a model/status pair.
func (s *InMemorySink) EngineRequestCount(model, status string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engineRequests[model+"/"+status]
}

// InjectionDetectedCount returns the number of flagged scans.
func (s *InMemorySink) InjectionDetectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.injectionFlagged
}

// GenerationCount returns the counter for a status/safety pair.
func (s *InMemorySink) GenerationCount(status string, safetyMode bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := status + "/full"
	if safetyMode {
		key = status + "/safe"
	}
	return s.generations[key]
}
