package metrics

import (
	"strconv"
	"time"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	obserrors "github.com/ecoworth/marketplace-web/internal/observability/errors"
	"github.com/ecoworth/marketplace-web/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Marketplace emits the front end's business metrics. A nil *Marketplace or nil sink is a no-op.
type Marketplace struct {
	sink statsd.Sink
}

// NewMarketplace wraps sink.
func NewMarketplace(sink statsd.Sink) *Marketplace {
	return &Marketplace{sink: sink}
}

func (m *Marketplace) enabled() bool {
	return m != nil && m.sink != nil
}

// BackendCall records one REST backend round trip.
func (m *Marketplace) BackendCall(method, endpoint string, status int, d time.Duration, err error) {
	if !m.enabled() {
		return
	}

	tags := map[string]string{
		"method":   method,
		"endpoint": endpoint,
		"result":   resultOf(err),
	}
	if status > 0 {
		tags["status"] = strconv.Itoa(status)
	}
	if class := obserrors.Classify(err); class != "" {
		tags["error_class"] = class
	}

	m.sink.Count("backend.request", 1, tags)
	if d > 0 {
		m.sink.Timing("backend.duration", d, CloneTags(tags))
	}
}

// GuardDecision records a route guard outcome.
func (m *Marketplace) GuardDecision(route string, outcome domainauth.Outcome) {
	if !m.enabled() {
		return
	}
	m.sink.Count("guard.decision", 1, map[string]string{
		"route":   route,
		"outcome": outcome.String(),
	})
}

// ListingAction records a save, unsave or contact attempt. result is one of the Result constants.
func (m *Marketplace) ListingAction(action, result string, err error) {
	if !m.enabled() {
		return
	}
	tags := map[string]string{
		"action": action,
		"result": result,
	}
	if class := obserrors.Classify(err); class != "" {
		tags["error_class"] = class
	}
	m.sink.Count("listing.action", 1, tags)
}

// AuthEvent records login, logout and registration attempts.
func (m *Marketplace) AuthEvent(event string, role domainauth.Role, err error) {
	if !m.enabled() {
		return
	}
	tags := map[string]string{
		"event":  event,
		"result": resultOf(err),
	}
	if role != "" {
		tags["role"] = string(domainauth.NormalizeRole(role))
	}
	m.sink.Count("auth.event", 1, tags)
}

// ActiveReconcilers reports how many per-session reconcilers are cached.
func (m *Marketplace) ActiveReconcilers(n int) {
	if !m.enabled() {
		return
	}
	m.sink.Gauge("reconciler.active", float64(n), nil)
}

// SweepOperation records one registry sweep step and how many reconcilers it removed.
func (m *Marketplace) SweepOperation(operation string, removed int, err error) {
	if !m.enabled() {
		return
	}
	result := resultOf(err)
	if err == nil && removed == 0 {
		result = ResultNoop
	}
	tags := map[string]string{
		"operation": operation,
		"result":    result,
	}
	if class := obserrors.Classify(err); class != "" {
		tags["error_class"] = class
	}
	m.sink.Count("sweeper.operation", 1, tags)
	if removed > 0 {
		m.sink.Count("sweeper.removed", int64(removed), CloneTags(tags))
	}
}

// SweepCompleted records a finished sweep pass.
func (m *Marketplace) SweepCompleted(d time.Duration, err error) {
	if !m.enabled() {
		return
	}
	tags := map[string]string{"result": resultOf(err)}
	m.sink.Count("sweeper.run", 1, tags)
	if d > 0 {
		m.sink.Timing("sweeper.duration", d, CloneTags(tags))
	}
	if err == nil {
		m.sink.Gauge("sweeper.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
