package state

import (
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
)

// TopicAlertsChanged receives the active []Alert whenever one is added or removed
const TopicAlertsChanged = "alerts:changed"

// DefaultAlertTimeout is how long an alert stays visible when no timeout is given
const DefaultAlertTimeout = 5 * time.Second

type AlertKind string

const (
	AlertDanger  AlertKind = "danger"
	AlertSuccess AlertKind = "success"
	AlertInfo    AlertKind = "info"
)

type Alert struct {
	ID        string
	Msg       string
	Kind      AlertKind
	ExpiresAt time.Time
}

// AlertStore keeps transient notifications. Expired alerts are dropped on read.
type AlertStore struct {
	mu     sync.Mutex
	alerts []Alert
	bus    evbus.Bus
	now    func() time.Time
}

func NewAlertStore(bus evbus.Bus) *AlertStore {
	return &AlertStore{bus: bus, now: time.Now}
}

// SetAlert shows msg for timeout (DefaultAlertTimeout when zero) and returns the alert ID.
// An identical message already on screen keeps its ID and gets a fresh deadline.
func (s *AlertStore) SetAlert(msg string, kind AlertKind, timeout time.Duration) string {
	if timeout <= 0 {
		timeout = DefaultAlertTimeout
	}

	s.mu.Lock()
	s.pruneLocked()
	for i, a := range s.alerts {
		if a.Msg == msg && a.Kind == kind {
			s.alerts[i].ExpiresAt = s.now().Add(timeout)
			active := s.copyLocked()
			s.mu.Unlock()

			s.publish(active)
			return a.ID
		}
	}
	alert := Alert{ID: uuid.NewString(), Msg: msg, Kind: kind, ExpiresAt: s.now().Add(timeout)}
	s.alerts = append(s.alerts, alert)
	active := s.copyLocked()
	s.mu.Unlock()

	s.publish(active)
	return alert.ID
}

// Remove drops an alert before it expires
func (s *AlertStore) Remove(id string) {
	s.mu.Lock()
	kept := s.alerts[:0]
	for _, a := range s.alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.alerts = kept
	active := s.copyLocked()
	s.mu.Unlock()

	s.publish(active)
}

// Active returns the alerts that have not expired, oldest first
func (s *AlertStore) Active() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return s.copyLocked()
}

func (s *AlertStore) pruneLocked() {
	now := s.now()
	kept := s.alerts[:0]
	for _, a := range s.alerts {
		if now.Before(a.ExpiresAt) {
			kept = append(kept, a)
		}
	}
	s.alerts = kept
}

func (s *AlertStore) copyLocked() []Alert {
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *AlertStore) publish(active []Alert) {
	if s.bus != nil {
		s.bus.Publish(TopicAlertsChanged, active)
	}
}
