package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"printflow/configurator"
	"printflow/metrics"
)

// Wizard session modes, also used as the mode label of metrics.DesignsSaved.
const (
	modeNew     = "new"
	modeEdit    = "edit"
	modeReorder = "reorder"
)

// wizardSession is one open configurator modal. The wizard guards its own state;
// mu guards the rest.
type wizardSession struct {
	id     string
	mode   string
	source string // code of the edited or copied design
	wizard *configurator.Wizard

	mu      sync.Mutex
	touched bool
	warning string
	saved   *configurator.Draft
	expires time.Time
}

func (s *wizardSession) markTouched() {
	s.mu.Lock()
	s.touched = true
	s.mu.Unlock()
}

func (s *wizardSession) setWarning(msg string) {
	s.mu.Lock()
	s.warning = msg
	s.mu.Unlock()
}

// reset hides validation errors until the next edit and replaces the warning.
func (s *wizardSession) reset(warning string) {
	s.mu.Lock()
	s.touched = false
	s.warning = warning
	s.mu.Unlock()
}

func (s *wizardSession) state() (touched bool, warning string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched, s.warning
}

// takeSaved returns the draft handed over by the wizard's OnSave, once.
func (s *wizardSession) takeSaved() (configurator.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return configurator.Draft{}, false
	}
	d := *s.saved
	s.saved = nil
	return d, true
}

// WizardSessions keeps open wizards between requests. Idle sessions expire after
// the TTL and are pruned lazily.
type WizardSessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*wizardSession
	logger   *zap.Logger
}

// NewWizardSessions returns an empty store.
func NewWizardSessions(ttl time.Duration, logger *zap.Logger) *WizardSessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardSessions{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*wizardSession),
		logger:   logger.Named("sessions"),
	}
}

func (s *WizardSessions) add(ws *wizardSession) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	ws.id = uuid.NewString()
	ws.expires = s.now().Add(s.ttl)
	s.sessions[ws.id] = ws
	metrics.WizardSessionsActive.Set(float64(len(s.sessions)))
	s.logger.Debug("session opened", zap.String("session_id", ws.id), zap.String("mode", ws.mode))
	return ws.id
}

// get returns a live session and extends its expiry.
func (s *WizardSessions) get(id string) (*wizardSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	ws, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	ws.expires = s.now().Add(s.ttl)
	return ws, true
}

func (s *WizardSessions) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	metrics.WizardSessionsActive.Set(float64(len(s.sessions)))
}

// Len returns the number of live sessions.
func (s *WizardSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return len(s.sessions)
}

func (s *WizardSessions) pruneLocked() {
	now := s.now()
	pruned := 0
	for id, ws := range s.sessions {
		if now.After(ws.expires) {
			delete(s.sessions, id)
			pruned++
		}
	}
	if pruned > 0 {
		metrics.WizardSessionsActive.Set(float64(len(s.sessions)))
		s.logger.Debug("expired sessions pruned", zap.Int("count", pruned))
	}
}
