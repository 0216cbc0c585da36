// Package websocket owns the persistent coordination channel for one
// authenticated subject. The session dials the coordination endpoint, fans
// inbound envelopes out through the event bus and reconnects on a fixed
// delay when the transport drops.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/uniride/uniride/internal/pkg/constants"
	"github.com/uniride/uniride/internal/pkg/eventbus"
	"github.com/uniride/uniride/internal/pkg/jwt"
	"github.com/uniride/uniride/internal/pkg/logger"
	"github.com/uniride/uniride/internal/pkg/models"
)

// State is the connection lifecycle state, owned exclusively by the session.
type State string

const (
	StateClosed       State = "closed"
	StateConnecting   State = "connecting"
	StateOpen         State = "open"
	StateReconnecting State = "reconnecting"
	StateFailed       State = "failed"
)

// IdentityProvider supplies session credentials for a subject. It is the
// narrow view of the external identity collaborator.
type IdentityProvider interface {
	Credential(ctx context.Context, subjectID string) (*jwt.Credential, error)
}

// Session manages one persistent duplex channel per subject. A subject never
// holds two open transports: establishing a new one tears down the prior one
// first.
type Session struct {
	cfg      models.SessionConfig
	bus      *eventbus.Bus
	identity IdentityProvider
	dialer   *websocket.Dialer

	mu         sync.Mutex
	writeMu    sync.Mutex
	state      State
	subjectID  string
	conn       *websocket.Conn
	attempts   int
	retryTimer *time.Timer
	generation int
}

// NewSession creates a session that publishes its lifecycle and inbound
// messages onto bus.
func NewSession(cfg models.SessionConfig, bus *eventbus.Bus, identity IdentityProvider) *Session {
	return &Session{
		cfg:      cfg,
		bus:      bus,
		identity: identity,
		state:    StateClosed,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}
}

// State returns the current connection state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SubjectID returns the subject the session was connected for
func (s *Session) SubjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjectID
}

// Connect establishes the coordination channel for the subject. Calling it
// while the session is already connecting or open is a no-op. A failed first
// handshake returns the error and leaves the fixed-delay retry loop running.
func (s *Session) Connect(ctx context.Context, subjectID string) error {
	s.mu.Lock()
	if s.state == StateConnecting || s.state == StateOpen {
		s.mu.Unlock()
		return nil
	}
	s.stopRetryTimerLocked()
	s.subjectID = subjectID
	s.state = StateConnecting
	s.attempts = 0
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	return s.dial(ctx, gen)
}

// dial performs one handshake attempt for the given connection generation.
func (s *Session) dial(ctx context.Context, gen int) error {
	s.mu.Lock()
	subjectID := s.subjectID
	s.mu.Unlock()

	cred, err := s.identity.Credential(ctx, subjectID)
	if err == nil {
		err = cred.Valid(time.Now())
	}
	if err != nil {
		err = fmt.Errorf("failed to obtain session credential: %w", err)
		s.transportFailure(gen, err)
		return err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cred.Token)
	endpoint := fmt.Sprintf("%s/%s", s.cfg.EndpointURL, subjectID)

	conn, _, err := s.dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		err = fmt.Errorf("handshake failed: %w", err)
		s.transportFailure(gen, err)
		return err
	}

	s.mu.Lock()
	if s.generation != gen || s.state == StateClosed {
		// Disconnect raced the handshake; the new transport loses.
		s.mu.Unlock()
		conn.Close()
		return nil
	}
	s.conn = conn
	s.state = StateOpen
	s.attempts = 0
	s.mu.Unlock()

	logger.Info("Session connected",
		logger.String("subject_id", subjectID))
	s.bus.Publish(constants.EventConnected, subjectID)

	go s.readLoop(conn, gen)
	return nil
}

// Send writes an envelope to the transport. While the session is not open
// the message is dropped silently: position data is ephemeral and the next
// tick carries fresher state than any buffered sample would.
func (s *Session) Send(env models.Envelope) error {
	s.mu.Lock()
	if s.state != StateOpen || s.conn == nil {
		s.mu.Unlock()
		logger.Debug("Dropping outbound message, session not open",
			logger.String("type", env.Type))
		return nil
	}
	conn := s.conn
	gen := s.generation
	s.mu.Unlock()

	s.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	err := conn.WriteJSON(env)
	s.writeMu.Unlock()

	if err != nil {
		s.transportFailure(gen, fmt.Errorf("write failed: %w", err))
		return fmt.Errorf("failed to send %s message: %w", env.Type, err)
	}
	return nil
}

// Disconnect tears the transport down and cancels any pending reconnect
// attempt. It is idempotent and valid from every state.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.stopRetryTimerLocked()
	s.generation++
	s.state = StateClosed
	conn := s.conn
	s.conn = nil
	subjectID := s.subjectID
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}

	logger.Info("Session closed",
		logger.String("subject_id", subjectID))
	s.bus.Publish(constants.EventDisconnected, subjectID)
}

// readLoop consumes inbound envelopes until the transport errors out.
func (s *Session) readLoop(conn *websocket.Conn, gen int) {
	for {
		var env models.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			s.transportFailure(gen, fmt.Errorf("read failed: %w", err))
			return
		}
		s.route(env)
	}
}

// route publishes a parsed inbound envelope onto the bus. Unknown or
// malformed envelopes are logged and dropped, never fatal to the session.
func (s *Session) route(env models.Envelope) {
	switch env.Type {
	case constants.TypeLocationUpdate:
		var pos models.Position
		if err := json.Unmarshal(env.Data, &pos); err != nil {
			s.dropMalformed(env.Type, err)
			return
		}
		s.bus.Publish(constants.EventLocationUpdate, pos)
	case constants.TypeLocationConfirmed:
		var confirmed models.LocationConfirmed
		if err := json.Unmarshal(env.Data, &confirmed); err != nil {
			s.dropMalformed(env.Type, err)
			return
		}
		s.bus.Publish(constants.EventLocationConfirmed, confirmed)
	case constants.TypeNearbyUsers:
		var nearby models.NearbyUsers
		if err := json.Unmarshal(env.Data, &nearby); err != nil {
			s.dropMalformed(env.Type, err)
			return
		}
		s.bus.Publish(constants.EventNearbyUsers, nearby)
	default:
		logger.Warn("Dropping unknown inbound message type",
			logger.String("type", env.Type))
	}
}

func (s *Session) dropMalformed(msgType string, err error) {
	logger.Warn("Dropping malformed inbound message",
		logger.String("type", msgType),
		logger.Err(err))
}

// transportFailure handles a dropped or failed transport for the given
// generation. Stale generations (explicit disconnect or a newer connect)
// are ignored.
func (s *Session) transportFailure(gen int, cause error) {
	s.mu.Lock()
	// A reader and a writer can observe the same dead transport; the first
	// report wins, the second finds the state already Reconnecting.
	if s.generation != gen || s.state == StateClosed || s.state == StateFailed || s.state == StateReconnecting {
		s.mu.Unlock()
		return
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	subjectID := s.subjectID
	wasOpen := s.state == StateOpen

	if s.attempts >= s.cfg.MaxReconnects {
		s.state = StateFailed
		s.mu.Unlock()

		logger.Error("Session reconnect attempts exhausted",
			logger.String("subject_id", subjectID),
			logger.Int("attempts", s.cfg.MaxReconnects),
			logger.Err(cause))
		s.bus.Publish(constants.EventSessionError, cause)
		s.bus.Publish(constants.EventReconnectFailed, subjectID)
		return
	}

	s.attempts++
	attempt := s.attempts
	s.state = StateReconnecting
	s.retryTimer = time.AfterFunc(s.cfg.ReconnectDelay, func() {
		s.retry(gen)
	})
	s.mu.Unlock()

	logger.Warn("Session transport lost, reconnect scheduled",
		logger.String("subject_id", subjectID),
		logger.Int("attempt", attempt),
		logger.Duration("delay", s.cfg.ReconnectDelay),
		logger.Err(cause))
	s.bus.Publish(constants.EventSessionError, cause)
	if wasOpen {
		s.bus.Publish(constants.EventDisconnected, subjectID)
	}
}

// retry performs one scheduled reconnect attempt.
func (s *Session) retry(gen int) {
	s.mu.Lock()
	if s.generation != gen || s.state != StateReconnecting {
		s.mu.Unlock()
		return
	}
	s.state = StateConnecting
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HandshakeTimeout)
	defer cancel()
	s.dial(ctx, gen)
}

func (s *Session) stopRetryTimerLocked() {
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
}
