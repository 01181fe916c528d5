// Package pairing is the origin side of a device pairing: it forwards
// signature requests over a websocket relay to a paired device.
package pairing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github/frak-labs/go-smart-wallet/internal/account/backend"
	"github/frak-labs/go-smart-wallet/internal/metrics"
	"github/frak-labs/go-smart-wallet/internal/util"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusPaired     Status = "paired"
)

const (
	resultResponse = "response"
	resultRejected = "rejected"
	resultExpired  = "expired"
	resultClosed   = "closed"
)

type Config struct {
	URL            string
	PingInterval   time.Duration
	MaxMissedPongs int
	Header         http.Header
}

// State is a snapshot of the pairing.
type State struct {
	Status          Status
	PartnerDevice   string
	PairingID       string
	PairingCode     string
	PendingRequests int
}

type result struct {
	signature []byte
	err       error
}

// session is one relay connection and the requests sent over it.
type session struct {
	conn        *websocket.Conn
	pending     map[string]chan result
	missedPongs int
	stop        chan struct{}
	stopOnce    sync.Once

	writeMu sync.Mutex
}

func (s *session) shutdown() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.conn.Close()
	})
}

type Client struct {
	config  Config
	dialer  *websocket.Dialer
	metrics *metrics.Service

	mu      sync.Mutex
	session *session
	state   State
}

var _ backend.PairingClient = (*Client)(nil)

func NewClient(config Config, m *metrics.Service) *Client {
	return &Client{
		config:  config,
		dialer:  websocket.DefaultDialer,
		metrics: m,
		state:   State{Status: StatusIdle},
	}
}

// InitiatePairing opens a new pairing, the relay answers with a pairing code.
func (c *Client) InitiatePairing(ctx context.Context) error {
	return c.Connect(ctx, url.Values{"action": []string{"initiate"}})
}

// Reconnect reopens every pairing of the wallet authenticated by token.
func (c *Client) Reconnect(ctx context.Context, token string) error {
	return c.Connect(ctx, url.Values{"wallet": []string{token}})
}

// Connect dials the relay, replacing any existing connection.
func (c *Client) Connect(ctx context.Context, params url.Values) error {
	target, err := url.Parse(c.config.URL)
	if err != nil {
		return errors.Wrap(err, "invalid pairing url")
	}

	query := target.Query()
	for k, v := range params {
		query[k] = v
	}
	target.RawQuery = query.Encode()

	conn, resp, err := c.dialer.DialContext(ctx, target.String(), c.config.Header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return errors.Wrap(err, "failed to connect to pairing relay")
	}

	sess := &session{
		conn:    conn,
		pending: make(map[string]chan result),
		stop:    make(chan struct{}),
	}

	c.mu.Lock()
	previous := c.session
	c.session = sess
	c.state.Status = StatusConnecting
	c.mu.Unlock()

	if previous != nil {
		previous.shutdown()
	}

	log := util.LogFromContext(ctx).With().Str("component", "pairing").Logger()
	log.Debug().Str("url", target.Redacted()).Msg("Pairing connection established")

	go c.readLoop(sess, log)

	if c.config.PingInterval > 0 {
		go c.pingLoop(sess)
	}

	return nil
}

// SendSignatureRequest implements backend.PairingClient.
func (c *Client) SendSignatureRequest(ctx context.Context, hash common.Hash) ([]byte, error) {
	return c.Request(ctx, hash.Bytes(), nil)
}

// Request sends payload to the paired device and blocks until it answers,
// the connection drops or ctx is done. There is no other timeout.
func (c *Client) Request(ctx context.Context, payload []byte, requestContext interface{}) ([]byte, error) {
	id := uuid.NewString()
	ch := make(chan result, 1)

	c.mu.Lock()
	sess := c.session
	if sess == nil {
		c.mu.Unlock()
		c.metrics.ObservePairingRequest(resultClosed)

		return nil, ErrNotConnected
	}
	sess.pending[id] = ch
	c.mu.Unlock()

	err := c.send(sess, typeSignatureRequest, signatureRequest{ID: id, Request: payload, Context: requestContext})
	if err != nil {
		c.forget(sess, id)
		c.metrics.ObservePairingRequest(resultClosed)

		return nil, errors.Wrap(ErrConnectionClosed, err.Error())
	}

	select {
	case res := <-ch:
		c.metrics.ObservePairingRequest(outcome(res.err))
		return res.signature, res.err
	case <-ctx.Done():
		c.forget(sess, id)
		c.metrics.ObservePairingRequest(resultExpired)

		return nil, errors.Wrap(ErrRequestExpired, ctx.Err().Error())
	}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if c.session != nil {
		s.PendingRequests = len(c.session.pending)
	}

	return s
}

// Close drops the connection and fails every pending request.
func (c *Client) Close() error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	if sess != nil {
		sess.shutdown()
	}

	return nil
}

func (c *Client) readLoop(sess *session, log zerolog.Logger) {
	defer c.closed(sess)

	for {
		var msg envelope
		if err := sess.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("Pairing connection lost")
			}

			return
		}

		c.handle(sess, msg, log)
	}
}

func (c *Client) handle(sess *session, msg envelope, log zerolog.Logger) {
	switch msg.Type {
	case typePairingInitiated:
		var p pairingInitiated
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Warn().Err(err).Msg("Malformed pairing-initiated message")
			return
		}

		c.mu.Lock()
		c.state.Status = StatusConnecting
		c.state.PairingID = p.PairingID
		c.state.PairingCode = p.PairingCode
		c.mu.Unlock()
	case typePartnerConnected:
		var p partnerConnected
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Warn().Err(err).Msg("Malformed partner-connected message")
			return
		}

		c.mu.Lock()
		c.state.Status = StatusPaired
		c.state.PartnerDevice = p.DeviceName
		c.mu.Unlock()
	case typePong:
		c.mu.Lock()
		sess.missedPongs = 0
		c.state.Status = StatusPaired
		c.mu.Unlock()
	case typeSignatureResponse:
		var p signatureResponse
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Warn().Err(err).Msg("Malformed signature-response message")
			return
		}

		c.complete(sess, p.ID, result{signature: p.Signature})
	case typeSignatureReject:
		var p signatureReject
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Warn().Err(err).Msg("Malformed signature-reject message")
			return
		}

		c.complete(sess, p.ID, result{err: &RejectedError{Reason: p.Reason}})
	default:
		log.Debug().Str("type", msg.Type).Msg("Ignoring pairing message")
	}
}

// pingLoop sends an application ping every interval and drops the
// connection once more than MaxMissedPongs are unanswered.
func (c *Client) pingLoop(sess *session) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sess.stop:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		missed := sess.missedPongs
		sess.missedPongs++
		c.mu.Unlock()

		if missed > c.config.MaxMissedPongs {
			sess.shutdown()
			return
		}

		if err := c.send(sess, typePing, nil); err != nil {
			return
		}
	}
}

func (c *Client) send(sess *session, msgType string, payload interface{}) error {
	msg := envelope{Type: msgType}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed to encode pairing message")
		}
		msg.Payload = raw
	}

	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()

	return sess.conn.WriteJSON(msg)
}

func (c *Client) complete(sess *session, id string, res result) {
	c.mu.Lock()
	ch, ok := sess.pending[id]
	delete(sess.pending, id)
	c.mu.Unlock()

	if ok {
		ch <- res
	}
}

func (c *Client) forget(sess *session, id string) {
	c.mu.Lock()
	delete(sess.pending, id)
	c.mu.Unlock()
}

// closed fails the requests of sess. The client goes back to idle unless a
// newer session replaced it.
func (c *Client) closed(sess *session) {
	sess.shutdown()

	c.mu.Lock()
	if c.session == sess {
		c.session = nil
		c.state.Status = StatusIdle
	}
	pending := sess.pending
	sess.pending = make(map[string]chan result)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- result{err: ErrConnectionClosed}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return resultResponse
	case errors.Is(err, ErrRequestRejected):
		return resultRejected
	default:
		return resultClosed
	}
}
