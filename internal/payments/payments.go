// Package payments creates the test-mode Checkout Sessions and PaymentIntents
// behind the guide's live demo.
package payments

import (
	"context"
	errs "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned when no Stripe secret key was provided.
var ErrNotConfigured = errs.New("stripe is not configured")

// Mode selects which Stripe object backs a demo payment.
type Mode string

const (
	ModeHosted        Mode = "hosted"
	ModeEmbedded      Mode = "embedded"
	ModePaymentIntent Mode = "payment_intent"
)

// ParseMode maps request input to a mode. Empty input means hosted; anything
// unrecognised falls through to a PaymentIntent.
func ParseMode(s string) Mode {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", string(ModeHosted):
		return ModeHosted
	case string(ModeEmbedded):
		return ModeEmbedded
	default:
		return ModePaymentIntent
	}
}

// ModeForChoice maps the UI picked in the guide to the matching demo mode.
func ModeForChoice(label string) Mode {
	switch label {
	case "Embedded Checkout":
		return ModeEmbedded
	case "Payment Element":
		return ModePaymentIntent
	default:
		return ModeHosted
	}
}

type CheckoutRequest struct {
	Embedded   bool
	Amount     int64
	Currency   string
	Product    string
	SuccessURL string
	CancelURL  string
	ReturnURL  string
}

type CheckoutSession struct {
	ID           string
	URL          string
	ClientSecret string
}

type IntentRequest struct {
	Amount   int64
	Currency string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway is the slice of the Stripe API the demo needs.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (Intent, error)
}

// Record is one created demo payment. Secrets are never recorded.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Mode      Mode      `json:"mode"`
	StripeID  string    `json:"stripe_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Recorder keeps a log of demo payments.
type Recorder interface {
	Record(ctx context.Context, r Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// NopRecorder drops everything.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Record) error          { return nil }
func (NopRecorder) Recent(context.Context, int) ([]Record, error) { return nil, nil }

// Result is what the caller hands to the customer-facing side.
type Result struct {
	Mode         Mode   `json:"mode"`
	StripeID     string `json:"id"`
	URL          string `json:"url,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

type Options struct {
	Amount   int64
	Currency string
	Product  string
}

type Service struct {
	gw   Gateway
	rec  Recorder
	opts Options
	log  zerolog.Logger
	now  func() time.Time
}

// NewService wires a gateway and a recorder. gw may be nil, in which case
// Create always fails with ErrNotConfigured.
func NewService(gw Gateway, rec Recorder, opts Options, log zerolog.Logger) *Service {
	if rec == nil {
		rec = NopRecorder{}
	}
	if opts.Amount <= 0 {
		opts.Amount = 2000
	}
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	if opts.Product == "" {
		opts.Product = "Stripe Guide Demo Payment"
	}
	return &Service{gw: gw, rec: rec, opts: opts, log: log, now: time.Now}
}

// Enabled reports whether a gateway is configured.
func (s *Service) Enabled() bool { return s.gw != nil }

// Recent lists recorded demo payments, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Record, error) {
	return s.rec.Recent(ctx, limit)
}

// Create makes a demo payment in mode. origin is where Stripe sends the
// customer back to.
func (s *Service) Create(ctx context.Context, mode Mode, origin string) (Result, error) {
	if s.gw == nil {
		return Result{}, ErrNotConfigured
	}
	origin = strings.TrimRight(origin, "/")
	var (
		res Result
		url string
		err error
	)
	switch mode {
	case ModeHosted, ModeEmbedded:
		req := CheckoutRequest{
			Embedded: mode == ModeEmbedded,
			Amount:   s.opts.Amount,
			Currency: s.opts.Currency,
			Product:  s.opts.Product,
		}
		if req.Embedded {
			req.ReturnURL = origin + "?payment=success&session_id={CHECKOUT_SESSION_ID}"
		} else {
			req.SuccessURL = origin + "?payment=success"
			req.CancelURL = origin + "?payment=cancelled"
		}
		var cs CheckoutSession
		cs, err = s.gw.CreateCheckoutSession(ctx, req)
		res = Result{Mode: mode, StripeID: cs.ID}
		if req.Embedded {
			res.ClientSecret = cs.ClientSecret
		} else {
			res.URL = cs.URL
			url = cs.URL
		}
	default:
		mode = ModePaymentIntent
		var pi Intent
		pi, err = s.gw.CreatePaymentIntent(ctx, IntentRequest{Amount: s.opts.Amount, Currency: s.opts.Currency})
		res = Result{Mode: mode, StripeID: pi.ID, ClientSecret: pi.ClientSecret}
	}
	if err != nil {
		paymentsCreated.WithLabelValues(string(mode), "error").Inc()
		s.log.Error().Err(err).Str("mode", string(mode)).Msg("stripe request failed")
		return Result{}, errors.Wrapf(err, "create %s payment", mode)
	}
	paymentsCreated.WithLabelValues(string(mode), "ok").Inc()
	paymentAmount.WithLabelValues(s.opts.Currency).Add(float64(s.opts.Amount))

	rec := Record{
		ID:        uuid.New(),
		Mode:      mode,
		StripeID:  res.StripeID,
		Amount:    s.opts.Amount,
		Currency:  s.opts.Currency,
		URL:       url,
		CreatedAt: s.now().UTC(),
	}
	if err := s.rec.Record(ctx, rec); err != nil {
		// the payment exists at Stripe either way
		s.log.Warn().Err(err).Str("stripe_id", res.StripeID).Msg("demo payment not recorded")
	}
	s.log.Info().Str("mode", string(mode)).Str("stripe_id", res.StripeID).Int64("amount", s.opts.Amount).Msg("demo payment created")
	return res, nil
}
