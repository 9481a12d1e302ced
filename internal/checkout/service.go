package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"eventhub/internal/config"
	"eventhub/internal/logger"
	"eventhub/internal/models"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Lookup failures are client errors and mapped to client status codes;
// everything else from session creation is treated as a Stripe-side
// failure.
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrBuyerNotFound    = errors.New("buyer not found")
	ErrAlreadyPurchased = errors.New("ticket already purchased for this event")
)

type EventGetter interface {
	GetEvent(id string) (*models.Event, error)
}

type OrderStore interface {
	CreateOrder(stripeID, eventID, buyerID string, amountCents int64) (*models.Order, error)
	HasOrder(eventID, buyerID string) (bool, error)
}

type BuyerResolver interface {
	GetUserByAuthID(authID string) (*models.User, error)
}

// Service drives the hosted-checkout flow: it creates Stripe Checkout
// Sessions and records orders when the webhook confirms payment.
type Service struct {
	Events EventGetter
	Orders OrderStore
	Users  BuyerResolver
	Config config.StripeConfig
	Logger *logger.Logger
}

func NewService(events EventGetter, orders OrderStore, users BuyerResolver, cfg config.StripeConfig, log *logger.Logger) *Service {
	stripe.Key = cfg.SecretKey
	return &Service{
		Events: events,
		Orders: orders,
		Users:  users,
		Config: cfg,
		Logger: log,
	}
}

// CreateSession builds the hosted session for one ticket of the event and
// returns its redirect URL. Stripe errors are passed through unchanged.
func (s *Service) CreateSession(eventID, buyerAuthID string) (*models.CheckoutResponse, error) {
	event, err := s.Events.GetEvent(eventID)
	if err != nil {
		s.Logger.Warn("CHECKOUT", fmt.Sprintf("Checkout for unknown event %s: %v", eventID, err))
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}

	buyer, err := s.Users.GetUserByAuthID(buyerAuthID)
	if err != nil {
		s.Logger.Warn("CHECKOUT", fmt.Sprintf("Checkout for unknown buyer subject %s: %v", buyerAuthID, err))
		return nil, fmt.Errorf("%w: no user for subject %s", ErrBuyerNotFound, buyerAuthID)
	}

	has, err := s.Orders.HasOrder(event.ID, buyer.ID)
	if err != nil {
		s.Logger.Error("CHECKOUT", fmt.Sprintf("Failed to check existing orders for event %s, buyer %s: %v", event.ID, buyer.ID, err))
		return nil, fmt.Errorf("failed to check existing orders: %w", err)
	}
	if has {
		return nil, ErrAlreadyPurchased
	}

	amount := event.PriceCents
	if event.IsFree {
		amount = 0
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.Config.Currency),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(event.Title),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.Config.SuccessURL),
		CancelURL:  stripe.String(s.Config.CancelURL),
	}
	params.AddMetadata("event_id", event.ID)
	params.AddMetadata("buyer_id", buyer.ID)

	sess, err := session.New(params)
	if err != nil {
		s.Logger.Error("CHECKOUT", fmt.Sprintf("Failed to create checkout session for event %s: %v", eventID, err))
		return nil, err
	}

	s.Logger.LogCheckout("SESSION", sess.ID, fmt.Sprintf("Created for event %s, buyer %s", event.ID, buyer.ID))
	return &models.CheckoutResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

// WebhookError classifies a webhook failure so the handler can pick the
// right status code without leaking internals to Stripe.
type WebhookError struct {
	Category      string // "configuration", "validation", "processing"
	StatusCode    int
	PublicError   string
	InternalError string
	OriginalErr   error
}

func (e *WebhookError) Error() string {
	return e.InternalError
}

// HandleWebhook verifies the Stripe signature and records an order when a
// checkout session completes.
func (s *Service) HandleWebhook(r *http.Request) error {
	if s.Config.WebhookSecret == "" {
		s.Logger.Error("WEBHOOK", "Stripe webhook secret is not configured")
		return &WebhookError{
			Category:      "configuration",
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Webhook processing error",
			InternalError: "Stripe webhook secret is not configured",
		}
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.Logger.Error("WEBHOOK", fmt.Sprintf("Failed to read webhook payload: %v", err))
		return &WebhookError{
			Category:      "validation",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid webhook payload",
			InternalError: fmt.Sprintf("Failed to read webhook payload: %v", err),
			OriginalErr:   err,
		}
	}

	opts := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}

	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), s.Config.WebhookSecret, opts)
	if err != nil {
		s.Logger.Error("WEBHOOK", fmt.Sprintf("Webhook signature verification failed: %v", err))
		return &WebhookError{
			Category:      "validation",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid webhook signature",
			InternalError: fmt.Sprintf("Webhook signature verification failed: %v", err),
			OriginalErr:   err,
		}
	}

	return s.HandleEvent(event)
}

// HandleEvent dispatches a verified Stripe event.
func (s *Service) HandleEvent(event stripe.Event) error {
	s.Logger.Info("WEBHOOK", fmt.Sprintf("Processing Stripe webhook event: %s", event.Type))

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			s.Logger.Error("WEBHOOK", fmt.Sprintf("Failed to unmarshal checkout session: %v", err))
			return &WebhookError{
				Category:      "processing",
				StatusCode:    http.StatusBadRequest,
				PublicError:   "Invalid event data",
				InternalError: fmt.Sprintf("Failed to unmarshal checkout session: %v", err),
				OriginalErr:   err,
			}
		}

		eventID := sess.Metadata["event_id"]
		buyerID := sess.Metadata["buyer_id"]
		if eventID == "" || buyerID == "" {
			s.Logger.Error("WEBHOOK", "Checkout session has no event_id/buyer_id in metadata")
			return &WebhookError{
				Category:      "processing",
				StatusCode:    http.StatusBadRequest,
				PublicError:   "Invalid checkout session data",
				InternalError: "Checkout session has no event_id/buyer_id in metadata",
			}
		}

		order, err := s.Orders.CreateOrder(sess.ID, eventID, buyerID, sess.AmountTotal)
		if err != nil {
			s.Logger.Error("WEBHOOK", fmt.Sprintf("Failed to record order for session %s: %v", sess.ID, err))
			return &WebhookError{
				Category:      "processing",
				StatusCode:    http.StatusInternalServerError,
				PublicError:   "Failed to record order",
				InternalError: fmt.Sprintf("Failed to record order for session %s: %v", sess.ID, err),
				OriginalErr:   err,
			}
		}

		s.Logger.Info("WEBHOOK", fmt.Sprintf("Recorded order %s for session %s", order.ID, sess.ID))

	default:
		s.Logger.Info("WEBHOOK", fmt.Sprintf("Unhandled event type: %s", event.Type))
	}

	return nil
}
