package orders

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/logger"
	"eventhub/internal/models"
	"eventhub/internal/pagination"

	"github.com/google/uuid"
)

type DBLayer interface {
	CreateOrder(order models.Order) error
	GetOrderByID(id string) (*models.Order, error)
	GetOrderByStripeID(stripeID string) (*models.Order, error)
	ListOrdersByEvent(eventID, buyerSearch string) ([]models.OrderItem, error)
	ListOrdersByBuyer(buyerID string, limit, offset int) ([]models.Order, int, error)
	HasOrder(eventID, buyerID string) (bool, error)
}

type Publisher interface {
	Publish(topic string, key string, value []byte) error
}

type TicketRenderer interface {
	TicketQR(order models.Order) ([]byte, error)
}

type Service struct {
	DB       DBLayer
	Producer Publisher
	Topic    string
	QR       TicketRenderer
	Logger   *logger.Logger
}

func NewService(db DBLayer, producer Publisher, topic string, qr TicketRenderer, log *logger.Logger) *Service {
	return &Service{DB: db, Producer: producer, Topic: topic, QR: qr, Logger: log}
}

// CreateOrder records a completed checkout. Keyed by the Stripe session
// id, so a redelivered webhook returns the existing order instead of
// inserting twice.
func (s *Service) CreateOrder(stripeID, eventID, buyerID string, amountCents int64) (*models.Order, error) {
	if stripeID == "" || eventID == "" || buyerID == "" {
		return nil, errors.New("stripe_id, event_id and buyer_id are required")
	}

	existing, err := s.DB.GetOrderByStripeID(stripeID)
	if err == nil {
		s.Logger.Info("ORDER", fmt.Sprintf("Order for session %s already recorded as %s", stripeID, existing.ID))
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check session %s: %w", stripeID, err)
	}

	order := models.Order{
		ID:          uuid.NewString(),
		StripeID:    stripeID,
		EventID:     eventID,
		BuyerID:     buyerID,
		AmountCents: amountCents,
		CreatedAt:   time.Now(),
	}

	if err := s.DB.CreateOrder(order); err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("Failed to create order for session %s: %v", stripeID, err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publish(order)
	s.Logger.Info("ORDER", fmt.Sprintf("Created order %s for event %s", order.ID, eventID))
	return &order, nil
}

func (s *Service) GetOrdersByEvent(eventID, buyerSearch string) ([]models.OrderItem, error) {
	items, err := s.DB.ListOrdersByEvent(eventID, buyerSearch)
	if err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("Failed to list orders for event %s: %v", eventID, err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return items, nil
}

func (s *Service) GetOrdersByUser(userID string, p pagination.Params) (*models.OrderPage, error) {
	orders, count, err := s.DB.ListOrdersByBuyer(userID, p.Limit, p.Offset())
	if err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("Failed to list orders for user %s: %v", userID, err))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &models.OrderPage{
		Data:       orders,
		TotalPages: pagination.TotalPages(count, p.Limit),
	}, nil
}

func (s *Service) HasOrder(eventID, buyerID string) (bool, error) {
	return s.DB.HasOrder(eventID, buyerID)
}

// TicketQR renders the order's ticket as a PNG QR code.
func (s *Service) TicketQR(orderID string) ([]byte, error) {
	order, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s not found: %w", orderID, err)
	}
	return s.QR.TicketQR(*order)
}

func (s *Service) publish(order models.Order) {
	if s.Producer == nil {
		return
	}
	value, err := json.Marshal(order)
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to marshal order %s: %v", order.ID, err))
		return
	}
	if err := s.Producer.Publish(s.Topic, order.ID, value); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish to %s: %v", s.Topic, err))
	}
}
