package order

import (
	"context"
	"fmt"
	"time"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

// Service moves placed orders through their lifecycle
type Service struct {
	repo      interfaces.OrderRepository
	publisher interfaces.MessagePublisher
	logger    logger.Logger
}

func NewService(repo interfaces.OrderRepository, publisher interfaces.MessagePublisher, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.repo.FindByNumber(ctx, orderNumber)
}

func (s *Service) GetOrderHistory(ctx context.Context, orderNumber string) ([]*domain.StatusLog, error) {
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.GetStatusHistory(ctx, order.ID)
}

// UpdateStatus applies a lifecycle transition, records it in the status log
// and broadcasts it
func (s *Service) UpdateStatus(ctx context.Context, orderNumber string, status domain.Status, changedBy string) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrInvalidStatusTransition)
	}

	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if !order.CanTransitionTo(status) {
		s.logger.Debug("status_transition_rejected", "Invalid status transition", "", map[string]interface{}{
			"order_number": orderNumber,
			"from":         oldStatus,
			"to":           status,
		})
		return nil, domain.ErrInvalidStatusTransition
	}

	if err := s.repo.UpdateStatusWithLog(ctx, order, status, changedBy); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to update order status", "", map[string]interface{}{
			"order_number": orderNumber,
		}, err)
		return nil, err
	}

	// Переход уже проверен выше, обновляем модель в памяти
	if err := order.TransitionTo(status, changedBy); err != nil {
		return nil, err
	}

	s.logger.Info("order_status_updated", fmt.Sprintf("Order %s is now %s", orderNumber, status), "", map[string]interface{}{
		"order_number": orderNumber,
		"old_status":   oldStatus,
		"new_status":   status,
		"changed_by":   changedBy,
	})

	s.notifyStatusChange(ctx, order, oldStatus, changedBy)

	return order, nil
}

// CancelOrder cancels a pending or confirmed order
func (s *Service) CancelOrder(ctx context.Context, orderNumber, changedBy string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, orderNumber, domain.StatusCancelled, changedBy)
}

func (s *Service) notifyStatusChange(ctx context.Context, order *domain.Order, oldStatus domain.Status, changedBy string) {
	msg := interfaces.StatusUpdateMessage{
		OrderNumber: order.Number,
		OldStatus:   oldStatus,
		NewStatus:   order.Status,
		ChangedBy:   changedBy,
		Timestamp:   time.Now(),
	}
	if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish status update", "", map[string]interface{}{
			"order_number": order.Number,
		}, err)
	}
}
