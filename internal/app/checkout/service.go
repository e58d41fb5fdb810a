package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/app/message"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrOrderingClosed = errors.New("ordering is currently closed")
)

type Service struct {
	carts        interfaces.CartService
	availability interfaces.AvailabilityService
	catalog      interfaces.CatalogService
	repo         interfaces.OrderRepository
	publisher    interfaces.MessagePublisher
	logger       logger.Logger
}

func NewService(
	carts interfaces.CartService,
	availability interfaces.AvailabilityService,
	catalog interfaces.CatalogService,
	repo interfaces.OrderRepository,
	publisher interfaces.MessagePublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		carts:        carts,
		availability: availability,
		catalog:      catalog,
		repo:         repo,
		publisher:    publisher,
		logger:       logger,
	}
}

// PlaceOrder turns the session cart into a pending order and returns the
// message handed to the restaurant. Prices and availability come from the
// catalog, never from the cart. Only the ordered lines leave the cart, and
// only once the order is stored.
func (s *Service) PlaceOrder(ctx context.Context, cmd interfaces.CheckoutCommand) (*interfaces.CheckoutResult, error) {
	log := map[string]interface{}{"session": cmd.SessionKey}

	// 1. Корзина и доступность
	cart := s.carts.Snapshot(ctx, cmd.SessionKey)
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	if status := s.availability.Status(); !status.OrderingEnabled {
		s.logger.Debug("checkout_rejected", "Ordering is closed", cmd.SessionKey, map[string]interface{}{
			"weekday":      status.Weekday,
			"day_enabled":  status.DayEnabled,
			"within_hours": status.WithinHours,
		})
		return nil, ErrOrderingClosed
	}

	settings := s.availability.Settings()
	locations := settings.Locations()

	// 2. Валидация доставки и цен по каталогу
	var problems domain.ValidationErrors
	if err := collect(&problems, cmd.Delivery.Validate(locations)); err != nil {
		return nil, err
	}

	lines, err := s.catalog.Reprice(ctx, cart.Lines)
	if err := collect(&problems, err); err != nil {
		s.logger.Error("catalog_lookup_failed", "Failed to reprice cart", cmd.SessionKey, log, err)
		return nil, err
	}

	if len(problems) > 0 {
		s.logger.Debug("validation_failed", "Checkout validation failed", cmd.SessionKey, map[string]interface{}{
			"errors": len(problems),
		})
		return nil, problems
	}

	total, count := decimal.Zero, 0
	for _, line := range lines {
		total = total.Add(line.Subtotal())
		count += line.Quantity
	}

	locale := message.NegotiateLocale(cmd.Locale)

	order, err := domain.NewOrder(cmd.SessionKey, lines, cmd.Delivery, locale)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	order.CustomerName = cmd.CustomerName
	order.CustomerEmail = cmd.CustomerEmail
	order.TotalPrice = total

	// 3. Сообщение для WhatsApp
	order.Message = message.Format(message.Order{
		Items:     formatterItems(lines),
		Delivery:  cmd.Delivery,
		Customer:  message.Customer{Name: cmd.CustomerName, Email: cmd.CustomerEmail},
		Total:     total,
		Locale:    locale,
		Locations: locations,
	}, message.ResolveName)

	phone := settings.WhatsAppPhone
	if phone == "" {
		phone = domain.DefaultWhatsAppPhone
	}
	link := message.WhatsAppURL(phone, order.Message)

	// 4. Сохранение в БД
	number, err := s.repo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}
	order.Number = number

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", cmd.SessionKey, log, err)
		return nil, err
	}
	s.logger.Info("order_placed", "Order placed", cmd.SessionKey, map[string]interface{}{
		"order_number": order.Number,
		"total":        order.TotalPrice.StringFixed(2),
		"locale":       locale,
	})

	// 5. Публикация; ошибка не отменяет заказ
	if err := s.publisher.PublishOrderPlaced(ctx, placedMessage(order, link)); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish placed order", cmd.SessionKey, map[string]interface{}{
			"order_number": order.Number,
		}, err)
	}

	s.carts.RemoveOrdered(ctx, cmd.SessionKey, cart.Lines)

	return &interfaces.CheckoutResult{
		OrderNumber: order.Number,
		Message:     order.Message,
		WhatsAppURL: link,
		TotalPrice:  order.TotalPrice,
		ItemCount:   count,
	}, nil
}

// collect appends validation errors to problems and returns any other error
func collect(problems *domain.ValidationErrors, err error) error {
	if err == nil {
		return nil
	}
	var errs domain.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	*problems = append(*problems, errs...)
	return nil
}

func formatterItems(lines []domain.CartLine) []message.Item {
	items := make([]message.Item, len(lines))
	for i, line := range lines {
		items[i] = message.Item{
			Product:       line.Product,
			Quantity:      line.Quantity,
			Customization: line.Customization,
		}
	}
	return items
}

func placedMessage(order *domain.Order, link string) interfaces.OrderPlacedMessage {
	items := make([]interfaces.OrderPlacedItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = interfaces.OrderPlacedItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal.StringFixed(2),
		}
	}

	return interfaces.OrderPlacedMessage{
		OrderNumber:   order.Number,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Locale:        order.Locale,
		Street:        order.Delivery.Street,
		HouseNumber:   order.Delivery.HouseNumber,
		Zone:          order.Delivery.Zone,
		Phone:         order.Delivery.Phone,
		Notes:         order.Delivery.Notes,
		Items:         items,
		TotalPrice:    order.TotalPrice.StringFixed(2),
		Status:        order.Status,
		WhatsAppURL:   link,
		PlacedAt:      order.CreatedAt,
	}
}
