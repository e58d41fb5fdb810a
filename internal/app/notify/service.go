package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

const defaultCompanyName = "Carta"

// Service turns order notifications into emails: a confirmation for the
// customer and a copy for the company on every new order, and a company
// notice when an order is cancelled.
type Service struct {
	mailer       interfaces.Mailer
	orders       interfaces.OrderRepository
	settings     interfaces.SettingsProvider
	companyEmail string
	logger       logger.Logger
}

// NewService builds the mailer. settings may be nil, in which case
// companyEmail is the only company address; orders may be nil, which turns
// off cancellation emails.
func NewService(
	mailer interfaces.Mailer,
	orders interfaces.OrderRepository,
	settings interfaces.SettingsProvider,
	companyEmail string,
	logger logger.Logger,
) *Service {
	return &Service{
		mailer:       mailer,
		orders:       orders,
		settings:     settings,
		companyEmail: companyEmail,
		logger:       logger,
	}
}

func (s *Service) HandleNotification(ctx context.Context, body []byte) error {
	var n interfaces.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	switch {
	case n.Type == interfaces.NotificationOrderPlaced && n.OrderPlaced != nil:
		return s.orderPlaced(ctx, *n.OrderPlaced)
	case n.Type == interfaces.NotificationStatusUpdate && n.StatusUpdate != nil:
		if n.StatusUpdate.NewStatus != domain.StatusCancelled {
			return nil
		}
		return s.orderCancelled(ctx, *n.StatusUpdate)
	}
	return nil
}

func (s *Service) orderPlaced(ctx context.Context, msg interfaces.OrderPlacedMessage) error {
	company := s.company(ctx)

	items := make([]emailItem, len(msg.Items))
	for i, item := range msg.Items {
		items[i] = emailItem{Name: item.Name, Quantity: item.Quantity, Subtotal: item.Subtotal}
	}
	data := emailData{
		Spanish:     msg.Locale != "en",
		Company:     company.name,
		OrderNumber: msg.OrderNumber,
		Customer:    msg.CustomerName,
		Email:       msg.CustomerEmail,
		Street:      msg.Street,
		HouseNumber: msg.HouseNumber,
		Zone:        domain.ZoneDisplayName(msg.Zone, company.locations),
		Phone:       msg.Phone,
		Notes:       msg.Notes,
		Items:       items,
		Total:       msg.TotalPrice,
	}

	var errs []error

	// Письма клиенту и компании отправляются независимо
	if msg.CustomerEmail != "" {
		subject := fmt.Sprintf("✓ Pedido Confirmado #%s - %s", msg.OrderNumber, company.name)
		if !data.Spanish {
			subject = fmt.Sprintf("✓ Order Confirmed #%s - %s", msg.OrderNumber, company.name)
		}
		errs = append(errs, s.send(ctx, "customer", customerTemplate, data, interfaces.Email{
			ToAddress: msg.CustomerEmail,
			ToName:    msg.CustomerName,
			Subject:   subject,
		}))
	}

	if company.address != "" {
		errs = append(errs, s.send(ctx, "company", companyTemplate, data, interfaces.Email{
			ToAddress: company.address,
			ToName:    company.name,
			Subject:   fmt.Sprintf("🔔 Nuevo Pedido #%s - %s", msg.OrderNumber, msg.CustomerName),
		}))
	}

	return errors.Join(errs...)
}

func (s *Service) orderCancelled(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	company := s.company(ctx)
	if s.orders == nil || company.address == "" {
		return nil
	}

	order, err := s.orders.FindByNumber(ctx, msg.OrderNumber)
	if err != nil {
		return fmt.Errorf("failed to load cancelled order %s: %w", msg.OrderNumber, err)
	}

	items := make([]emailItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = emailItem{Name: item.ProductName, Quantity: item.Quantity, Subtotal: item.Subtotal.StringFixed(2)}
	}

	return s.send(ctx, "cancellation", cancellationTemplate, emailData{
		Spanish:     true,
		Company:     company.name,
		OrderNumber: order.Number,
		Customer:    order.CustomerName,
		Email:       order.CustomerEmail,
		Street:      order.Delivery.Street,
		HouseNumber: order.Delivery.HouseNumber,
		Zone:        domain.ZoneDisplayName(order.Delivery.Zone, company.locations),
		Phone:       order.Delivery.Phone,
		Items:       items,
		Total:       order.TotalPrice.StringFixed(2),
	}, interfaces.Email{
		ToAddress: company.address,
		ToName:    company.name,
		Subject:   fmt.Sprintf("❌ Pedido Cancelado #%s - %s", order.Number, order.CustomerName),
	})
}

type companyInfo struct {
	name      string
	address   string
	locations []domain.DeliveryLocation
}

// company resolves the company name, address and zones from the current
// settings, falling back to the configured address
func (s *Service) company(ctx context.Context) companyInfo {
	info := companyInfo{name: defaultCompanyName, address: s.companyEmail}
	if s.settings == nil {
		return info
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		s.logger.Error("settings_fetch_failed", "Using configured company email", "", nil, err)
		return info
	}
	if settings.Name != "" {
		info.name = settings.Name
	}
	if settings.Email != "" {
		info.address = settings.Email
	}
	info.locations = settings.DeliveryLocations
	return info
}

func (s *Service) send(ctx context.Context, kind string, tmpl *template.Template, data emailData, email interfaces.Email) error {
	var html strings.Builder
	if err := tmpl.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render %s email: %w", kind, err)
	}
	email.HTML = html.String()

	if err := s.mailer.Send(ctx, email); err != nil {
		s.logger.Error("email_send_failed", fmt.Sprintf("Failed to send %s email", kind), data.OrderNumber, map[string]interface{}{
			"order_number": data.OrderNumber,
		}, err)
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	s.logger.Info("email_sent", fmt.Sprintf("Sent %s email", kind), data.OrderNumber, map[string]interface{}{
		"order_number": data.OrderNumber,
		"kind":         kind,
	})
	return nil
}
