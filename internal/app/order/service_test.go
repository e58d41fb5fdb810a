package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/carta/internal/adapter/logger"
	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

type fakeRepo struct {
	orders    map[string]*domain.Order
	history   map[int][]*domain.StatusLog
	updateErr error
}

func newFakeRepo(orders ...*domain.Order) *fakeRepo {
	r := &fakeRepo{orders: map[string]*domain.Order{}, history: map[int][]*domain.StatusLog{}}
	for _, o := range orders {
		r.orders[o.Number] = o
		r.history[o.ID] = []*domain.StatusLog{{OrderID: o.ID, Status: o.Status, ChangedBy: "customer"}}
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, order *domain.Order) error { return nil }

func (r *fakeRepo) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	o, ok := r.orders[number]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeRepo) GenerateOrderNumber(ctx context.Context) (string, error) { return "", nil }

func (r *fakeRepo) UpdateStatusWithLog(ctx context.Context, order *domain.Order, status domain.Status, changedBy string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.orders[order.Number].Status = status
	r.history[order.ID] = append(r.history[order.ID], &domain.StatusLog{
		OrderID:   order.ID,
		Status:    status,
		ChangedBy: changedBy,
		ChangedAt: time.Now(),
	})
	return nil
}

func (r *fakeRepo) GetStatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error) {
	return r.history[orderID], nil
}

type fakePublisher struct {
	updates []interfaces.StatusUpdateMessage
	err     error
}

func (p *fakePublisher) PublishOrderPlaced(ctx context.Context, msg interfaces.OrderPlacedMessage) error {
	return nil
}

func (p *fakePublisher) PublishStatusUpdate(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	p.updates = append(p.updates, msg)
	return p.err
}

func pendingOrder() *domain.Order {
	return &domain.Order{ID: 7, Number: "ORD_20240115_001", Status: domain.StatusPending}
}

func setup(orders ...*domain.Order) (*Service, *fakeRepo, *fakePublisher) {
	repo := newFakeRepo(orders...)
	publisher := &fakePublisher{}
	return NewService(repo, publisher, logger.Discard()), repo, publisher
}

func TestUpdateStatusLifecycle(t *testing.T) {
	svc, repo, publisher := setup(pendingOrder())
	ctx := context.Background()

	order, err := svc.UpdateStatus(ctx, "ORD_20240115_001", domain.StatusConfirmed, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, order.Status)
	require.NotNil(t, order.ChangedBy)
	assert.Equal(t, "admin", *order.ChangedBy)

	_, err = svc.UpdateStatus(ctx, "ORD_20240115_001", domain.StatusCompleted, "admin")
	require.NoError(t, err)

	history, err := svc.GetOrderHistory(ctx, "ORD_20240115_001")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.StatusCompleted, history[2].Status)

	require.Len(t, publisher.updates, 2)
	assert.Equal(t, domain.StatusPending, publisher.updates[0].OldStatus)
	assert.Equal(t, domain.StatusConfirmed, publisher.updates[0].NewStatus)
	assert.Equal(t, domain.StatusCompleted, publisher.updates[1].NewStatus)
	assert.Equal(t, domain.StatusCompleted, repo.orders["ORD_20240115_001"].Status)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	svc, _, publisher := setup(pendingOrder())

	_, err := svc.UpdateStatus(context.Background(), "ORD_20240115_001", domain.StatusCompleted, "admin")

	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	assert.Empty(t, publisher.updates)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := setup(pendingOrder())

	_, err := svc.UpdateStatus(context.Background(), "ORD_20240115_001", domain.Status("cooking"), "admin")

	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _ := setup()

	_, err := svc.UpdateStatus(context.Background(), "ORD_20240115_404", domain.StatusConfirmed, "admin")

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateStatusRepositoryFailure(t *testing.T) {
	svc, repo, publisher := setup(pendingOrder())
	repo.updateErr = errors.New("deadlock detected")

	_, err := svc.UpdateStatus(context.Background(), "ORD_20240115_001", domain.StatusConfirmed, "admin")

	assert.Error(t, err)
	assert.Empty(t, publisher.updates)
}

func TestUpdateStatusPublishFailureIsNotFatal(t *testing.T) {
	svc, _, publisher := setup(pendingOrder())
	publisher.err = errors.New("channel closed")

	order, err := svc.UpdateStatus(context.Background(), "ORD_20240115_001", domain.StatusConfirmed, "admin")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, order.Status)
}

func TestCancelOrder(t *testing.T) {
	confirmed := pendingOrder()
	confirmed.Status = domain.StatusConfirmed
	completed := &domain.Order{ID: 8, Number: "ORD_20240115_002", Status: domain.StatusCompleted}

	svc, _, publisher := setup(confirmed, completed)
	ctx := context.Background()

	order, err := svc.CancelOrder(ctx, "ORD_20240115_001", "customer")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)

	_, err = svc.CancelOrder(ctx, "ORD_20240115_002", "customer")
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	require.Len(t, publisher.updates, 1)
}

func TestGetOrder(t *testing.T) {
	svc, _, _ := setup(pendingOrder())

	order, err := svc.GetOrder(context.Background(), "ORD_20240115_001")
	require.NoError(t, err)
	assert.Equal(t, 7, order.ID)

	_, err = svc.GetOrderHistory(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
