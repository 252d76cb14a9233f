package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domcart "example.com/storefront/app/internal/domain/cart"
	"example.com/storefront/app/internal/domain/outcome"
	domsession "example.com/storefront/app/internal/domain/session"
)

// mockCartGateway keeps a canonical server-side cart and answers reads from it.
type mockCartGateway struct {
	mu     sync.Mutex
	items  []domcart.LineItem
	prices map[string]float64
	calls  []string

	createErr error
	updateErr error
	deleteErr error
	clearErr  error
	readErr   error

	// readGate, when set, is consulted on every read: the read blocks until
	// a snapshot is sent and returns that instead of the canonical cart.
	readGate chan *domcart.Snapshot
	// createGate, when set, holds Create until it is closed.
	createGate chan struct{}
}

func newMockCartGateway() *mockCartGateway {
	return &mockCartGateway{
		prices: map[string]float64{"p1": 100, "p2": 50, "p7": 20},
	}
}

func (m *mockCartGateway) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockCartGateway) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockCartGateway) Read(ctx context.Context, credential string) (*domcart.Snapshot, error) {
	m.record("read")
	if m.readGate != nil {
		select {
		case snap := <-m.readGate:
			return snap, nil
		case <-ctx.Done():
			return nil, outcome.Transport(ctx.Err())
		}
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(), nil
}

func (m *mockCartGateway) snapshotLocked() *domcart.Snapshot {
	snap := &domcart.Snapshot{ID: "cart-1", Items: make([]domcart.LineItem, len(m.items))}
	copy(snap.Items, m.items)
	for _, it := range m.items {
		snap.TotalPrice += it.Price * float64(it.Quantity)
	}
	snap.ItemCount = len(m.items)
	return snap
}

func (m *mockCartGateway) Create(ctx context.Context, credential, productID string) (domcart.Ack, error) {
	m.record("create")
	if m.createGate != nil {
		<-m.createGate
	}
	if m.createErr != nil {
		return domcart.Ack{}, m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].Product.ID == productID {
			m.items[i].Quantity++
			return domcart.Ack{Message: "Product added successfully to your cart"}, nil
		}
	}
	m.items = append(m.items, domcart.LineItem{
		ID:       "line-" + productID,
		Product:  domcart.ProductRef{ID: productID, Title: "Product " + productID, ImageCover: productID + ".jpg"},
		Price:    m.prices[productID],
		Quantity: 1,
	})
	return domcart.Ack{Message: "Product added successfully to your cart"}, nil
}

func (m *mockCartGateway) Update(ctx context.Context, credential, productID string, count int64) (domcart.Ack, error) {
	m.record("update")
	if m.updateErr != nil {
		return domcart.Ack{}, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].Product.ID == productID {
			m.items[i].Quantity = count
		}
	}
	return domcart.Ack{Message: "success"}, nil
}

func (m *mockCartGateway) Delete(ctx context.Context, credential, productID string) (domcart.Ack, error) {
	m.record("delete")
	if m.deleteErr != nil {
		return domcart.Ack{}, m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[:0]
	for _, it := range m.items {
		if it.Product.ID != productID {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return domcart.Ack{Message: "success"}, nil
}

func (m *mockCartGateway) Clear(ctx context.Context, credential string) (domcart.Ack, error) {
	m.record("clear")
	if m.clearErr != nil {
		return domcart.Ack{}, m.clearErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return domcart.Ack{Message: "success"}, nil
}

func signedIn() domsession.Session {
	return domsession.Session{State: domsession.StateAuthenticated, Credential: "token-1"}
}

func TestAdd_SnapshotMatchesIndependentRefresh(t *testing.T) {
	gw := newMockCartGateway()
	s := NewSynchronizer(gw, nil)

	out, err := s.Add(context.Background(), signedIn(), "p1")

	require.NoError(t, err)
	require.True(t, out.Success)
	require.True(t, out.Reconciled)
	require.Equal(t, "Product added successfully to your cart", out.Message)
	require.Equal(t, []string{"create", "read"}, gw.calls)

	held := s.Snapshot()
	other := NewSynchronizer(gw, nil)
	_, err = other.Refresh(context.Background(), signedIn())
	require.NoError(t, err)
	require.Equal(t, other.Snapshot(), held)
	require.Equal(t, "p1.jpg", held.Items[0].Product.ImageCover)
}

func TestMutations_SnapshotMatchesIndependentRefresh(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		run  func(s *Synchronizer) (outcome.Outcome, error)
	}{
		{name: "Update quantity", run: func(s *Synchronizer) (outcome.Outcome, error) { return s.UpdateQuantity(ctx, signedIn(), "p1", 5) }},
		{name: "Remove", run: func(s *Synchronizer) (outcome.Outcome, error) { return s.Remove(ctx, signedIn(), "p2") }},
		{name: "Empty", run: func(s *Synchronizer) (outcome.Outcome, error) { return s.Empty(ctx, signedIn()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockCartGateway()
			s := NewSynchronizer(gw, nil)
			_, err := s.Add(ctx, signedIn(), "p1")
			require.NoError(t, err)
			_, err = s.Add(ctx, signedIn(), "p2")
			require.NoError(t, err)

			out, err := tt.run(s)
			require.NoError(t, err)
			require.True(t, out.Success)
			require.True(t, out.Reconciled)

			other := NewSynchronizer(gw, nil)
			_, err = other.Refresh(ctx, signedIn())
			require.NoError(t, err)
			require.Equal(t, other.Snapshot(), s.Snapshot())
		})
	}
}

func TestUpdateQuantity_BelowOneMakesNoCall(t *testing.T) {
	tests := []struct {
		name  string
		count int64
	}{
		{name: "Zero quantity", count: 0},
		{name: "Negative quantity", count: -1},
		{name: "Large negative quantity", count: -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockCartGateway()
			s := NewSynchronizer(gw, nil)
			_, err := s.Add(context.Background(), signedIn(), "p1")
			require.NoError(t, err)
			before := s.Snapshot()
			calls := gw.callCount()

			out, err := s.UpdateQuantity(context.Background(), signedIn(), "p1", tt.count)

			require.ErrorIs(t, err, outcome.ErrInvalidQuantity)
			require.False(t, out.Success)
			require.Equal(t, calls, gw.callCount(), "no network call")
			require.Equal(t, before, s.Snapshot())
		})
	}
}

func TestAdd_UpstreamFailureLeavesSnapshotUnchanged(t *testing.T) {
	gw := newMockCartGateway()
	s := NewSynchronizer(gw, nil)
	_, err := s.Add(context.Background(), signedIn(), "p1")
	require.NoError(t, err)
	before := s.Snapshot()

	gw.createErr = outcome.Rejected(404, "No product found for this id")
	out, err := s.Add(context.Background(), signedIn(), "missing")

	require.ErrorIs(t, err, outcome.ErrRejected)
	require.False(t, out.Success)
	require.Equal(t, "No product found for this id", out.Message)
	require.Equal(t, before, s.Snapshot())
	require.Equal(t, "create", gw.calls[len(gw.calls)-1], "no reconcile read after failure")
}

func TestRemove_FailureKeepsItem(t *testing.T) {
	gw := newMockCartGateway()
	s := NewSynchronizer(gw, nil)
	_, err := s.Add(context.Background(), signedIn(), "p1")
	require.NoError(t, err)

	gw.deleteErr = outcome.Transport(errors.New("connection reset"))
	out, err := s.Remove(context.Background(), signedIn(), "p1")

	require.ErrorIs(t, err, outcome.ErrTransport)
	require.False(t, out.Success)
	require.Len(t, s.Snapshot().Items, 1)
}

func TestRemove_LastItemScenario(t *testing.T) {
	gw := newMockCartGateway()
	gw.items = []domcart.LineItem{{ID: "line-p1", Product: domcart.ProductRef{ID: "p1"}, Price: 100, Quantity: 2}}
	s := NewSynchronizer(gw, nil)
	_, err := s.Refresh(context.Background(), signedIn())
	require.NoError(t, err)
	require.Equal(t, 200.0, s.Snapshot().TotalPrice)

	out, err := s.Remove(context.Background(), signedIn(), "p1")

	require.NoError(t, err)
	require.True(t, out.Reconciled)
	snap := s.Snapshot()
	require.NotNil(t, snap)
	require.Empty(t, snap.Items)
	require.Equal(t, 0.0, snap.TotalPrice)
}

func TestRefresh_FailureClearsSnapshot(t *testing.T) {
	gw := newMockCartGateway()
	s := NewSynchronizer(gw, nil)
	_, err := s.Add(context.Background(), signedIn(), "p1")
	require.NoError(t, err)
	require.NotNil(t, s.Snapshot())

	gw.readErr = outcome.Transport(errors.New("dial tcp: timeout"))
	out, err := s.Refresh(context.Background(), signedIn())

	require.ErrorIs(t, err, outcome.ErrTransport)
	require.False(t, out.Success)
	require.Nil(t, s.Snapshot())

	// still usable afterwards
	gw.readErr = nil
	_, err = s.Refresh(context.Background(), signedIn())
	require.NoError(t, err)
	require.Len(t, s.Snapshot().Items, 1)
}

func TestMutation_ReconcileFailureStillReportsSuccess(t *testing.T) {
	gw := newMockCartGateway()
	gw.readErr = outcome.Rejected(500, "Internal Server Error")
	s := NewSynchronizer(gw, nil)

	out, err := s.Add(context.Background(), signedIn(), "p1")

	require.NoError(t, err)
	require.True(t, out.Success)
	require.False(t, out.Reconciled)
	require.Nil(t, s.Snapshot())
}

func TestOperations_RequireAuthentication(t *testing.T) {
	gw := newMockCartGateway()
	s := NewSynchronizer(gw, nil)
	anon := domsession.Anonymous()
	ctx := context.Background()

	_, err := s.Add(ctx, anon, "p1")
	require.ErrorIs(t, err, outcome.ErrAuthRequired)
	_, err = s.UpdateQuantity(ctx, anon, "p1", 2)
	require.ErrorIs(t, err, outcome.ErrAuthRequired)
	_, err = s.Remove(ctx, anon, "p1")
	require.ErrorIs(t, err, outcome.ErrAuthRequired)
	_, err = s.Empty(ctx, anon)
	require.ErrorIs(t, err, outcome.ErrAuthRequired)
	_, err = s.Refresh(ctx, anon)
	require.ErrorIs(t, err, outcome.ErrAuthRequired)

	require.Equal(t, 0, gw.callCount())
	require.Nil(t, s.Snapshot())
}

func TestRefresh_LastCompletedReadWins(t *testing.T) {
	gw := newMockCartGateway()
	gw.readGate = make(chan *domcart.Snapshot)
	s := NewSynchronizer(gw, nil)

	// Two overlapping refreshes, both waiting on the upstream.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Refresh(context.Background(), signedIn())
		}()
	}
	require.Eventually(t, func() bool { return gw.callCount() == 2 }, time.Second, time.Millisecond)

	gw.readGate <- &domcart.Snapshot{ID: "cart-1", ItemCount: 2}
	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap != nil && snap.ItemCount == 2
	}, time.Second, time.Millisecond)

	gw.readGate <- &domcart.Snapshot{ID: "cart-1", ItemCount: 1}
	wg.Wait()

	require.Equal(t, 1, s.Snapshot().ItemCount)
}

func TestRefresh_ResultAfterResetIsDiscarded(t *testing.T) {
	gw := newMockCartGateway()
	gw.readGate = make(chan *domcart.Snapshot)
	s := NewSynchronizer(gw, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Refresh(context.Background(), signedIn())
		done <- err
	}()

	// wait for the read to be issued before signing out
	require.Eventually(t, func() bool { return gw.callCount() == 1 }, time.Second, time.Millisecond)
	s.Reset()
	gw.readGate <- &domcart.Snapshot{ID: "cart-1", ItemCount: 3}

	require.ErrorIs(t, <-done, outcome.ErrDiscarded)
	require.Nil(t, s.Snapshot())
}

func TestAdd_SignOutDuringCallKeepsCartEmpty(t *testing.T) {
	gw := newMockCartGateway()
	gw.createGate = make(chan struct{})
	s := NewSynchronizer(gw, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Add(context.Background(), signedIn(), "p1")
		done <- err
	}()

	require.Eventually(t, func() bool { return gw.callCount() == 1 }, time.Second, time.Millisecond)
	s.Reset()
	close(gw.createGate)

	require.ErrorIs(t, <-done, outcome.ErrDiscarded)
	require.Nil(t, s.Snapshot())
	require.Equal(t, []string{"create"}, gw.calls)
}

func TestAdd_SignOutDuringReconcileKeepsCartEmpty(t *testing.T) {
	gw := newMockCartGateway()
	gw.readGate = make(chan *domcart.Snapshot)
	s := NewSynchronizer(gw, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Add(context.Background(), signedIn(), "p1")
		done <- err
	}()

	// create, then the reconcile read
	require.Eventually(t, func() bool { return gw.callCount() == 2 }, time.Second, time.Millisecond)
	s.Reset()
	gw.readGate <- &domcart.Snapshot{ID: "cart-1", ItemCount: 1}

	require.ErrorIs(t, <-done, outcome.ErrDiscarded)
	require.Nil(t, s.Snapshot())
}

func TestRefresh_CancelledContextLeavesState(t *testing.T) {
	gw := newMockCartGateway()
	s := NewSynchronizer(gw, nil)
	_, err := s.Add(context.Background(), signedIn(), "p1")
	require.NoError(t, err)
	before := s.Snapshot()

	gw.readGate = make(chan *domcart.Snapshot)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Refresh(ctx, signedIn())

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, before, s.Snapshot())
}

func TestSnapshot_IsACopy(t *testing.T) {
	gw := newMockCartGateway()
	s := NewSynchronizer(gw, nil)
	_, err := s.Add(context.Background(), signedIn(), "p1")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Items[0].Quantity = 99

	require.Equal(t, int64(1), s.Snapshot().Items[0].Quantity)
}
