package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// The handlers under test interleave loads, domain calls and saves inside
// one transaction, with conflict retries on top. Enumerated call mocks
// cannot express that without pinning the handler's internals, so these
// tests run against an in-memory store that honors the repository
// contracts, including version-checked updates.

type memStore struct {
	mu sync.Mutex

	orders          map[string]*order.Order
	orderVersions   map[string]int
	partners        map[string]*partner.Partner
	partnerVersions map[string]int
	assignments     map[string]*partner.Assignment
	assignVersions  map[string]int
	summariesSent   map[string]bool

	// orderUpdateErrs is popped on each order Update call before the
	// version check, letting tests inject conflicts.
	orderUpdateErrs []error

	orderGetCalls    int
	orderUpdateCalls int
	begins           int
	commits          int
	rollbacks        int
}

func newMemStore() *memStore {
	return &memStore{
		orders:          make(map[string]*order.Order),
		orderVersions:   make(map[string]int),
		partners:        make(map[string]*partner.Partner),
		partnerVersions: make(map[string]int),
		assignments:     make(map[string]*partner.Assignment),
		assignVersions:  make(map[string]int),
		summariesSent:   make(map[string]bool),
	}
}

func (s *memStore) putOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID().String()] = o
	s.orderVersions[o.ID().String()] = o.Version()
}

func (s *memStore) putPartner(p *partner.Partner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners[p.ID().String()] = p
	s.partnerVersions[p.ID().String()] = p.Version()
}

func (s *memStore) putAssignment(a *partner.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[a.ID().String()] = a
	s.assignVersions[a.ID().String()] = a.Version()
}

// memUoW hands out repositories over the shared store. Transactionality
// is not emulated; the handlers' write sets are asserted directly.
type memUoW struct {
	store *memStore
}

func (u *memUoW) Begin(context.Context) error {
	u.store.mu.Lock()
	u.store.begins++
	u.store.mu.Unlock()
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	u.store.mu.Lock()
	u.store.commits++
	u.store.mu.Unlock()
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	u.store.mu.Lock()
	u.store.rollbacks++
	u.store.mu.Unlock()
	return nil
}

func (u *memUoW) OrderRepository() ports.OrderRepository {
	return &memOrderRepo{store: u.store}
}

func (u *memUoW) PartnerRepository() ports.PartnerRepository {
	return &memPartnerRepo{store: u.store}
}

func (u *memUoW) AssignmentRepository() ports.AssignmentRepository {
	return &memAssignmentRepo{store: u.store}
}

func (u *memUoW) SummaryLog() ports.SummaryLog {
	return &memSummaryLog{store: u.store}
}

// memUoWFactory satisfies every unit of work factory the commands
// declare.
type memUoWFactory struct {
	store *memStore
}

func (f *memUoWFactory) Create() *memUoW {
	return &memUoW{store: f.store}
}

type uowFactory struct{ inner *memUoWFactory }

type orderUoWFactory struct{ inner *memUoWFactory }

type summaryUoWFactory struct{ inner *memUoWFactory }

func (f uowFactory) Create() commands.UoW               { return f.inner.Create() }
func (f orderUoWFactory) Create() commands.OrderUoW     { return f.inner.Create() }
func (f summaryUoWFactory) Create() commands.SummaryUoW { return f.inner.Create() }

type memOrderRepo struct {
	store *memStore
}

func (r *memOrderRepo) Add(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	r.store.putOrder(o)
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.orderUpdateCalls++

	if len(r.store.orderUpdateErrs) > 0 {
		err := r.store.orderUpdateErrs[0]
		r.store.orderUpdateErrs = r.store.orderUpdateErrs[1:]
		if err != nil {
			return err
		}
	}

	key := o.ID().String()
	if _, ok := r.store.orders[key]; !ok {
		return errs.NewObjectNotFoundError("order", key)
	}
	if r.store.orderVersions[key] != o.Version() {
		return ports.ErrConcurrentModification
	}
	r.store.orders[key] = o
	r.store.orderVersions[key] = o.Version()
	return nil
}

func (r *memOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.orderGetCalls++

	o, ok := r.store.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, nil
}

func (r *memOrderRepo) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, o := range r.store.orders {
		if o.Number() == number {
			return o, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order", number)
}

func (r *memOrderRepo) GetAwaitingAssignment(context.Context) ([]*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	waiting := make([]*order.Order, 0)
	for _, o := range r.store.orders {
		if o.NeedsAssignment() {
			waiting = append(waiting, o)
		}
	}
	return waiting, nil
}

func (r *memOrderRepo) GetFinishedBetween(
	_ context.Context, shopID kernel.UUID, from, to time.Time,
) ([]*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	finished := make([]*order.Order, 0)
	for _, o := range r.store.orders {
		if !o.ShopID().IsEqual(shopID) || !o.Status().IsTerminal() {
			continue
		}
		timeline := o.Timeline()
		at := timeline[len(timeline)-1].At
		if !at.Before(from) && at.Before(to) {
			finished = append(finished, o)
		}
	}
	return finished, nil
}

type memPartnerRepo struct {
	store *memStore
}

func (r *memPartnerRepo) Add(_ context.Context, p *partner.Partner) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.store.putPartner(p)
	return nil
}

func (r *memPartnerRepo) Update(_ context.Context, p *partner.Partner) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := p.ID().String()
	if _, ok := r.store.partners[key]; !ok {
		return errs.NewObjectNotFoundError("partner", key)
	}
	if r.store.partnerVersions[key] != p.Version() {
		return ports.ErrConcurrentModification
	}
	r.store.partners[key] = p
	r.store.partnerVersions[key] = p.Version()
	return nil
}

func (r *memPartnerRepo) Get(_ context.Context, id kernel.UUID) (*partner.Partner, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.partners[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("partner", id.String())
	}
	return p, nil
}

func (r *memPartnerRepo) GetAllAvailable(context.Context) ([]*partner.Partner, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	available := make([]*partner.Partner, 0)
	for _, p := range r.store.partners {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	return available, nil
}

type memAssignmentRepo struct {
	store *memStore
}

func (r *memAssignmentRepo) Add(_ context.Context, a *partner.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	r.store.putAssignment(a)
	return nil
}

func (r *memAssignmentRepo) Update(_ context.Context, a *partner.Assignment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := a.ID().String()
	if _, ok := r.store.assignments[key]; !ok {
		return errs.NewObjectNotFoundError("assignment", key)
	}
	if r.store.assignVersions[key] != a.Version() {
		return ports.ErrConcurrentModification
	}
	r.store.assignments[key] = a
	r.store.assignVersions[key] = a.Version()
	return nil
}

func (r *memAssignmentRepo) Get(_ context.Context, id kernel.UUID) (*partner.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.assignments[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("assignment", id.String())
	}
	return a, nil
}

func (r *memAssignmentRepo) GetActiveByOrder(_ context.Context, orderID kernel.UUID) (*partner.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.store.assignments {
		if a.OrderID().IsEqual(orderID) && a.IsActive() {
			return a, nil
		}
	}
	return nil, nil
}

func (r *memAssignmentRepo) GetAllAwaitingResponse(context.Context) ([]*partner.Assignment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	awaiting := make([]*partner.Assignment, 0)
	for _, a := range r.store.assignments {
		if a.Status() == partner.Assigned {
			awaiting = append(awaiting, a)
		}
	}
	return awaiting, nil
}

type memSummaryLog struct {
	store *memStore
}

func summaryKey(shopID kernel.UUID, date time.Time) string {
	return shopID.String() + "/" + date.Format("2006-01-02")
}

func (l *memSummaryLog) AlreadySent(_ context.Context, shopID kernel.UUID, date time.Time) (bool, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return l.store.summariesSent[summaryKey(shopID, date)], nil
}

func (l *memSummaryLog) MarkSent(_ context.Context, shopID kernel.UUID, date time.Time) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.summariesSent[summaryKey(shopID, date)] = true
	return nil
}

// Channel fakes.

type pushRecorder struct {
	mu      sync.Mutex
	targets []string
	types   []notification.EventType
}

func (r *pushRecorder) SendPush(_ context.Context, target string, payload notification.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
	r.types = append(r.types, payload.Type())
	return nil
}

type emailRecorder struct {
	mu       sync.Mutex
	to       []string
	subjects []string
	bodies   []string
}

func (r *emailRecorder) SendEmail(_ context.Context, to, subject, htmlBody string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.to = append(r.to, to)
	r.subjects = append(r.subjects, subject)
	r.bodies = append(r.bodies, htmlBody)
	return nil
}

type invoiceRecorder struct {
	mu       sync.Mutex
	invoices []ports.Invoice
}

func (r *invoiceRecorder) SendInvoice(_ context.Context, invoice ports.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = append(r.invoices, invoice)
	return nil
}

type shopList struct {
	shops []ports.Shop
}

func (s shopList) GetActiveShops(context.Context) ([]ports.Shop, error) {
	return s.shops, nil
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
