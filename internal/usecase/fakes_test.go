package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory fakes implementing the repository interfaces. They return copies
// of stored entities so that, like the real store, callers never share
// mutable state with the persistence layer, and they honor the same sentinel
// errors and atomicity contracts.

type fakeStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*entity.Account
	facets   []*entity.RoleFacet
	showings map[uuid.UUID]*entity.Showing
	tickets  map[uuid.UUID]*entity.Ticket

	// When set, the facet half of a registration fails; used to exercise the
	// all-or-nothing contract of CreateWithFacet.
	facetInsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[uuid.UUID]*entity.Account),
		showings: make(map[uuid.UUID]*entity.Showing),
		tickets:  make(map[uuid.UUID]*entity.Ticket),
	}
}

func newFakeRepository(store *fakeStore) *repository.Repository {
	return &repository.Repository{
		Account:   &fakeAccountRepo{store: store},
		RoleFacet: &fakeRoleFacetRepo{store: store},
		Showing:   &fakeShowingRepo{store: store},
		Ticket:    &fakeTicketRepo{store: store},
	}
}

func newTestService(store *fakeStore) *Service {
	config := &utils.Config{}
	config.Security.SignatureSecret = "test-signature-secret"
	config.Security.AuthSecret = "test-auth-secret"
	config.Security.AuthExpiryHours = 1

	return NewService(newFakeRepository(store), config, zap.NewNop())
}

func copyAccount(a *entity.Account) *entity.Account {
	c := *a
	return &c
}

func copyShowing(s *entity.Showing) *entity.Showing {
	c := *s
	return &c
}

func copyTicket(t *entity.Ticket) *entity.Ticket {
	c := *t
	return &c
}

// ---------------- account ----------------

type fakeAccountRepo struct {
	store *fakeStore
}

// CreateWithFacet mirrors the production contract: the account and its
// initial facet persist together or not at all.
func (r *fakeAccountRepo) CreateWithFacet(ctx context.Context, account *entity.Account, facet *entity.RoleFacet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.accounts {
		if existing.Login == account.Login {
			return fmt.Errorf("create account %s: %w", account.Login, repository.ErrConflict)
		}
	}
	if r.store.facetInsertErr != nil {
		return fmt.Errorf("create initial %s facet for account %s: %w", facet.Role, account.Login, r.store.facetInsertErr)
	}

	r.store.accounts[account.ID] = copyAccount(account)
	copiedFacet := *facet
	r.store.facets = append(r.store.facets, &copiedFacet)
	return nil
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account, ok := r.store.accounts[id]
	if !ok || account.DeletedAt != nil {
		return nil, fmt.Errorf("account %s: %w", id.String(), repository.ErrNotFound)
	}
	return copyAccount(account), nil
}

func (r *fakeAccountRepo) FindByLogin(ctx context.Context, login string) (*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, account := range r.store.accounts {
		if account.Login == login && account.DeletedAt == nil {
			return copyAccount(account), nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", login, repository.ErrNotFound)
}

func (r *fakeAccountRepo) FindAllMatchingLogin(ctx context.Context, substring string) ([]*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matches []*entity.Account
	for _, account := range r.store.accounts {
		if account.DeletedAt == nil && strings.Contains(strings.ToLower(account.Login), strings.ToLower(substring)) {
			matches = append(matches, copyAccount(account))
		}
	}
	return matches, nil
}

func (r *fakeAccountRepo) FindAll(ctx context.Context) ([]*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var all []*entity.Account
	for _, account := range r.store.accounts {
		if account.DeletedAt == nil {
			all = append(all, copyAccount(account))
		}
	}
	return all, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *entity.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.accounts[account.ID]
	if !ok || existing.DeletedAt != nil {
		return fmt.Errorf("account %s: %w", account.ID.String(), repository.ErrNotFound)
	}
	for _, other := range r.store.accounts {
		if other.ID != account.ID && other.Login == account.Login {
			return fmt.Errorf("update account %s: %w", account.ID.String(), repository.ErrConflict)
		}
	}
	r.store.accounts[account.ID] = copyAccount(account)
	return nil
}

func (r *fakeAccountRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account, ok := r.store.accounts[id]
	if !ok || account.DeletedAt != nil {
		return fmt.Errorf("account %s: %w", id.String(), repository.ErrNotFound)
	}
	account.IsActive = active
	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	account, ok := r.store.accounts[id]
	if !ok || account.DeletedAt != nil {
		return fmt.Errorf("account %s: %w", id.String(), repository.ErrNotFound)
	}
	now := time.Now()
	account.DeletedAt = &now
	return nil
}

// ---------------- role facet ----------------

type fakeRoleFacetRepo struct {
	store *fakeStore
}

func (r *fakeRoleFacetRepo) Create(ctx context.Context, facet *entity.RoleFacet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.facets {
		if existing.AccountID == facet.AccountID && existing.Role == facet.Role {
			return fmt.Errorf("grant role %s: %w", facet.Role, repository.ErrConflict)
		}
	}
	copied := *facet
	r.store.facets = append(r.store.facets, &copied)
	return nil
}

func (r *fakeRoleFacetRepo) Delete(ctx context.Context, accountID uuid.UUID, role entity.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, facet := range r.store.facets {
		if facet.AccountID == accountID && facet.Role == role {
			r.store.facets = append(r.store.facets[:i], r.store.facets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("role facet %s: %w", role, repository.ErrNotFound)
}

func (r *fakeRoleFacetRepo) DeleteAllForAccount(ctx context.Context, accountID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var kept []*entity.RoleFacet
	for _, facet := range r.store.facets {
		if facet.AccountID != accountID {
			kept = append(kept, facet)
		}
	}
	r.store.facets = kept
	return nil
}

func (r *fakeRoleFacetRepo) FindByAccountAndRole(ctx context.Context, accountID uuid.UUID, role entity.Role) (*entity.RoleFacet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, facet := range r.store.facets {
		if facet.AccountID == accountID && facet.Role == role {
			copied := *facet
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("role facet %s: %w", role, repository.ErrNotFound)
}

func (r *fakeRoleFacetRepo) FindAllForAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.RoleFacet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var facets []*entity.RoleFacet
	for _, facet := range r.store.facets {
		if facet.AccountID == accountID {
			copied := *facet
			facets = append(facets, &copied)
		}
	}
	return facets, nil
}

func (r *fakeRoleFacetRepo) ResolveAccount(ctx context.Context, facetID uuid.UUID, role entity.Role) (*entity.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, facet := range r.store.facets {
		if facet.ID == facetID && facet.Role == role {
			account, ok := r.store.accounts[facet.AccountID]
			if !ok || account.DeletedAt != nil {
				break
			}
			return copyAccount(account), nil
		}
	}
	return nil, fmt.Errorf("%s facet %s: %w", role, facetID.String(), repository.ErrNotFound)
}

// ---------------- showing ----------------

type fakeShowingRepo struct {
	store *fakeStore
}

func (r *fakeShowingRepo) Create(ctx context.Context, showing *entity.Showing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.showings[showing.ID] = copyShowing(showing)
	return nil
}

func (r *fakeShowingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	showing, ok := r.store.showings[id]
	if !ok {
		return nil, fmt.Errorf("showing %s: %w", id.String(), repository.ErrNotFound)
	}
	return copyShowing(showing), nil
}

func (r *fakeShowingRepo) FindAll(ctx context.Context) ([]*entity.Showing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var all []*entity.Showing
	for _, showing := range r.store.showings {
		all = append(all, copyShowing(showing))
	}
	return all, nil
}

func (r *fakeShowingRepo) FindAllMatchingTitle(ctx context.Context, substring string) ([]*entity.Showing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matches []*entity.Showing
	for _, showing := range r.store.showings {
		if strings.Contains(strings.ToLower(showing.Title), strings.ToLower(substring)) {
			matches = append(matches, copyShowing(showing))
		}
	}
	return matches, nil
}

func (r *fakeShowingRepo) Update(ctx context.Context, showing *entity.Showing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.showings[showing.ID]; !ok {
		return fmt.Errorf("showing %s: %w", showing.ID.String(), repository.ErrNotFound)
	}
	r.store.showings[showing.ID] = copyShowing(showing)
	return nil
}

func (r *fakeShowingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.showings[id]; !ok {
		return fmt.Errorf("showing %s: %w", id.String(), repository.ErrNotFound)
	}
	delete(r.store.showings, id)
	return nil
}

// ---------------- ticket ----------------

type fakeTicketRepo struct {
	store *fakeStore
}

// CreateReserving mirrors the production contract: the seat decrement and the
// ticket insert happen under one lock, all or nothing.
func (r *fakeTicketRepo) CreateReserving(ctx context.Context, ticket *entity.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	showing, ok := r.store.showings[ticket.ShowingID]
	if !ok {
		return fmt.Errorf("showing %s: %w", ticket.ShowingID.String(), repository.ErrNotFound)
	}
	if showing.AvailableSeats <= 0 {
		return fmt.Errorf("reserve seat for showing %s: %w", ticket.ShowingID.String(), repository.ErrNoSeats)
	}
	showing.AvailableSeats--
	r.store.tickets[ticket.ID] = copyTicket(ticket)
	return nil
}

func (r *fakeTicketRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ticket, ok := r.store.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket %s: %w", id.String(), repository.ErrNotFound)
	}
	return copyTicket(ticket), nil
}

func (r *fakeTicketRepo) FindAll(ctx context.Context) ([]*entity.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var all []*entity.Ticket
	for _, ticket := range r.store.tickets {
		all = append(all, copyTicket(ticket))
	}
	return all, nil
}

func (r *fakeTicketRepo) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Ticket, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var tickets []*entity.Ticket
	for _, ticket := range r.store.tickets {
		if ticket.ClientID == clientID {
			tickets = append(tickets, copyTicket(ticket))
		}
	}
	return tickets, nil
}

func (r *fakeTicketRepo) UpdateShowTime(ctx context.Context, ticket *entity.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.tickets[ticket.ID]
	if !ok {
		return fmt.Errorf("ticket %s: %w", ticket.ID.String(), repository.ErrNotFound)
	}
	existing.ShowTime = ticket.ShowTime
	existing.UpdatedAt = ticket.UpdatedAt
	return nil
}

func (r *fakeTicketRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tickets[id]; !ok {
		return fmt.Errorf("ticket %s: %w", id.String(), repository.ErrNotFound)
	}
	delete(r.store.tickets, id)
	return nil
}

func (r *fakeTicketRepo) CountByClientID(ctx context.Context, clientID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, ticket := range r.store.tickets {
		if ticket.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) CountByShowingID(ctx context.Context, showingID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, ticket := range r.store.tickets {
		if ticket.ShowingID == showingID {
			count++
		}
	}
	return count, nil
}
