package repository

import (
	"cinema-tickets/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Account   AccountRepository
	RoleFacet RoleFacetRepository
	Showing   ShowingRepository
	Ticket    TicketRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Account:   NewAccountRepository(db, log),
		RoleFacet: NewRoleFacetRepository(db, log),
		Showing:   NewShowingRepository(db, log),
		Ticket:    NewTicketRepository(db, log),
	}
}
