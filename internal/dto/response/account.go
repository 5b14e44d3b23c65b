package response

import (
	"time"

	"cinema-tickets/internal/data/entity"
)

// AccountResponse carries the precondition token recomputed at read time;
// clients echo it back in If-Match on mutations.
type AccountResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Active    bool      `json:"active"`
	Blocked   bool      `json:"blocked"`
	Roles     []string  `json:"roles"`
	Signature string    `json:"signature,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func AccountToResponse(account *entity.Account, facets []*entity.RoleFacet, signature string) *AccountResponse {
	roles := make([]string, 0, len(facets))
	for _, facet := range facets {
		roles = append(roles, string(facet.Role))
	}

	return &AccountResponse{
		ID:        account.ID.String(),
		Login:     account.Login,
		Active:    account.IsActive,
		Blocked:   account.IsBlocked,
		Roles:     roles,
		Signature: signature,
		CreatedAt: account.CreatedAt,
	}
}
