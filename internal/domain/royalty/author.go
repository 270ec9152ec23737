package royalty

import (
	"strings"

	"github.com/inkhouse/backend/internal/domain/shared"
)

// Author is the read model of an author and their contact details.
// Authors are owned by the upstream identity module; the royalty engine reads
// them for eligibility and delivery addressing only.
type Author struct {
	shared.TenantAggregateRoot
	Name  string
	Email string
}

// HasEmail reports whether the author can receive statement deliveries
func (a *Author) HasEmail() bool {
	return strings.TrimSpace(a.Email) != ""
}
