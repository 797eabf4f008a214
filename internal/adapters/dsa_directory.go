// Package adapters wires bounded contexts together without direct coupling.
package adapters

import (
	"context"

	"dsa_portal_backend/internal/dsa/repository"

	"github.com/google/uuid"
)

// DsaDirectoryAdapter resolves DSA display data for the approval module.
type DsaDirectoryAdapter struct {
	repo repository.Repository
}

// NewDsaDirectoryAdapter creates the adapter over the DSA repository.
func NewDsaDirectoryAdapter(repo repository.Repository) *DsaDirectoryAdapter {
	return &DsaDirectoryAdapter{repo: repo}
}

// Lookup returns the DSA's name and unique code.
func (a *DsaDirectoryAdapter) Lookup(ctx context.Context, dsaID uuid.UUID) (string, string, error) {
	dsa, err := a.repo.GetByID(ctx, dsaID)
	if err != nil {
		return "", "", err
	}
	return dsa.Name, dsa.UniqueCode, nil
}
