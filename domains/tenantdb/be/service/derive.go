package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DatabaseName derives the deterministic database name for a tenant:
// DB_<tenantId>_<tenantName> with the name trimmed and internal spaces replaced
// by underscores. Idempotent re-run detection checks existence by this exact
// name, so the derivation must never change shape.
func DatabaseName(tenantID int64, tenantName string) string {
	name := strings.ReplaceAll(strings.TrimSpace(tenantName), " ", "_")
	return fmt.Sprintf("DB_%d_%s", tenantID, name)
}

// NewPoolName returns a globally unique name for a freshly provisioned pool.
func NewPoolName() string {
	return "pool-" + uuid.NewString()
}

// newIdentifier returns a random 128-bit identifier with separator characters
// normalized to underscores, so it stays legal inside SQL login names.
func newIdentifier() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "_")
}
