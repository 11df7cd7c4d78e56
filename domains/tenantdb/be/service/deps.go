package service

import "context"

// ServerRef identifies the resolved SQL server every cloud operation targets.
type ServerRef struct {
	Name     string
	Location string
	// FQDN is the fully qualified host name tenant connection strings point at.
	FQDN string
}

// PoolDescriptor identifies an elastic pool. DatabaseCount is filled in by the
// selector for the pool it picked; descriptors are transient query results and
// are never cached between runs.
type PoolDescriptor struct {
	Name          string
	ID            string
	DatabaseCount int
}

// PoolSpec carries the creation parameters for a new elastic pool.
type PoolSpec struct {
	SKUName             string
	SKUTier             string
	SKUCapacity         int32
	DatabaseMinCapacity float64
	DatabaseMaxCapacity float64
}

// ResourceLocator resolves subscription -> resource group -> server, in that
// order, and never hands back a partially resolved chain.
type ResourceLocator interface {
	Resolve(ctx context.Context) (ServerRef, error)
}

// PoolManager exposes the elastic-pool control-plane operations the selector
// needs. CreatePool blocks until the provider reports the operation complete.
type PoolManager interface {
	ListPools(ctx context.Context, server ServerRef) ([]PoolDescriptor, error)
	DatabaseCount(ctx context.Context, server ServerRef, poolName string) (int, error)
	CreatePool(ctx context.Context, server ServerRef, name string, spec PoolSpec) error
	GetPool(ctx context.Context, server ServerRef, name string) (PoolDescriptor, error)
}

// DatabaseManager exposes the database control-plane operations. CreateDatabase
// blocks until the provider reports the operation complete.
type DatabaseManager interface {
	DatabaseExists(ctx context.Context, server ServerRef, name string) (bool, error)
	CreateDatabase(ctx context.Context, server ServerRef, name, poolID string) error
}

// SQLRunner executes non-query statements against the database engine, one
// short-lived connection per call.
type SQLRunner interface {
	Exec(ctx context.Context, connString string, statements ...string) error
}

// Deps bundles the external collaborators injected into the Service.
type Deps struct {
	Locator   ResourceLocator
	Pools     PoolManager
	Databases DatabaseManager
	SQL       SQLRunner
}
