package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Errors returned by the service layer.
var (
	// ErrConfiguration marks a missing or malformed setting, detected before
	// any cloud call is made.
	ErrConfiguration = errors.New("invalid provisioning configuration")
	// ErrResourceNotFound marks an absent subscription, resource group or
	// server. Treated as a deployment/permissions fault, never retried.
	ErrResourceNotFound = errors.New("cloud resource not found")
	// ErrPoolCreation marks a control-plane inconsistency: pool creation was
	// reported complete but the pool cannot be retrieved afterwards.
	ErrPoolCreation = errors.New("failed to create pool")
)

// Tenant identifies the owner of one provisioned database.
type Tenant struct {
	ID   int64
	Name string
}

// ProvisionResult reports the outcome of one provisioning run. Credential is
// nil when the database already existed (idempotent re-run).
type ProvisionResult struct {
	DatabaseName string
	Created      bool
	Pool         *PoolDescriptor
	Credential   *TenantCredential
}

// Service orchestrates tenant database provisioning: locate the server, pick or
// create an elastic pool with spare capacity, create the database, issue a
// scoped credential. One logical flow per request, awaited stage by stage.
//
// Pool-capacity counting and the existence check are read-then-act: two
// concurrent runs can both observe a pool under its ceiling or a database as
// absent. Callers must serialize runs per tenant id.
type Service struct {
	pctx      ProvisioningContext
	locator   ResourceLocator
	pools     PoolManager
	databases DatabaseManager
	sql       SQLRunner
	logger    *zap.Logger
}

// New constructs a Service with required dependencies.
func New(pctx ProvisioningContext, deps Deps, logger *zap.Logger) *Service {
	if deps.Locator == nil || deps.Pools == nil || deps.Databases == nil || deps.SQL == nil {
		panic("tenantdb service requires locator, pools, databases and sql deps")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Service{
		pctx:      pctx,
		locator:   deps.Locator,
		pools:     deps.Pools,
		databases: deps.Databases,
		sql:       deps.SQL,
		logger:    logger,
	}
}

// ProvisionTenantDatabase is the single produced operation: provision a
// database for tenant(id, name) inside a pool with spare capacity and return a
// ready-to-use credential. Re-running for an already provisioned tenant
// short-circuits after the existence check and issues nothing new.
func (s *Service) ProvisionTenantDatabase(ctx context.Context, tenant Tenant) (ProvisionResult, error) {
	server, err := s.locator.Resolve(ctx)
	if err != nil {
		return ProvisionResult{}, err
	}
	s.logger.Info("resolved sql server",
		zap.String("server", server.Name),
		zap.String("location", server.Location),
	)

	databaseName := DatabaseName(tenant.ID, tenant.Name)

	exists, err := s.databases.DatabaseExists(ctx, server, databaseName)
	if err != nil {
		return ProvisionResult{}, fmt.Errorf("check database %s: %w", databaseName, err)
	}
	if exists {
		s.logger.Info("database already provisioned, skipping",
			zap.String("database", databaseName),
		)
		return ProvisionResult{DatabaseName: databaseName, Created: false}, nil
	}

	pool, err := s.selectPool(ctx, server)
	if err != nil {
		return ProvisionResult{}, err
	}
	s.logger.Info("selected elastic pool",
		zap.String("pool", pool.Name),
		zap.Int("databases", pool.DatabaseCount),
	)

	if err := s.databases.CreateDatabase(ctx, server, databaseName, pool.ID); err != nil {
		return ProvisionResult{}, fmt.Errorf("create database %s: %w", databaseName, err)
	}
	s.logger.Info("created database",
		zap.String("database", databaseName),
		zap.String("pool", pool.Name),
	)

	credential, err := s.issueCredential(ctx, server, databaseName)
	if err != nil {
		return ProvisionResult{}, err
	}

	return ProvisionResult{
		DatabaseName: databaseName,
		Created:      true,
		Pool:         &pool,
		Credential:   &credential,
	}, nil
}

// selectPool returns the first pool in listing order whose database count is
// strictly below the configured ceiling (first-fit, counting stops on match).
// When none qualifies it provisions a new pool and blocks until the control
// plane reports completion.
func (s *Service) selectPool(ctx context.Context, server ServerRef) (PoolDescriptor, error) {
	pools, err := s.pools.ListPools(ctx, server)
	if err != nil {
		return PoolDescriptor{}, fmt.Errorf("list pools: %w", err)
	}

	for _, pool := range pools {
		count, err := s.pools.DatabaseCount(ctx, server, pool.Name)
		if err != nil {
			return PoolDescriptor{}, fmt.Errorf("count databases in pool %s: %w", pool.Name, err)
		}
		if count < s.pctx.PoolDatabaseCeiling {
			pool.DatabaseCount = count
			return pool, nil
		}
	}

	name := NewPoolName()
	s.logger.Info("no pool under ceiling, provisioning a new one",
		zap.String("pool", name),
		zap.Int("ceiling", s.pctx.PoolDatabaseCeiling),
	)
	if err := s.pools.CreatePool(ctx, server, name, s.pctx.PoolSpec()); err != nil {
		return PoolDescriptor{}, fmt.Errorf("%w: %s: %v", ErrPoolCreation, name, err)
	}
	created, err := s.pools.GetPool(ctx, server, name)
	if err != nil {
		// Creation completed but the pool is not retrievable: a control-plane
		// anomaly, surfaced distinctly from a plain not-found.
		return PoolDescriptor{}, fmt.Errorf("%w: %s not retrievable after creation: %v", ErrPoolCreation, name, err)
	}
	return created, nil
}
