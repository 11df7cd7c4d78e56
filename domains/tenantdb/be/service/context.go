package service

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ProvisioningContext is the immutable settings bundle resolved once at startup.
// Every provisioning run reads it by value; nothing mutates it afterwards.
type ProvisioningContext struct {
	SubscriptionID  string `env:"AZURE_SUBSCRIPTION_ID,required"`
	ResourceGroup   string `env:"AZURE_RESOURCE_GROUP,required"`
	ServerName      string `env:"AZURE_SQL_SERVER,required"`
	AdminConnString string `env:"SQL_ADMIN_CONNECTION_STRING,required"`

	// PoolDatabaseCeiling is the maximum number of databases placed into one
	// elastic pool before a new pool is provisioned.
	PoolDatabaseCeiling int `env:"POOL_DATABASE_CEILING,required"`

	PoolSKUName     string `env:"POOL_SKU_NAME,required"`
	PoolSKUTier     string `env:"POOL_SKU_TIER,required"`
	PoolSKUCapacity int32  `env:"POOL_SKU_CAPACITY,required"`

	DatabaseMinCapacity float64 `env:"POOL_DATABASE_MIN_CAPACITY,required"`
	DatabaseMaxCapacity float64 `env:"POOL_DATABASE_MAX_CAPACITY,required"`
}

// LoadProvisioningContext resolves the context from the environment and validates it.
// Errors name the offending key so operators can fix deployments without reading code.
func LoadProvisioningContext() (ProvisioningContext, error) {
	var pctx ProvisioningContext
	if err := env.Parse(&pctx); err != nil {
		return ProvisioningContext{}, fmt.Errorf("load provisioning settings: %w", err)
	}
	if err := pctx.Validate(); err != nil {
		return ProvisioningContext{}, err
	}
	return pctx, nil
}

// Validate enforces the non-empty/positive invariants before any cloud call is attempted.
func (p ProvisioningContext) Validate() error {
	if p.SubscriptionID == "" {
		return fmt.Errorf("%w: AZURE_SUBSCRIPTION_ID is empty", ErrConfiguration)
	}
	if p.ResourceGroup == "" {
		return fmt.Errorf("%w: AZURE_RESOURCE_GROUP is empty", ErrConfiguration)
	}
	if p.ServerName == "" {
		return fmt.Errorf("%w: AZURE_SQL_SERVER is empty", ErrConfiguration)
	}
	if p.AdminConnString == "" {
		return fmt.Errorf("%w: SQL_ADMIN_CONNECTION_STRING is empty", ErrConfiguration)
	}
	if p.PoolDatabaseCeiling <= 0 {
		return fmt.Errorf("%w: POOL_DATABASE_CEILING must be a positive integer", ErrConfiguration)
	}
	if p.PoolSKUName == "" || p.PoolSKUTier == "" {
		return fmt.Errorf("%w: POOL_SKU_NAME and POOL_SKU_TIER must be set", ErrConfiguration)
	}
	if p.PoolSKUCapacity <= 0 {
		return fmt.Errorf("%w: POOL_SKU_CAPACITY must be a positive integer", ErrConfiguration)
	}
	if p.DatabaseMinCapacity < 0 {
		return fmt.Errorf("%w: POOL_DATABASE_MIN_CAPACITY must not be negative", ErrConfiguration)
	}
	if p.DatabaseMaxCapacity <= 0 || p.DatabaseMaxCapacity < p.DatabaseMinCapacity {
		return fmt.Errorf("%w: POOL_DATABASE_MAX_CAPACITY must be positive and >= POOL_DATABASE_MIN_CAPACITY", ErrConfiguration)
	}
	return nil
}

// PoolSpec returns the creation parameters for a new elastic pool.
func (p ProvisioningContext) PoolSpec() PoolSpec {
	return PoolSpec{
		SKUName:             p.PoolSKUName,
		SKUTier:             p.PoolSKUTier,
		SKUCapacity:         p.PoolSKUCapacity,
		DatabaseMinCapacity: p.DatabaseMinCapacity,
		DatabaseMaxCapacity: p.DatabaseMaxCapacity,
	}
}
