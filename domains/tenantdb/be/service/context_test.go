package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AZURE_SUBSCRIPTION_ID", "00000000-0000-0000-0000-000000000001")
	t.Setenv("AZURE_RESOURCE_GROUP", "rg-tenants")
	t.Setenv("AZURE_SQL_SERVER", "sql-tenants")
	t.Setenv("SQL_ADMIN_CONNECTION_STRING", "Server=s;Database=master;User ID=admin;Password=p")
	t.Setenv("POOL_DATABASE_CEILING", "5")
	t.Setenv("POOL_SKU_NAME", "StandardPool")
	t.Setenv("POOL_SKU_TIER", "Standard")
	t.Setenv("POOL_SKU_CAPACITY", "100")
	t.Setenv("POOL_DATABASE_MIN_CAPACITY", "0")
	t.Setenv("POOL_DATABASE_MAX_CAPACITY", "20")
}

func TestLoadProvisioningContext(t *testing.T) {
	setRequiredEnv(t)

	pctx, err := LoadProvisioningContext()
	require.NoError(t, err)
	require.Equal(t, "rg-tenants", pctx.ResourceGroup)
	require.Equal(t, 5, pctx.PoolDatabaseCeiling)
	require.Equal(t, int32(100), pctx.PoolSKUCapacity)
	require.Equal(t, 20.0, pctx.DatabaseMaxCapacity)
}

func TestLoadProvisioningContextNamesMissingKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SQL_ADMIN_CONNECTION_STRING", "")

	_, err := LoadProvisioningContext()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SQL_ADMIN_CONNECTION_STRING")
}

func TestValidate(t *testing.T) {
	valid := testContext()

	cases := []struct {
		name    string
		mutate  func(*ProvisioningContext)
		wantKey string
	}{
		{name: "zero ceiling", mutate: func(p *ProvisioningContext) { p.PoolDatabaseCeiling = 0 }, wantKey: "POOL_DATABASE_CEILING"},
		{name: "negative ceiling", mutate: func(p *ProvisioningContext) { p.PoolDatabaseCeiling = -1 }, wantKey: "POOL_DATABASE_CEILING"},
		{name: "empty server", mutate: func(p *ProvisioningContext) { p.ServerName = "" }, wantKey: "AZURE_SQL_SERVER"},
		{name: "empty sku name", mutate: func(p *ProvisioningContext) { p.PoolSKUName = "" }, wantKey: "POOL_SKU_NAME"},
		{name: "zero sku capacity", mutate: func(p *ProvisioningContext) { p.PoolSKUCapacity = 0 }, wantKey: "POOL_SKU_CAPACITY"},
		{name: "max below min", mutate: func(p *ProvisioningContext) { p.DatabaseMinCapacity = 10; p.DatabaseMaxCapacity = 5 }, wantKey: "POOL_DATABASE_MAX_CAPACITY"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pctx := valid
			tc.mutate(&pctx)

			err := pctx.Validate()
			require.ErrorIs(t, err, ErrConfiguration)
			require.Contains(t, err.Error(), tc.wantKey)
		})
	}

	require.NoError(t, valid.Validate())
}
