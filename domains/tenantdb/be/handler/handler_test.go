package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/service"
)

type stubLocator struct {
	err error
}

func (s *stubLocator) Resolve(ctx context.Context) (service.ServerRef, error) {
	if s.err != nil {
		return service.ServerRef{}, s.err
	}
	return service.ServerRef{Name: "sql-tenants", Location: "westeurope", FQDN: "sql-tenants.database.windows.net"}, nil
}

type stubPools struct{}

func (s *stubPools) ListPools(ctx context.Context, server service.ServerRef) ([]service.PoolDescriptor, error) {
	return []service.PoolDescriptor{{Name: "pool-a", ID: "/pools/pool-a"}}, nil
}

func (s *stubPools) DatabaseCount(ctx context.Context, server service.ServerRef, poolName string) (int, error) {
	return 1, nil
}

func (s *stubPools) CreatePool(ctx context.Context, server service.ServerRef, name string, spec service.PoolSpec) error {
	return nil
}

func (s *stubPools) GetPool(ctx context.Context, server service.ServerRef, name string) (service.PoolDescriptor, error) {
	return service.PoolDescriptor{Name: name, ID: "/pools/" + name}, nil
}

type stubDatabases struct {
	existing map[string]bool
}

func (s *stubDatabases) DatabaseExists(ctx context.Context, server service.ServerRef, name string) (bool, error) {
	return s.existing[name], nil
}

func (s *stubDatabases) CreateDatabase(ctx context.Context, server service.ServerRef, name, poolID string) error {
	return nil
}

type stubSQL struct{}

func (s *stubSQL) Exec(ctx context.Context, connString string, statements ...string) error {
	return nil
}

func newTestHandler(t *testing.T, locator service.ResourceLocator, databases service.DatabaseManager) *Handler {
	t.Helper()

	pctx := service.ProvisioningContext{
		SubscriptionID:      "00000000-0000-0000-0000-000000000001",
		ResourceGroup:       "rg-tenants",
		ServerName:          "sql-tenants",
		AdminConnString:     "Server=s;Database=master;User ID=admin;Password=p",
		PoolDatabaseCeiling: 5,
		PoolSKUName:         "StandardPool",
		PoolSKUTier:         "Standard",
		PoolSKUCapacity:     100,
		DatabaseMaxCapacity: 20,
	}
	svc := service.New(pctx, service.Deps{
		Locator:   locator,
		Pools:     &stubPools{},
		Databases: databases,
		SQL:       &stubSQL{},
	}, zap.NewNop())
	return New(svc, zap.NewNop())
}

func TestProvisionEndpointCreates(t *testing.T) {
	h := newTestHandler(t, &stubLocator{}, &stubDatabases{existing: map[string]bool{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenant-databases",
		strings.NewReader(`{"tenantId": 10, "tenantName": "Mister Suits"}`))
	rec := httptest.NewRecorder()

	h.ProvisionTenantDatabase(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "DB_10_Mister_Suits", resp["databaseName"])
	require.Equal(t, true, resp["created"])
	require.Equal(t, "pool-a", resp["poolName"])
	require.NotEmpty(t, resp["login"])
	require.Contains(t, resp["connectionString"], "Database=DB_10_Mister_Suits")
}

func TestProvisionEndpointIdempotent(t *testing.T) {
	h := newTestHandler(t, &stubLocator{}, &stubDatabases{existing: map[string]bool{"DB_10_Mister_Suits": true}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenant-databases",
		strings.NewReader(`{"tenantId": 10, "tenantName": "Mister Suits"}`))
	rec := httptest.NewRecorder()

	h.ProvisionTenantDatabase(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["alreadyProvisioned"])
	require.Nil(t, resp["login"])
	require.Nil(t, resp["connectionString"])
}

func TestProvisionEndpointRejectsInvalidBody(t *testing.T) {
	h := newTestHandler(t, &stubLocator{}, &stubDatabases{existing: map[string]bool{}})

	for _, body := range []string{"{", `{"tenantId": 0, "tenantName": "x"}`, `{"tenantId": 1, "tenantName": "  "}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tenant-databases", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.ProvisionTenantDatabase(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	}
}

func TestProvisionEndpointMapsResourceNotFound(t *testing.T) {
	locator := &stubLocator{err: fmt.Errorf("%w: sql server %q", service.ErrResourceNotFound, "sql-tenants")}
	h := newTestHandler(t, locator, &stubDatabases{existing: map[string]bool{}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenant-databases",
		strings.NewReader(`{"tenantId": 10, "tenantName": "Mister Suits"}`))
	rec := httptest.NewRecorder()

	h.ProvisionTenantDatabase(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var p map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "https://palmyra.pro/problems/not-found", p["type"])
}
