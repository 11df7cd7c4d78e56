package provisioning

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"
	"go.uber.org/zap"

	"github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/service"
)

// PoolManager implements service.PoolManager on top of the ARM elastic pools
// API. Pools are returned in the provider's listing order; the selector relies
// on that order for first-fit.
type PoolManager struct {
	clients       *AzureClients
	resourceGroup string
	logger        *zap.Logger
}

// NewPoolManager constructs a PoolManager.
func NewPoolManager(clients *AzureClients, resourceGroup string, logger *zap.Logger) *PoolManager {
	if clients == nil {
		panic("pool manager requires azure clients")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &PoolManager{clients: clients, resourceGroup: resourceGroup, logger: logger}
}

func (m *PoolManager) ListPools(ctx context.Context, server service.ServerRef) ([]service.PoolDescriptor, error) {
	var out []service.PoolDescriptor
	pager := m.clients.Pools.NewListByServerPager(m.resourceGroup, server.Name, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list elastic pools: %w", err)
		}
		for _, pool := range page.Value {
			out = append(out, service.PoolDescriptor{
				Name: deref(pool.Name),
				ID:   deref(pool.ID),
			})
		}
	}
	return out, nil
}

func (m *PoolManager) DatabaseCount(ctx context.Context, server service.ServerRef, poolName string) (int, error) {
	count := 0
	pager := m.clients.Databases.NewListByElasticPoolPager(m.resourceGroup, server.Name, poolName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("list databases in pool %s: %w", poolName, err)
		}
		count += len(page.Value)
	}
	return count, nil
}

// CreatePool starts the create-or-update operation and blocks until the
// control plane reports it complete. Pool creation is billable and can take
// minutes; the pool inherits the server's region.
func (m *PoolManager) CreatePool(ctx context.Context, server service.ServerRef, name string, spec service.PoolSpec) error {
	parameters := armsql.ElasticPool{
		Location: to.Ptr(server.Location),
		SKU: &armsql.SKU{
			Name:     to.Ptr(spec.SKUName),
			Tier:     to.Ptr(spec.SKUTier),
			Capacity: to.Ptr(spec.SKUCapacity),
		},
		Properties: &armsql.ElasticPoolProperties{
			PerDatabaseSettings: &armsql.ElasticPoolPerDatabaseSettings{
				MinCapacity: to.Ptr(spec.DatabaseMinCapacity),
				MaxCapacity: to.Ptr(spec.DatabaseMaxCapacity),
			},
		},
	}

	m.logger.Info("creating elastic pool",
		zap.String("pool", name),
		zap.String("sku", spec.SKUName),
		zap.String("location", server.Location),
	)
	poller, err := m.clients.Pools.BeginCreateOrUpdate(ctx, m.resourceGroup, server.Name, name, parameters, nil)
	if err != nil {
		return fmt.Errorf("begin create pool %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("wait for pool %s creation: %w", name, err)
	}
	return nil
}

func (m *PoolManager) GetPool(ctx context.Context, server service.ServerRef, name string) (service.PoolDescriptor, error) {
	resp, err := m.clients.Pools.Get(ctx, m.resourceGroup, server.Name, name, nil)
	if err != nil {
		if isNotFound(err) {
			return service.PoolDescriptor{}, fmt.Errorf("%w: elastic pool %q", service.ErrResourceNotFound, name)
		}
		return service.PoolDescriptor{}, fmt.Errorf("get elastic pool %s: %w", name, err)
	}
	return service.PoolDescriptor{
		Name: deref(resp.Name),
		ID:   deref(resp.ID),
	}, nil
}

var _ service.PoolManager = (*PoolManager)(nil)
