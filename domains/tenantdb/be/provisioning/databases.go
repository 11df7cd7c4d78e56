package provisioning

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"
	"go.uber.org/zap"

	"github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/service"
)

// DatabaseManager implements service.DatabaseManager on top of the ARM
// databases API.
type DatabaseManager struct {
	clients       *AzureClients
	resourceGroup string
	logger        *zap.Logger
}

// NewDatabaseManager constructs a DatabaseManager.
func NewDatabaseManager(clients *AzureClients, resourceGroup string, logger *zap.Logger) *DatabaseManager {
	if clients == nil {
		panic("database manager requires azure clients")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &DatabaseManager{clients: clients, resourceGroup: resourceGroup, logger: logger}
}

func (m *DatabaseManager) DatabaseExists(ctx context.Context, server service.ServerRef, name string) (bool, error) {
	_, err := m.clients.Databases.Get(ctx, m.resourceGroup, server.Name, name, nil)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get database %s: %w", name, err)
	}
	return true, nil
}

// CreateDatabase starts the create-or-update operation for a database assigned
// to the given pool and blocks until the control plane reports it complete.
func (m *DatabaseManager) CreateDatabase(ctx context.Context, server service.ServerRef, name, poolID string) error {
	parameters := armsql.Database{
		Location: to.Ptr(server.Location),
		Properties: &armsql.DatabaseProperties{
			ElasticPoolID: to.Ptr(poolID),
		},
	}

	m.logger.Info("creating database", zap.String("database", name))
	poller, err := m.clients.Databases.BeginCreateOrUpdate(ctx, m.resourceGroup, server.Name, name, parameters, nil)
	if err != nil {
		return fmt.Errorf("begin create database %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("wait for database %s creation: %w", name, err)
	}
	return nil
}

var _ service.DatabaseManager = (*DatabaseManager)(nil)
