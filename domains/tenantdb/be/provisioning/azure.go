package provisioning

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"
)

// AzureClients groups the ARM clients the provisioner talks to. All clients
// share one ambient credential chain (environment, workload identity, managed
// identity, CLI).
type AzureClients struct {
	Subscriptions  *armsubscriptions.Client
	ResourceGroups *armresources.ResourceGroupsClient
	Servers        *armsql.ServersClient
	Pools          *armsql.ElasticPoolsClient
	Databases      *armsql.DatabasesClient
}

// NewAzureClients builds the ARM client set for one subscription using the
// default credential chain.
func NewAzureClients(subscriptionID string) (*AzureClients, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("build azure credential: %w", err)
	}

	subscriptions, err := armsubscriptions.NewClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("build subscriptions client: %w", err)
	}
	resourceGroups, err := armresources.NewResourceGroupsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("build resource groups client: %w", err)
	}
	servers, err := armsql.NewServersClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("build sql servers client: %w", err)
	}
	pools, err := armsql.NewElasticPoolsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("build elastic pools client: %w", err)
	}
	databases, err := armsql.NewDatabasesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("build sql databases client: %w", err)
	}

	return &AzureClients{
		Subscriptions:  subscriptions,
		ResourceGroups: resourceGroups,
		Servers:        servers,
		Pools:          pools,
		Databases:      databases,
	}, nil
}

// isNotFound reports whether err is an ARM 404 response.
func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
