package provisioning

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/service"
)

// Locator resolves subscription -> resource group -> server and short-circuits
// the moment any link is absent. A missing resource is a deployment or
// permissions fault, so there is no retry here.
type Locator struct {
	clients *AzureClients
	pctx    service.ProvisioningContext
	logger  *zap.Logger
}

// NewLocator constructs a Locator.
func NewLocator(clients *AzureClients, pctx service.ProvisioningContext, logger *zap.Logger) *Locator {
	if clients == nil {
		panic("locator requires azure clients")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Locator{clients: clients, pctx: pctx, logger: logger}
}

// Resolve walks the resource chain in order and returns the server reference
// the rest of the pipeline targets.
func (l *Locator) Resolve(ctx context.Context) (service.ServerRef, error) {
	if _, err := l.clients.Subscriptions.Get(ctx, l.pctx.SubscriptionID, nil); err != nil {
		if isNotFound(err) {
			return service.ServerRef{}, fmt.Errorf("%w: subscription %q", service.ErrResourceNotFound, l.pctx.SubscriptionID)
		}
		return service.ServerRef{}, fmt.Errorf("get subscription %q: %w", l.pctx.SubscriptionID, err)
	}
	l.logger.Debug("subscription resolved", zap.String("subscription_id", l.pctx.SubscriptionID))

	if _, err := l.clients.ResourceGroups.Get(ctx, l.pctx.ResourceGroup, nil); err != nil {
		if isNotFound(err) {
			return service.ServerRef{}, fmt.Errorf("%w: resource group %q", service.ErrResourceNotFound, l.pctx.ResourceGroup)
		}
		return service.ServerRef{}, fmt.Errorf("get resource group %q: %w", l.pctx.ResourceGroup, err)
	}
	l.logger.Debug("resource group resolved", zap.String("resource_group", l.pctx.ResourceGroup))

	resp, err := l.clients.Servers.Get(ctx, l.pctx.ResourceGroup, l.pctx.ServerName, nil)
	if err != nil {
		if isNotFound(err) {
			return service.ServerRef{}, fmt.Errorf("%w: sql server %q", service.ErrResourceNotFound, l.pctx.ServerName)
		}
		return service.ServerRef{}, fmt.Errorf("get sql server %q: %w", l.pctx.ServerName, err)
	}

	ref := service.ServerRef{
		Name:     l.pctx.ServerName,
		Location: deref(resp.Location),
	}
	if resp.Properties != nil {
		ref.FQDN = deref(resp.Properties.FullyQualifiedDomainName)
	}
	return ref, nil
}

var _ service.ResourceLocator = (*Locator)(nil)
