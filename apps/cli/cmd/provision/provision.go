package provisioncmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/provisioning"
	"github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/service"
	platformlogging "github.com/zenGate-Global/palmyra-pool-provisioner/platform/go/logging"
)

// Command provisions a tenant database from the command line. Cloud identity
// and all pool/server settings come from the environment, same as the API.
func Command() *cobra.Command {
	var (
		tenantID   int64
		tenantName string
		logLevel   string
	)

	c := &cobra.Command{
		Use:   "provision",
		Short: "Provision a tenant database inside an elastic pool and issue a credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			logger, err := platformlogging.NewLogger(platformlogging.Config{
				Component: "provisioner-cli",
				Level:     logLevel,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			pctx, err := service.LoadProvisioningContext()
			if err != nil {
				return err
			}

			clients, err := provisioning.NewAzureClients(pctx.SubscriptionID)
			if err != nil {
				return fmt.Errorf("init azure clients: %w", err)
			}

			svc := service.New(pctx, service.Deps{
				Locator:   provisioning.NewLocator(clients, pctx, logger),
				Pools:     provisioning.NewPoolManager(clients, pctx.ResourceGroup, logger),
				Databases: provisioning.NewDatabaseManager(clients, pctx.ResourceGroup, logger),
				SQL:       provisioning.NewMSSQLRunner(logger),
			}, logger)

			result, err := svc.ProvisionTenantDatabase(ctx, service.Tenant{ID: tenantID, Name: tenantName})
			if err != nil {
				return err
			}

			if !result.Created {
				fmt.Printf("database %s already provisioned, nothing to do\n", result.DatabaseName)
				return nil
			}

			fmt.Printf("database:          %s\n", result.DatabaseName)
			fmt.Printf("pool:              %s\n", result.Pool.Name)
			fmt.Printf("login:             %s\n", result.Credential.Login)
			fmt.Printf("connection string: %s\n", result.Credential.ConnectionString)
			return nil
		},
	}

	c.Flags().Int64Var(&tenantID, "tenant-id", 0, "portal id of the tenant (required)")
	c.Flags().StringVar(&tenantName, "tenant-name", "", "display name of the tenant (required)")
	c.Flags().StringVar(&logLevel, "log-level", "info", "minimum log severity")
	_ = c.MarkFlagRequired("tenant-id")
	_ = c.MarkFlagRequired("tenant-name")

	return c
}
