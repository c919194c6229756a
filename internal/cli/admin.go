package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sanjeetkumar61/FormBuilder/internal/config"
	"github.com/Sanjeetkumar61/FormBuilder/internal/logging"
	"github.com/Sanjeetkumar61/FormBuilder/internal/repository"
	"github.com/Sanjeetkumar61/FormBuilder/internal/service"
)

func adminCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var name, email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Store != config.StoreMongo {
				return errors.New("admin create needs the mongo store; the memory store does not outlive the command")
			}
			logger, closeLog, err := logging.New(cfg.LogLevel, "")
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			st, err := openStores(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.close()
			// The unique email index must exist before the first insert.
			if repo, ok := st.admins.(*repository.AdminRepo); ok {
				if err := repo.EnsureIndexes(ctx); err != nil {
					return fmt.Errorf("ensure admin indexes: %w", err)
				}
			}

			svc := service.NewAuthService(st.admins, cfg.JWTSecret, cfg.TokenTTL)
			admin, err := svc.CreateAdmin(ctx, name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s <%s> (id %s)\n", admin.Name, admin.Email, admin.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Admin display name")
	create.Flags().StringVar(&email, "email", "", "Admin email (login)")
	create.Flags().StringVar(&password, "password", "", "Admin password")
	create.MarkFlagRequired("name")
	create.MarkFlagRequired("email")
	create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}
