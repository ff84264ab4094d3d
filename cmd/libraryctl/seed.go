package main

import (
	"errors"
	"fmt"

	"library_backend/internal/service"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the configured admin and, optionally, demo data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc := a.cfg.Seed
			if sc.AdminEmail == "" || sc.AdminPassword == "" {
				return errors.New("seed.admin.email and seed.admin.password must be configured")
			}
			seeder := a.seeder()
			acct := service.AdminAccount{
				Email:    sc.AdminEmail,
				Username: sc.AdminUsername,
				Name:     sc.AdminName,
				Password: sc.AdminPassword,
			}
			created, err := seeder.EnsureAdmin(cmd.Context(), acct)
			if err != nil {
				return err
			}
			if err := reportAdmin(cmd.OutOrStdout(), acct, created); err != nil {
				return err
			}
			if !sample && !sc.SampleData {
				return nil
			}
			if err := seeder.SeedSampleData(cmd.Context(), sc.AdminEmail); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Sample data ready.")
			return err
		},
	}
	cmd.Flags().BoolVar(&sample, "sample-data", false, "also add demo books and a loan (default from seed.sample_data)")
	return cmd
}
