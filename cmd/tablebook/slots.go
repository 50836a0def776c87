package main

import (
	"fmt"

	"github.com/spf13/cobra"

	slotRepo "github.com/m04kA/TableBookingService/internal/infra/storage/slot"
	slotsService "github.com/m04kA/TableBookingService/internal/service/slots"
	"github.com/m04kA/TableBookingService/pkg/dbmetrics"
	"github.com/m04kA/TableBookingService/pkg/types"
)

func newSlotsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Manage time slots",
	}
	cmd.AddCommand(newSlotsSeedCmd(configPath))
	return cmd
}

func newSlotsSeedCmd(configPath *string) *cobra.Command {
	var (
		dateStr string
		days    int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the slot set of service dates ahead of time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := types.ParseDate(dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", dateStr, err)
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}

			a, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			repo := slotRepo.NewRepository(dbmetrics.Wrap(a.db, nil))
			catalog := slotsService.NewService(repo, &a.policy, nil, nil, a.log)

			for i := 0; i < days; i++ {
				date := start.AddDays(i)
				slots, err := catalog.EnsureSlots(cmd.Context(), date)
				if err != nil {
					return fmt.Errorf("seed %s: %w", date, err)
				}
				if len(slots) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: not an operating day\n", date)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d slots\n", date, len(slots))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dateStr, "date", "", "first service date, YYYY-MM-DD")
	cmd.Flags().IntVar(&days, "days", 1, "number of consecutive dates to seed")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
