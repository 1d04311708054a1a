package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func resyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Stamp dictionary categories onto matching expenses",
		Long: `For every usable keyword, set its category on each expense whose
description contains the keyword. Keywords apply in dictionary order and
later keywords overwrite earlier ones.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			updated, err := store.ResyncExpenses(cmd.Context())
			if err != nil {
				return fmt.Errorf("resync failed: %w", err)
			}
			fmt.Printf("%d expense update(s) applied\n", updated)
			return nil
		},
	}
}

func recategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize",
		Short: "Recompute every expense's category from the dictionary",
		Long: `Recompute the category of every expense with the classifier's
first-match policy, writing only actual changes. Running it twice in a row
changes nothing the second time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			changed, err := store.RecategorizeAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("recategorize failed: %w", err)
			}
			fmt.Printf("%d expense(s) recategorized\n", changed)
			return nil
		},
	}
}

func harmonizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "harmonize",
		Short: "Create dictionary entries for orphan expense categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			added, skipped, err := store.HarmonizeCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("harmonize failed: %w", err)
			}
			fmt.Printf("%d category(ies) added, %d skipped\n", added, skipped)
			return nil
		},
	}
}
