package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the keyword→category dictionary",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesDeleteCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dictionary entries in match order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.GetCategoryRules(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println("No dictionary entries yet.")
				return nil
			}
			fmt.Printf("%-6s %-30s %s\n", "ID", "KEYWORD", "CATEGORY")
			for _, rule := range rules {
				fmt.Printf("%-6d %-30s %s\n", rule.ID, rule.Keyword, rule.Category)
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <keyword> <category>",
		Short: "Add a keyword→category mapping",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.AddCategoryRule(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}
			fmt.Printf("Added keyword %q → %q\n", args[0], args[1])
			return nil
		},
	}
}

func categoriesDeleteCmd() *cobra.Command {
	var group string
	var reclassify bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete one keyword by id, or a whole category group",
		Long: `Delete a single dictionary entry by id, or with --group every entry
sharing a category label. Deleting a keyword resets all expenses under its
category label to VERIFICAR; a group delete does the same only when
--reclassify is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if group != "" {
				removed, err := store.DeleteCategoryGroup(cmd.Context(), group, reclassify)
				if err != nil {
					return fmt.Errorf("failed to delete category group: %w", err)
				}
				fmt.Printf("Removed %d keyword(s) from category %q\n", removed, group)
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("provide a keyword id or --group <category>")
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			if err := store.DeleteCategoryRule(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete keyword: %w", err)
			}
			fmt.Printf("Deleted keyword %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "delete every keyword with this category label")
	cmd.Flags().BoolVar(&reclassify, "reclassify", true, "with --group, reset affected expenses to VERIFICAR")

	return cmd
}
