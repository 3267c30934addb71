// Copyright (c) 2026 Troca. All rights reserved.
// Author: equipe@doatroca.app

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doatroca/troca/internal/catalog"
)

var (
	// items list flags
	listQuery     string
	listCategory  string
	listCondition string
	listCity      string
	listDonation  string
	listSkip      int
	listLimit     int

	// items create/update flags
	itemTitle       string
	itemDescription string
	itemCategory    string
	itemCondition   string
	itemCity        string
	itemExchange    bool
)

// categoriesCmd lists the item categories.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List item categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

// itemsCmd groups the item subcommands.
var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Browse and manage marketplace items",
	Long: `Browse the public catalog and manage your own items.

Listing and lookup are public; create, update and delete require a session.`,
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items, optionally filtered",
	Args:  cobra.NoArgs,
	RunE:  runItemsList,
}

var itemsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one item as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsGet,
}

var itemsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new item",
	Long: `Publish a new item. Items are donations unless --exchange is given.

Example:
  troca items create --title "Sofá 2 lugares" --category 2 --condition used`,
	Args: cobra.NoArgs,
	RunE: runItemsCreate,
}

var itemsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an item you own",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsUpdate,
}

var itemsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an item you own",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsDelete,
}

func init() {
	itemsListCmd.Flags().StringVarP(&listQuery, "query", "q", "", "sub-string search over title, description and city")
	itemsListCmd.Flags().StringVar(&listCategory, "category", "", "filter by category id")
	itemsListCmd.Flags().StringVar(&listCondition, "condition", "", "filter by condition (new, used, refurb)")
	itemsListCmd.Flags().StringVar(&listCity, "city", "", "filter by city")
	itemsListCmd.Flags().StringVar(&listDonation, "donation", "", "filter by kind: true (donations) or false (exchanges)")
	itemsListCmd.Flags().IntVar(&listSkip, "skip", 0, "number of items to skip")
	itemsListCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of items (server default when 0)")

	for _, cmd := range []*cobra.Command{itemsCreateCmd, itemsUpdateCmd} {
		cmd.Flags().StringVar(&itemTitle, "title", "", "item title (required)")
		cmd.Flags().StringVar(&itemDescription, "description", "", "item description")
		cmd.Flags().StringVar(&itemCategory, "category", "", "category id")
		cmd.Flags().StringVar(&itemCondition, "condition", "", "condition: new, used or refurb (default used)")
		cmd.Flags().StringVar(&itemCity, "city", "", "item city")
		cmd.Flags().BoolVar(&itemExchange, "exchange", false, "offer for exchange instead of donation")
	}

	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsGetCmd)
	itemsCmd.AddCommand(itemsCreateCmd)
	itemsCmd.AddCommand(itemsUpdateCmd)
	itemsCmd.AddCommand(itemsDeleteCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	categories, err := application.catalog.Categories(cmd.Context())
	if err != nil {
		return err
	}

	for _, cat := range categories {
		fmt.Printf("%-8s %s\n", cat.ID, cat.Name)
	}
	return nil
}

func runItemsList(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	filter := catalog.Filter{
		Query:      listQuery,
		CategoryID: listCategory,
		Condition:  listCondition,
		City:       listCity,
		Skip:       listSkip,
		Limit:      listLimit,
	}
	switch listDonation {
	case "":
	case "true":
		yes := true
		filter.IsDonation = &yes
	case "false":
		no := false
		filter.IsDonation = &no
	default:
		return fmt.Errorf("--donation accepts 'true' or 'false', got %q", listDonation)
	}

	items, err := application.catalog.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	for _, listing := range items {
		kind := "donation"
		if !listing.IsDonation {
			kind = "exchange"
		}
		fmt.Printf("%-12s %-9s %-12s %s\n", listing.ID, kind, listing.Condition, listing.Title)
	}
	return nil
}

func runItemsGet(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	listing, err := application.catalog.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(listing)
}

func runItemsCreate(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	if _, err := application.requireSession(cmd.Context()); err != nil {
		return err
	}

	created, err := application.catalog.Create(cmd.Context(), itemInputFromFlags())
	if err != nil {
		return err
	}

	fmt.Printf("Created item %s: %s\n", created.ID, created.Title)
	return nil
}

func runItemsUpdate(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	if _, err := application.requireSession(cmd.Context()); err != nil {
		return err
	}

	updated, err := application.catalog.Update(cmd.Context(), args[0], itemInputFromFlags())
	if err != nil {
		return err
	}

	fmt.Printf("Updated item %s: %s\n", updated.ID, updated.Title)
	return nil
}

func runItemsDelete(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer application.close()

	if _, err := application.requireSession(cmd.Context()); err != nil {
		return err
	}

	if err := application.catalog.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted item %s\n", args[0])
	return nil
}

func itemInputFromFlags() catalog.ItemInput {
	return catalog.ItemInput{
		Title:       itemTitle,
		Description: itemDescription,
		CategoryID:  itemCategory,
		IsDonation:  !itemExchange,
		Condition:   itemCondition,
		City:        itemCity,
	}
}

func printJSON(payload any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
