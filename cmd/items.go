package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chrisdamba/menusight/internal/models"
	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List and edit menu items",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List menu items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return printItems(cmd.OutOrStdout(), a.store.Snapshot().MenuItems)
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a menu item",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		category, _ := flags.GetString("category")
		cost, _ := flags.GetFloat64("cost")
		price, _ := flags.GetFloat64("price")
		sales, _ := flags.GetInt("sales")
		raw := models.RawMenuItem{Name: name, Category: category, Cost: cost, Price: price, SalesCount: sales}
		if flags.Changed("waste") {
			waste, _ := flags.GetFloat64("waste")
			raw.WastePercentage = &waste
		}

		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		item, err := a.store.AddItem(cmd.Context(), raw)
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), []models.MenuItem{item})
	},
}

var itemsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a menu item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var patch models.MenuItemPatch
		if flags.Changed("name") {
			v, _ := flags.GetString("name")
			patch.Name = &v
		}
		if flags.Changed("category") {
			v, _ := flags.GetString("category")
			patch.Category = &v
		}
		if flags.Changed("cost") {
			v, _ := flags.GetFloat64("cost")
			patch.Cost = &v
		}
		if flags.Changed("price") {
			v, _ := flags.GetFloat64("price")
			patch.Price = &v
		}
		if flags.Changed("sales") {
			v, _ := flags.GetInt("sales")
			patch.SalesCount = &v
		}
		if flags.Changed("waste") {
			v, _ := flags.GetFloat64("waste")
			patch.WastePercentage = &v
		}

		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		item, err := a.store.UpdateItem(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), []models.MenuItem{item})
	},
}

var itemsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a menu item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.store.DeleteItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var itemsReplaceCmd = &cobra.Command{
	Use:   "replace <file.json>",
	Short: "Replace the whole menu from a JSON file",
	Long:  "Replace the whole menu. The file holds either an array of items or an object with a menuItems array.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		raws, err := decodeMenuFile(data)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		items, err := a.store.ReplaceAll(cmd.Context(), raws)
		if err != nil {
			return err
		}
		return printItems(cmd.OutOrStdout(), items)
	},
}

func decodeMenuFile(data []byte) ([]models.RawMenuItem, error) {
	var raws []models.RawMenuItem
	if err := json.Unmarshal(data, &raws); err == nil {
		return raws, nil
	}
	var wrapped struct {
		MenuItems []models.RawMenuItem `json:"menuItems"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrParse, err)
	}
	return wrapped.MenuItems, nil
}

func addItemFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Item name")
	cmd.Flags().String("category", "", "Item category")
	cmd.Flags().Float64("cost", 0, "Unit cost")
	cmd.Flags().Float64("price", 0, "Menu price")
	cmd.Flags().Int("sales", 0, "Units sold")
	cmd.Flags().Float64("waste", 0, "Measured waste percentage; estimated when omitted")
}

func init() {
	addItemFlags(itemsAddCmd)
	addItemFlags(itemsUpdateCmd)
	itemsCmd.AddCommand(itemsListCmd, itemsAddCmd, itemsUpdateCmd, itemsDeleteCmd, itemsReplaceCmd)
	rootCmd.AddCommand(itemsCmd)
}
