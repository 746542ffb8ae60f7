package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gurkerl-cli/internal/domain"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Shopping cart management",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  showCart(a),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"show"},
			Short:   "Show cart contents",
			Args:    usageArgs(cobra.NoArgs),
			RunE:    showCart(a),
		},
		newCartAddCmd(a),
		newCartRemoveCmd(a),
		newCartClearCmd(a),
	)
	return cmd
}

func showCart(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cart, err := a.cart.Fetch(cmd.Context())
		if err != nil {
			return err
		}
		return a.printCart(cart)
	}
}

func (a *app) printCart(cart *domain.Cart) error {
	if a.json {
		return writeJSON(a.out, cart)
	}
	return renderCart(a.out, cart)
}

func newCartAddCmd(a *app) *cobra.Command {
	var quantity int
	cmd := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add a product to the cart",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductArg(args[0])
			if err != nil {
				return err
			}
			cart, err := a.cart.Add(cmd.Context(), id, quantity)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(a.out, cart)
			}
			item, _ := cart.Item(id)
			fmt.Fprintf(a.out, "Added %dx %s (now %d in cart)\n", quantity, item.Name, item.Quantity)
			fmt.Fprintf(a.out, "Cart total: %s\n", euro(cart.TotalPrice))
			return nil
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Quantity to add")
	return cmd
}

func newCartRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PRODUCT_ID",
		Short: "Remove a product from the cart",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProductArg(args[0])
			if err != nil {
				return err
			}
			cart, err := a.cart.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(a.out, cart)
			}
			fmt.Fprintf(a.out, "Removed product %d from cart\n", id)
			return nil
		},
	}
}

func newCartClearCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all items from the cart",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force && !a.confirm("Are you sure you want to clear the cart?") {
				fmt.Fprintln(a.out, "Cart clear cancelled")
				return nil
			}
			res, err := a.cart.Clear(cmd.Context())
			if res == nil {
				return err
			}
			if a.json {
				if jsonErr := writeJSON(a.out, res); jsonErr != nil {
					return jsonErr
				}
				return err
			}
			fmt.Fprintf(a.out, "Cleared %d items from cart\n", len(res.Removed))
			for _, f := range res.Failed {
				fmt.Fprintf(a.errOut, "Could not remove %s (%d): %v\n", f.Item.Name, f.Item.ProductID, f.Err)
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func parseProductArg(s string) (domain.ProductID, error) {
	id, err := domain.ParseProductID(s)
	if err != nil || id <= 0 {
		return 0, usageError{fmt.Errorf("invalid product id %q", s)}
	}
	return id, nil
}
