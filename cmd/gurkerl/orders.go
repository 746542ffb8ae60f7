package main

import (
	"github.com/spf13/cobra"

	ordersvc "gurkerl-cli/internal/service/order"
)

func newOrdersCmd(a *app) *cobra.Command {
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "Show recent orders",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return usageError{errInvalidLimit}
			}
			orders, err := a.orders.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(a.out, orders)
			}
			return renderOrders(a.out, orders)
		},
	}
	list.Flags().IntVarP(&limit, "limit", "l", ordersvc.DefaultLimit, "Maximum number of orders")

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order history",
	}
	cmd.AddCommand(list, &cobra.Command{
		Use:   "show ORDER_NUMBER",
		Short: "Show order details",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := a.orders.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(a.out, order)
			}
			return renderOrder(a.out, order)
		},
	})
	return cmd
}
