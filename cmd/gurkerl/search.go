package main

import (
	"strings"

	"github.com/spf13/cobra"

	productsvc "gurkerl-cli/internal/service/product"
)

func newSearchCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search the product catalog",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return usageError{errInvalidLimit}
			}
			products, err := a.products.Search(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if a.json {
				return writeJSON(a.out, products)
			}
			return renderProducts(a.out, products)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", productsvc.DefaultLimit, "Maximum number of results")
	return cmd
}
