package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var errInvalidLimit = errors.New("--limit must be positive")

func newListsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "Shopping list management",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show all shopping lists",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				lists, err := a.lists.List(cmd.Context())
				if err != nil {
					return err
				}
				if a.json {
					return writeJSON(a.out, lists)
				}
				return renderLists(a.out, lists)
			},
		},
		&cobra.Command{
			Use:   "show LIST_ID",
			Short: "Show a shopping list",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseListArg(args[0])
				if err != nil {
					return err
				}
				list, err := a.lists.Show(cmd.Context(), id)
				if err != nil {
					return err
				}
				if a.json {
					return writeJSON(a.out, list)
				}
				return renderList(a.out, list)
			},
		},
		&cobra.Command{
			Use:   "create NAME...",
			Short: "Create a shopping list",
			Args:  usageArgs(cobra.MinimumNArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.Join(args, " ")
				if strings.TrimSpace(name) == "" {
					return usageError{errors.New("list name must not be empty")}
				}
				list, err := a.lists.Create(cmd.Context(), name)
				if err != nil {
					return err
				}
				if a.json {
					return writeJSON(a.out, list)
				}
				fmt.Fprintf(a.out, "Created shopping list %q (ID: %d)\n", list.Name, list.ID)
				return nil
			},
		},
		newListDeleteCmd(a),
	)
	return cmd
}

func newListDeleteCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete LIST_ID",
		Short: "Delete a shopping list",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseListArg(args[0])
			if err != nil {
				return err
			}
			if !force && !a.confirm(fmt.Sprintf("Delete shopping list %d?", id)) {
				fmt.Fprintln(a.out, "Delete cancelled")
				return nil
			}
			if err := a.lists.Delete(cmd.Context(), id); err != nil {
				return err
			}
			if a.json {
				return writeJSON(a.out, map[string]any{"deleted": id})
			}
			fmt.Fprintf(a.out, "Deleted shopping list %d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func parseListArg(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError{fmt.Errorf("invalid list id %q", s)}
	}
	return id, nil
}
