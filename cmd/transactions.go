package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/taxjar-go/taxjar"
)

var (
	listParams taxjar.ListOrdersParams
	noConfirm  bool
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Manage order transactions",
}

var refundsCmd = &cobra.Command{
	Use:   "refunds",
	Short: "Manage refund transactions",
}

func init() {
	ordersCmd.AddCommand(
		listCommand("orders", func(cmd *cobra.Command) ([]string, error) {
			return client.ListOrders(cmd.Context(), listFilter())
		}),
		&cobra.Command{
			Use:   "show ID",
			Short: "Show an order transaction",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				order, err := client.ShowOrder(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to get order %s: %w", args[0], err)
				}
				return renderTransaction(cmd, "Order", order)
			},
		},
		writeCommand("create", "Create an order transaction from a JSON file", func(cmd *cobra.Command, path string) error {
			var params taxjar.OrderParams
			if err := readParams(path, &params); err != nil {
				return err
			}
			order, err := client.CreateOrder(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			logger.Info().Str("transaction_id", order.TransactionID).Msg("Created order")
			return renderTransaction(cmd, "Order", order)
		}),
		writeCommand("update", "Update an order transaction from a JSON file", func(cmd *cobra.Command, path string) error {
			var params taxjar.OrderParams
			if err := readParams(path, &params); err != nil {
				return err
			}
			order, err := client.UpdateOrder(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
			logger.Info().Str("transaction_id", order.TransactionID).Msg("Updated order")
			return renderTransaction(cmd, "Order", order)
		}),
		deleteCommand("order", func(cmd *cobra.Command, id string) (taxjar.Order, error) {
			return client.DeleteOrder(cmd.Context(), id)
		}),
	)

	refundsCmd.AddCommand(
		listCommand("refunds", func(cmd *cobra.Command) ([]string, error) {
			return client.ListRefunds(cmd.Context(), (*taxjar.ListRefundsParams)(listFilter()))
		}),
		&cobra.Command{
			Use:   "show ID",
			Short: "Show a refund transaction",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				refund, err := client.ShowRefund(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to get refund %s: %w", args[0], err)
				}
				return renderTransaction(cmd, "Refund", taxjar.Order(refund))
			},
		},
		writeCommand("create", "Create a refund transaction from a JSON file", func(cmd *cobra.Command, path string) error {
			var params taxjar.RefundParams
			if err := readParams(path, &params); err != nil {
				return err
			}
			refund, err := client.CreateRefund(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to create refund: %w", err)
			}
			logger.Info().Str("transaction_id", refund.TransactionID).Msg("Created refund")
			return renderTransaction(cmd, "Refund", taxjar.Order(refund))
		}),
		writeCommand("update", "Update a refund transaction from a JSON file", func(cmd *cobra.Command, path string) error {
			var params taxjar.RefundParams
			if err := readParams(path, &params); err != nil {
				return err
			}
			refund, err := client.UpdateRefund(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to update refund: %w", err)
			}
			logger.Info().Str("transaction_id", refund.TransactionID).Msg("Updated refund")
			return renderTransaction(cmd, "Refund", taxjar.Order(refund))
		}),
		deleteCommand("refund", func(cmd *cobra.Command, id string) (taxjar.Order, error) {
			refund, err := client.DeleteRefund(cmd.Context(), id)
			return taxjar.Order(refund), err
		}),
	)

	rootCmd.AddCommand(ordersCmd, refundsCmd)
}

// listFilter returns the date filter from flags, or nil when none is set
func listFilter() *taxjar.ListOrdersParams {
	if listParams == (taxjar.ListOrdersParams{}) {
		return nil
	}
	p := listParams
	return &p
}

func listCommand(kind string, list func(cmd *cobra.Command) ([]string, error)) *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List " + kind + " transaction IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := list(cmd)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", kind, err)
			}
			return render(cmd.OutOrStdout(), ids, func(w io.Writer) { printIDs(w, kind, ids) })
		},
	}
	c.Flags().StringVar(&listParams.TransactionDate, "date", "", "transaction date (YYYY/MM/DD)")
	c.Flags().StringVar(&listParams.FromTransactionDate, "from", "", "start of date range (YYYY/MM/DD)")
	c.Flags().StringVar(&listParams.ToTransactionDate, "to", "", "end of date range (YYYY/MM/DD)")
	c.Flags().StringVar(&listParams.Provider, "provider", "", "transaction source, e.g. api")
	return c
}

func writeCommand(use, short string, run func(cmd *cobra.Command, path string) error) *cobra.Command {
	var file string
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, file)
		},
	}
	c.Flags().StringVar(&file, "file", "", "JSON file with transaction parameters")
	_ = c.MarkFlagRequired("file")
	return c
}

func deleteCommand(kind string, del func(cmd *cobra.Command, id string) (taxjar.Order, error)) *cobra.Command {
	c := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + kind + " transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !noConfirm && !confirm(cmd, fmt.Sprintf("Delete %s %s? [y/N]: ", kind, id)) {
				logger.Info().Str("transaction_id", id).Msg("Deletion cancelled")
				return nil
			}

			deleted, err := del(cmd, id)
			if err != nil {
				return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
			}
			logger.Info().Str("transaction_id", id).Msgf("Deleted %s", kind)
			return renderTransaction(cmd, strings.ToUpper(kind[:1])+kind[1:], deleted)
		},
	}
	c.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
	return c
}

// confirm asks a yes/no question on the command's input
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	return strings.ToLower(strings.TrimSpace(scanner.Text())) == "y"
}

func renderTransaction(cmd *cobra.Command, kind string, o taxjar.Order) error {
	return render(cmd.OutOrStdout(), o, func(w io.Writer) { printTransaction(w, kind, o) })
}
