package commands

import (
	"context"

	"github.com/spf13/cobra"

	"landreg/internal/domain"
)

func submitCmd(c *cli) *cobra.Command {
	var params domain.SubmitLandParams
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a new land claim",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := c.wired()
			if err != nil {
				return err
			}
			receipt, err := w.Dispatcher.Submit(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.opts.output, receipt)
		},
	}
	f := cmd.Flags()
	f.StringVar(&params.KhasraNumber, "khasra", "", "khasra (plot) number")
	f.StringVar(&params.DocumentCID, "cid", "", "content id of the supporting document")
	f.Uint64Var(&params.AreaSqm, "area", 0, "area in square metres")
	f.StringVar(&params.Notes, "notes", "", "free-form notes")
	f.StringVar(&params.Village, "village", "", "village")
	f.StringVar(&params.Tehsil, "tehsil", "", "tehsil")
	f.StringVar(&params.District, "district", "", "district")
	_ = cmd.MarkFlagRequired("khasra")
	_ = cmd.MarkFlagRequired("district")
	return cmd
}

type statusAction func(domain.ParcelDispatcher, context.Context, domain.ParcelID) (domain.TxReceipt, error)

// statusCmd builds approve, reject and dispute, which differ only in the
// entry function they call.
func statusCmd(c *cli, use, short string, action statusAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseParcelID(args[0])
			if err != nil {
				return err
			}
			w, err := c.wired()
			if err != nil {
				return err
			}
			receipt, err := action(w.Dispatcher, cmd.Context(), id)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.opts.output, receipt)
		},
	}
}

func transferCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <id> <address>",
		Short: "Transfer a parcel to a new owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseParcelID(args[0])
			if err != nil {
				return err
			}
			w, err := c.wired()
			if err != nil {
				return err
			}
			receipt, err := w.Dispatcher.Transfer(cmd.Context(), id, domain.Address(args[1]))
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.opts.output, receipt)
		},
	}
}
