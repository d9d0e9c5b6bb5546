package commands

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"landreg/internal/domain"
)

// parcelView is what `parcel` prints: the decoded parcel when the record has
// the expected shape, and always the record exactly as the node sent it.
type parcelView struct {
	ID     domain.ParcelID         `json:"id" yaml:"id"`
	Source domain.ResolutionSource `json:"source" yaml:"source"`
	Parcel *domain.LandParcel      `json:"parcel,omitempty" yaml:"parcel,omitempty"`
	Record any                     `json:"record" yaml:"record"`
}

func parcelCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "parcel <id>",
		Short: "Show a parcel from the registry",
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
			rec, err := w.Resolver.GetParcel(cmd.Context(), id)
			if err != nil {
				return err
			}

			view := parcelView{ID: rec.ID, Source: rec.Source}
			dec := json.NewDecoder(bytes.NewReader(rec.Raw))
			dec.UseNumber()
			if err := dec.Decode(&view.Record); err != nil {
				return err
			}
			if p, err := rec.Parcel(); err == nil {
				view.Parcel = &p
			} else {
				c.logger.Debug("parcel record not decoded", zap.Error(err))
			}
			return render(cmd.OutOrStdout(), c.opts.output, view)
		},
	}
}

func nextIDCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "next-id",
		Short: "Show the id the next submitted parcel will get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := c.wired()
			if err != nil {
				return err
			}
			id, err := w.Resolver.GetNextID(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.opts.output, map[string]uint64{"next_parcel_id": id})
		},
	}
}
