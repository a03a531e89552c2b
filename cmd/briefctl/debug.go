package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/briefctl/internal/api"
	"github.com/example/briefctl/internal/views"
)

func newDebugCommand(r *root) *cobra.Command {
	var expandAll bool
	cmd := &cobra.Command{
		Use:   "debug REQUEST_ID",
		Short: "Show the novelty filter's kept, compared and discarded texts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID := args[0]
			if _, err := uuid.Parse(requestID); err != nil {
				return fmt.Errorf("invalid request id %q: %w", requestID, err)
			}
			data, err := r.client().Debug(cmd.Context(), requestID)
			view := views.NewDebugView()
			out := cmd.OutOrStdout()
			if err != nil {
				view.RenderError(out, err)
				if errors.Is(err, api.ErrDebugNotFound) {
					return nil
				}
				return err
			}
			if expandAll {
				for id := range data.Entities {
					view.ToggleEntity(id)
				}
			}
			view.Render(out, data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&expandAll, "expand", false, "Expand every entity's sections")
	return cmd
}
