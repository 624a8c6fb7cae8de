package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"appbuilder/domain/reconcile"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Show the logic nodes a reconcile pass would add or remove",
	Long: `Compute the reconcile plan for a snapshot without applying it.

The plan lists the derived nodes missing for interactive elements and the
derived nodes whose element no longer exists. An empty plan means the logic
graph is already in line with the design.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().String("in", "", "snapshot file (JSON or YAML, - for stdin)")
	reconcileCmd.Flags().Float64("offset-x", reconcile.DefaultOffsetX, "horizontal offset of new nodes from their element")
	_ = reconcileCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	offsetX, _ := cmd.Flags().GetFloat64("offset-x")

	snap, err := loadSnapshot(cmd, in)
	if err != nil {
		return err
	}

	plan := reconcile.New(offsetX).Reconcile(snap.Elements, snap.Nodes)
	if plan.IsEmpty() {
		fmt.Fprintln(cmd.ErrOrStderr(), "logic graph is up to date")
	}
	return writeJSON(cmd.OutOrStdout(), plan)
}
