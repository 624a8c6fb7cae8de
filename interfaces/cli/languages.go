package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"appbuilder/domain/core/valueobjects"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported target languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		langs := valueobjects.Languages()

		switch format {
		case "json":
			return writeJSON(cmd.OutOrStdout(), langs)
		case "yaml":
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(langs); err != nil {
				return err
			}
			return enc.Close()
		case "table", "":
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEXTENSION\tHIGHLIGHT")
			for _, l := range langs {
				fmt.Fprintf(tw, "%s\t.%s\t%s\n", l.ID, l.Extension, l.Highlight)
			}
			return tw.Flush()
		default:
			return fmt.Errorf("unknown format %q (use table, json or yaml)", format)
		}
	},
}

func init() {
	languagesCmd.Flags().String("format", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(languagesCmd)
}
