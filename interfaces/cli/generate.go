package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"appbuilder/domain/codegen"
	"appbuilder/domain/core/valueobjects"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate source files for a project snapshot",
	Long: `Generate the project file set for the design in a snapshot.

Every component element becomes one file under the output directory, plus
the entry point for the target language. Elements without a template for
the language are emitted as comment stubs and reported on stderr.

Examples:
  # Generate TypeScript into ./out
  appbuilder generate --in snapshot.json --language typescript --out out

  # Print the files as JSON instead of writing them
  appbuilder generate --in snapshot.yaml --language swift --json`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("in", "", "snapshot file (JSON or YAML, - for stdin)")
	generateCmd.Flags().String("language", string(valueobjects.LanguageTypeScript), "target language")
	generateCmd.Flags().String("out", "generated", "output directory")
	generateCmd.Flags().Bool("json", false, "print the file set as JSON instead of writing files")
	_ = generateCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	language, _ := cmd.Flags().GetString("language")
	outDir, _ := cmd.Flags().GetString("out")
	asJSON, _ := cmd.Flags().GetBool("json")

	lang := valueobjects.Language(language)
	if !lang.IsValid() {
		return fmt.Errorf("unsupported language %q", language)
	}

	snap, err := loadSnapshot(cmd, in)
	if err != nil {
		return err
	}

	result, err := codegen.NewGenerator().GenerateProject(snap.Elements, lang)
	if err != nil {
		return err
	}

	for _, n := range result.Notices {
		fmt.Fprintf(cmd.ErrOrStderr(), "notice: %s (%s)\n", n.Message, n.ElementName)
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	for _, f := range result.Files {
		target := filepath.Join(outDir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), target)
	}
	return nil
}
