package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridops/epo/pkg/scenario"
)

// ErrValidationFailed is returned when any scenario file fails validation
var ErrValidationFailed = errors.New("scenario validation failed")

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	validateCfgFile string
)

//nolint:gochecknoglobals // Cobra commands are typically global
var validateCmd = &cobra.Command{
	Use:   "validate [scenario-file...]",
	Short: "Validate scenario definition files",
	Long: `Renders, parses, and fully builds each scenario file, reporting every
unknown set member, misshaped parameter row, or horizon problem. Without
arguments, all files under the configured scenario paths are checked.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateCfgFile, "config", "epo.yaml", "config file (default is epo.yaml)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	files := args

	if len(files) == 0 {
		config, err := LoadAppConfig(validateCfgFile)
		if err != nil {
			return err
		}

		files, err = scenario.DiscoverPaths(config.Scenarios.Paths)
		if err != nil {
			return err
		}
	}

	if len(files) == 0 {
		logger.Warn("No scenario files found")
		return nil
	}

	failed := 0

	for _, file := range files {
		scn, err := scenario.LoadFile(logger, file)
		if err != nil {
			failed++

			fmt.Printf("FAIL  %s\n      %v\n", file, err)

			continue
		}

		fmt.Printf("OK    %s  (%s/%s v%d, %d model years)\n",
			file, scn.Model, scn.Name, scn.Version, len(scn.ModelYears()))
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d files failed\n", failed, len(files))
		return ErrValidationFailed
	}

	return nil
}
