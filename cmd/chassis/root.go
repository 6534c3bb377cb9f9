package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/chassis"
	"github.com/zoobzio/chassis/internal/logging"
	"github.com/zoobzio/chassis/internal/registration"
)

var rootCmd = &cobra.Command{
	Use:   "chassis",
	Short: "Validate and watch sign-up form drafts",
	Long: `chassis loads form drafts (JSON or YAML patches keyed by field name) into
a reactive sign-up form and reports the validation state of every field.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("seed", "", "Draft file applied before anything else")
}

// setup builds the logger, bridges chassis signals into it and returns a
// fresh sign-up form with the seed draft applied.
func setup(cmd *cobra.Command) (*slog.Logger, *chassis.Chassis[registration.Form], error) {
	levelFlag, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(levelFlag)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(level)
	logging.Bridge(logger)

	form, err := registration.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build form: %w", err)
	}

	seed, _ := cmd.Flags().GetString("seed")
	if seed != "" {
		if err := applyFile(form, seed); err != nil {
			return nil, nil, fmt.Errorf("failed to apply seed: %w", err)
		}
		logger.Debug("seed applied", "path", seed)
	}
	return logger, form, nil
}

// applyFile decodes path with the codec matching its extension and applies
// it to form as one patch.
func applyFile(form *chassis.Chassis[registration.Form], path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var patch chassis.Patch
	if err := chassis.CodecFor(path).Unmarshal(data, &patch); err != nil {
		return fmt.Errorf("%w: %w", chassis.ErrDecode, err)
	}
	return form.Apply(patch)
}
