package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zoobzio/chassis"
)

var validateCmd = &cobra.Command{
	Use:   "validate <draft>",
	Short: "Apply a draft once and print the field report",
	Long: `Applies a JSON or YAML draft to the sign-up form, touches every field so
missing required values are reported, and prints the report.
Exits non-zero unless the form is valid.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("format", "yaml", "Report format (json, yaml)")
	validateCmd.Flags().Bool("touch", true, "Invalidate every field so absent values are validated")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, form, err := setup(cmd)
	if err != nil {
		return err
	}

	if err := applyFile(form, args[0]); err != nil {
		return err
	}

	if touch, _ := cmd.Flags().GetBool("touch"); touch {
		for _, name := range form.Fields() {
			if err := form.Invalidate(chassis.Name(name)); err != nil {
				return err
			}
		}
	}

	format, _ := cmd.Flags().GetString("format")
	var codec chassis.Codec
	switch format {
	case "json":
		codec = chassis.JSONCodec{}
	case "yaml":
		codec = chassis.YAMLCodec{}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	out, err := codec.Marshal(report{Status: form.Status().String(), Fields: form.Report()})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if form.Status() != chassis.StatusValid {
		return errors.New("draft is not valid")
	}
	return nil
}

type report struct {
	Status string                `json:"status" yaml:"status"`
	Fields []chassis.FieldStatus `json:"fields" yaml:"fields"`
}
