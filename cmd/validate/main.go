// Command validate checks that one or more JSON instance documents conform
// to one or more draft-04 JSON Schemas. Thin wrapper over the
// walbottle/schema evaluator — out of scope for the core library itself, but
// recorded here for compatibility with the documented CLI surface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pwithnall/walbottle/internal/cliutil"
	"github.com/pwithnall/walbottle/schema"
)

const (
	exitOK = iota
	exitBadOptions
	exitJSONParseFailure
	exitSchemaParseFailure
	exitValidationFailure
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var schemaFiles []string
	var quiet, ignoreErrors bool
	logCfg := cliutil.NewLogConfig()

	exitCode := exitOK

	rootCmd := &cobra.Command{
		Use:           "validate [flags] FILE...",
		Short:         "Validate JSON documents against one or more draft-04 JSON Schemas",
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, files []string) error {
			handler, err := logCfg.NewHandler(os.Stderr)
			if err != nil {
				exitCode = exitBadOptions
				return err
			}
			logger := slog.New(handler)

			if len(schemaFiles) == 0 {
				exitCode = exitBadOptions
				return fmt.Errorf("at least one --schema is required")
			}

			schemas := make([]*schema.Schema, 0, len(schemaFiles))
			for _, sf := range schemaFiles {
				schemaBytes, err := cliutil.ReadSchemaBytes(sf)
				if err != nil {
					exitCode = exitSchemaParseFailure
					return err
				}
				s, msgs, err := schema.Load(schemaBytes)
				if err != nil {
					exitCode = exitSchemaParseFailure
					return fmt.Errorf("%s: %w", sf, err)
				}
				for _, m := range msgs {
					if !quiet {
						logger.Warn("schema warning", "file", sf, "message", m.Error())
					}
				}
				schemas = append(schemas, s)
			}

			for _, file := range files {
				instance, err := cliutil.ReadFile(file)
				if err != nil {
					exitCode = exitJSONParseFailure
					if !quiet {
						logger.Error("reading instance", "file", file, "err", err)
					}
					if !ignoreErrors {
						return nil
					}
					continue
				}

				for i, s := range schemas {
					result := s.Apply(instance)
					if !result.Valid {
						exitCode = exitValidationFailure
						if !quiet {
							for _, e := range result.AllErrors() {
								logger.Error("validation failure", "file", file, "schema", schemaFiles[i], "err", e.Error())
							}
						}
						if !ignoreErrors {
							return nil
						}
					}
				}
			}
			return nil
		},
	}
	rootCmd.Flags().StringArrayVar(&schemaFiles, "schema", nil, "schema file to validate against (repeatable)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress diagnostics")
	rootCmd.Flags().BoolVar(&ignoreErrors, "ignore-errors", false, "keep checking remaining files after a failure")
	logCfg.RegisterFlags(rootCmd.Flags())
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "validate: %v\n", err)
		if exitCode == exitOK {
			exitCode = exitBadOptions
		}
	}
	return exitCode
}
