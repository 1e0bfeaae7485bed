// Command generate produces test-vector instances for a draft-04 JSON
// Schema. Thin wrapper over the walbottle/schema composition
// engine — out of scope for the core library itself, but recorded here for
// compatibility with the documented CLI surface.
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
	exitSchemaParseFailure
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var validOnly, invalidOnly, noInvalidJSON, showTimings, quiet bool
	var format, cVariableName string
	logCfg := cliutil.NewLogConfig()

	exitCode := exitOK

	rootCmd := &cobra.Command{
		Use:           "generate [flags] FILE...",
		Short:         "Generate boundary-probing test-vector instances for draft-04 JSON Schemas",
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

			if format != "plain" && format != "c" {
				exitCode = exitBadOptions
				return fmt.Errorf("--format must be %q or %q, got %q", "plain", "c", format)
			}
			if validOnly && invalidOnly {
				exitCode = exitBadOptions
				return fmt.Errorf("--valid-only and --invalid-only are mutually exclusive")
			}

			var tel *schema.Telemetry
			if showTimings {
				tel = schema.NewTelemetry()
			}
			opts := schema.GenerateOptions{
				IgnoreValid:   invalidOnly,
				IgnoreInvalid: validOnly,
				InvalidJSON:   !noInvalidJSON,
				Telemetry:     tel,
			}

			for _, file := range files {
				schemaBytes, err := cliutil.ReadSchemaBytes(file)
				if err != nil {
					exitCode = exitSchemaParseFailure
					return err
				}
				s, msgs, err := schema.Load(schemaBytes)
				if err != nil {
					exitCode = exitSchemaParseFailure
					return fmt.Errorf("%s: %w", file, err)
				}
				for _, m := range msgs {
					if !quiet {
						logger.Warn("schema warning", "file", file, "message", m.Error())
					}
				}

				instances := s.Generate(opts)

				includeMalformed := opts.InvalidJSON && !validOnly
				var writeErr error
				switch format {
				case "plain":
					writeErr = cliutil.WritePlain(os.Stdout, instances, includeMalformed)
				case "c":
					writeErr = cliutil.WriteC(os.Stdout, instances, cVariableName, includeMalformed)
				}
				if writeErr != nil {
					return writeErr
				}
			}

			if tel != nil {
				fmt.Fprintln(os.Stderr, tel.String())
			}
			return nil
		},
	}
	rootCmd.Flags().BoolVarP(&validOnly, "valid-only", "v", false, "omit instances labelled invalid")
	rootCmd.Flags().BoolVarP(&invalidOnly, "invalid-only", "n", false, "omit instances labelled valid")
	rootCmd.Flags().BoolVarP(&noInvalidJSON, "no-invalid-json", "j", false, "do not emit malformed-JSON byte sequences as invalid vectors")
	rootCmd.Flags().StringVar(&format, "format", "plain", "output format, one of: plain, c")
	rootCmd.Flags().StringVar(&cVariableName, "c-variable-name", "walbottle_vectors", "C array variable name, used with --format=c")
	rootCmd.Flags().BoolVar(&showTimings, "show-timings", false, "print per-schema-position generation timings to stderr")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress diagnostics")
	logCfg.RegisterFlags(rootCmd.Flags())
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "generate: %v\n", err)
		if exitCode == exitOK {
			exitCode = exitBadOptions
		}
	}
	return exitCode
}
