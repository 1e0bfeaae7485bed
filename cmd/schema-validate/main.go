// Command schema-validate checks that one or more files are well-formed
// draft-04 JSON Schema documents. It is a thin wrapper over the
// walbottle/schema loader — out of scope for the core library itself, but
// recorded here for compatibility with the documented CLI surface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pwithnall/walbottle/internal/cliutil"
	"github.com/pwithnall/walbottle/jsonvalue"
	"github.com/pwithnall/walbottle/schema"
)

const (
	exitOK = iota
	exitBadOptions
	exitJSONParseFailure
	exitSchemaParseFailure
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var noHyper, ignoreErrors, quiet bool
	logCfg := cliutil.NewLogConfig()

	exitCode := exitOK

	rootCmd := &cobra.Command{
		Use:           "schema-validate [flags] FILE...",
		Short:         "Check that files are well-formed draft-04 JSON Schema documents",
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

			meta, err := schema.LoadMetaSchema(schema.MetaSchemaCore)
			if err != nil {
				return fmt.Errorf("load bundled meta-schema: %w", err)
			}
			var hyperMeta *schema.Schema
			if !noHyper {
				hyperMeta, err = schema.LoadMetaSchema(schema.MetaSchemaHyper)
				if err != nil {
					return fmt.Errorf("load bundled hyper meta-schema: %w", err)
				}
			}

			for _, file := range files {
				if code := checkOne(logger, meta, hyperMeta, file, quiet); code != exitOK {
					exitCode = code
					if !ignoreErrors {
						return nil
					}
				}
			}
			return nil
		},
	}
	rootCmd.Flags().BoolVar(&noHyper, "no-hyper", false, "do not also validate against the hyper-schema meta-schema")
	rootCmd.Flags().BoolVar(&ignoreErrors, "ignore-errors", false, "keep checking remaining files after a failure")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress per-file diagnostics")
	logCfg.RegisterFlags(rootCmd.Flags())
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "schema-validate: %v\n", err)
		if exitCode == exitOK {
			exitCode = exitBadOptions
		}
	}
	return exitCode
}

// checkOne loads file as a schema and applies the bundled core meta-schema
// (and the hyper-schema, when hyperMeta is non-nil) to its JSON form,
// returning exitOK only if the document parses as a schema
// and conforms to the requested meta-schema(s); otherwise the exit code
// distinguishing a JSON parse failure from a schema-level one.
func checkOne(logger *slog.Logger, meta, hyperMeta *schema.Schema, file string, quiet bool) int {
	schemaBytes, err := cliutil.ReadSchemaBytes(file)
	if err != nil {
		if !quiet {
			logger.Error("reading schema", "file", file, "err", err)
		}
		return exitJSONParseFailure
	}

	instance, err := jsonvalue.Parse(schemaBytes)
	if err != nil {
		if !quiet {
			logger.Error("schema is not valid JSON", "file", file, "err", err)
		}
		return exitJSONParseFailure
	}

	_, msgs, err := schema.Load(schemaBytes)
	if err != nil {
		if !quiet {
			logger.Error("schema malformed", "file", file, "err", err)
		}
		return exitSchemaParseFailure
	}
	for _, m := range msgs {
		if !quiet {
			logger.Warn("schema warning", "file", file, "message", m.Error())
		}
	}

	ok := meta.Apply(instance).Valid
	if hyperMeta != nil {
		ok = ok && hyperMeta.Apply(instance).Valid
	}
	if !ok {
		if !quiet {
			logger.Error("schema does not conform to the draft-04 meta-schema", "file", file)
		}
		return exitSchemaParseFailure
	}
	return exitOK
}
