// Command schema-generator writes the JSON schema of carbon.yml.
package main

import (
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/grovetools/carbon/config"
	"github.com/grovetools/carbon/logging"
)

func main() {
	out := flag.String("out", filepath.Join("schema", "carbon.schema.json"), "Output file")
	flag.Parse()

	pretty := logging.NewPrettyLogger()

	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		pretty.ErrorPretty("Could not generate schema", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		pretty.ErrorPretty("Could not create schema directory", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, schemaBytes, 0o644); err != nil {
		pretty.ErrorPretty("Could not write schema", err)
		os.Exit(1)
	}

	pretty.Success("Generated configuration schema")
	pretty.Path("Schema", *out)
}
