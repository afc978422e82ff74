package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/service"
	"github.com/BerniceZTT/cbam_end/utils"
)

// Version is the current version of cbamctl
var Version = "0.1.0"

// rootOptions global flags
type rootOptions struct {
	output  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "cbamctl",
		Short: "Offline CBAM quarter reports and cost forecasts",
		Long: `cbamctl computes the CBAM dashboard figures from spreadsheet exports
without a running server, and seeds a database with sample data.

Input files are CSV or XLSX, in the column layout of the dashboard exports.

Examples:
  cbamctl stats --suppliers suppliers.csv --imports imports.xlsx --quarter Q2-2024
  cbamctl forecast --imports imports.csv --horizon 12 --price 85.50
  cbamctl seed --mongo-uri mongodb://127.0.0.1:27017 --db cbam --replace`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				utils.InitLogger(true)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "yaml", "Output format: yaml | json")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newStatsCmd(opts))
	cmd.AddCommand(newForecastCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	return cmd
}

// writeOutput encodes v as YAML or JSON. YAML goes through the JSON field names
// so both formats share one schema.
func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (yaml, json)", format)
}

// readTableFile reads a CSV or XLSX file; the format follows the extension
func readTableFile(path string) ([][]string, error) {
	format, err := service.ParseFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return service.ReadTable(f, format)
}

// loadSuppliers reads a supplier file. Rows without an id get a stable one derived
// from the row so imports can link to them by manufacturer name.
func loadSuppliers(path string) ([]models.Supplier, []models.RowError, error) {
	if path == "" {
		return nil, nil, nil
	}
	table, err := readTableFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read suppliers %s: %w", path, err)
	}
	suppliers, rowErrors, err := service.ParseSupplierTable(table)
	if err != nil {
		return nil, nil, fmt.Errorf("parse suppliers %s: %w", path, err)
	}
	for i := range suppliers {
		if suppliers[i].ID == "" {
			suppliers[i].ID = fmt.Sprintf("row-%d", i+1)
		}
	}
	return suppliers, rowErrors, nil
}

// loadImports reads an import file and links its rows to the suppliers.
// Without suppliers, rows keep their supplier id as given.
func loadImports(path string, suppliers []models.Supplier) ([]models.GoodsImport, []models.RowError, error) {
	table, err := readTableFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read imports %s: %w", path, err)
	}
	parsed, rowErrors, err := service.ParseImportTable(table)
	if err != nil {
		return nil, nil, fmt.Errorf("parse imports %s: %w", path, err)
	}
	if len(suppliers) > 0 {
		var linkErrors []models.RowError
		parsed, linkErrors = service.ResolveSuppliers(parsed, suppliers)
		rowErrors = append(rowErrors, linkErrors...)
	}

	imports := make([]models.GoodsImport, len(parsed))
	for i, p := range parsed {
		imports[i] = p.Import
	}
	return imports, rowErrors, nil
}

func warnRowErrors(w io.Writer, file string, rowErrors []models.RowError) {
	for _, e := range rowErrors {
		fmt.Fprintf(w, "warning: %s row %d: %s\n", file, e.Row, e.Message)
	}
}
