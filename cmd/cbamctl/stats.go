package main

import (
	"github.com/spf13/cobra"

	"github.com/BerniceZTT/cbam_end/service"
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	var (
		suppliersPath string
		importsPath   string
		quarter       string
		full          bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute quarter statistics and report readiness",
		Long: `Compute the dashboard figures for one quarter or all quarters.

Imports link to suppliers by supplier id, or by manufacturer name when the
id column is empty and exactly one supplier carries that name.

Examples:
  cbamctl stats --suppliers suppliers.csv --imports imports.csv
  cbamctl stats --suppliers suppliers.xlsx --imports imports.xlsx --quarter Q3-2024 --full`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := service.ParseSelection(quarter)
			if err != nil {
				return err
			}
			suppliers, supplierErrors, err := loadSuppliers(suppliersPath)
			if err != nil {
				return err
			}
			warnRowErrors(cmd.ErrOrStderr(), suppliersPath, supplierErrors)

			imports, importErrors, err := loadImports(importsPath, suppliers)
			if err != nil {
				return err
			}
			warnRowErrors(cmd.ErrOrStderr(), importsPath, importErrors)

			if full {
				return writeOutput(cmd.OutOrStdout(), root.output, service.BuildDashboard(imports, suppliers, sel))
			}
			return writeOutput(cmd.OutOrStdout(), root.output, service.ComputeQuarterStats(imports, suppliers, sel))
		},
	}

	cmd.Flags().StringVar(&suppliersPath, "suppliers", "", "Supplier file (csv or xlsx)")
	cmd.Flags().StringVar(&importsPath, "imports", "", "Goods import file (csv or xlsx)")
	cmd.Flags().StringVarP(&quarter, "quarter", "q", "all", "Quarter (Q<n>-<year>) or all")
	cmd.Flags().BoolVar(&full, "full", false, "Include the status chart and quarter summaries")
	_ = cmd.MarkFlagRequired("imports")
	return cmd
}
