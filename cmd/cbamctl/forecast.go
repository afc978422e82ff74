package main

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/BerniceZTT/cbam_end/service"
)

func newForecastCmd(root *rootOptions) *cobra.Command {
	var (
		importsPath string
		horizon     int
		price       string
		start       string
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project CBAM certificate costs",
		Long: `Project quarterly CBAM certificate costs from the average emissions of
the most recent quarters, the CBAM factor of each year and a certificate price.

Examples:
  cbamctl forecast --imports imports.csv
  cbamctl forecast --imports imports.csv --start Q1-2026 --horizon 16 --price 92`,
		RunE: func(cmd *cobra.Command, args []string) error {
			certificatePrice, err := decimal.NewFromString(price)
			if err != nil {
				return err
			}
			imports, rowErrors, err := loadImports(importsPath, nil)
			if err != nil {
				return err
			}
			warnRowErrors(cmd.ErrOrStderr(), importsPath, rowErrors)

			opts := service.ForecastOptions{Horizon: horizon, CertificatePrice: certificatePrice}
			if start != "" {
				if opts.Start, err = service.ParseQuarter(start); err != nil {
					return err
				}
			} else {
				opts.Start = service.DefaultForecastStart(imports, time.Now())
			}

			forecast, err := service.BuildForecast(imports, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), root.output, forecast)
		},
	}

	cmd.Flags().StringVar(&importsPath, "imports", "", "Goods import file (csv or xlsx)")
	cmd.Flags().IntVar(&horizon, "horizon", 8, "Number of quarters to project")
	cmd.Flags().StringVar(&price, "price", "80", "Certificate price in EUR per tCO2e")
	cmd.Flags().StringVar(&start, "start", "", "First projected quarter (default: after the latest imports)")
	_ = cmd.MarkFlagRequired("imports")
	return cmd
}
