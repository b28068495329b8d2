package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"paper-extractor/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <results.json>",
	Short: "Convert saved extraction results to another format",
	Long: `Convert a saved extractions array, or a full /api/extract response,
to JSON, CSV or XLSX.

Examples:
  paperex export results.json --format csv
  paperex export response.json --format xlsx -o results.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(viper.GetString("format"))
		if err != nil {
			return err
		}

		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		results, err := export.Decode(in)
		if err != nil {
			return err
		}

		out, closeOut, err := openOutput(viper.GetString("output"))
		if err != nil {
			return err
		}
		if err := export.Write(out, format, results); err != nil {
			closeOut()
			return err
		}
		return closeOut()
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "csv", "output format: json, csv or xlsx")
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}
