package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"paper-extractor/internal/config"
	"paper-extractor/internal/export"
	"paper-extractor/internal/schema"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Run the extraction pipeline on a local PDF",
	Long: `Run the extraction pipeline on a local PDF and write the results.

Fields are given as a JSON array of names or field objects, inline with
--fields or from a file with --fields-file.

Examples:
  paperex extract invoice.pdf --fields '["Invoice Number", {"name": "Total", "dataType": "number"}]'
  paperex extract paper.pdf --fields-file fields.json --format csv -o results.csv
  paperex extract paper.pdf --fields '["Authors"]' --ocr-out paper.md`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.String("fields", "", "JSON array of fields to extract")
	f.String("fields-file", "", "file containing the JSON array of fields")
	f.StringP("format", "f", "json", "output format: json, csv or xlsx")
	f.StringP("output", "o", "", "output file (default stdout)")
	f.String("ocr-out", "", "also write the markdown transcription to this file")
	f.String("project", "", "Google Cloud project for Vertex AI")
	f.String("location", "", "Vertex AI region")
	f.String("credentials", "", "service account key file")
	f.String("transcription-model", "", "vision model used for transcription")
	f.String("extraction-model", "", "text model used for field extraction")
	f.Int("max-pages", 0, "reject documents with more pages (0 = unlimited)")
	f.Float64("scale", 0, "page render scale (1.0 = 72 DPI)")
	f.Duration("timeout", 0, "deadline for the whole pipeline")
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}

	rawFields, err := readFields()
	if err != nil {
		return err
	}
	fields, err := schema.Normalize(rawFields)
	if err != nil {
		return err
	}

	path := args[0]
	if err := checkPDF(path); err != nil {
		return err
	}

	container := config.NewContainerWithConfig(loadConfig())
	defer container.Close()

	resp, err := container.ExtractionService.Extract(cmd.Context(), path, fields)
	if err != nil {
		return err
	}

	if ocrOut := viper.GetString("ocr-out"); ocrOut != "" {
		if err := os.WriteFile(ocrOut, []byte(resp.OCRText), 0o644); err != nil {
			return fmt.Errorf("write transcription: %w", err)
		}
	}

	out, closeOut, err := openOutput(viper.GetString("output"))
	if err != nil {
		return err
	}
	if err := export.Write(out, format, resp.Extractions); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

func readFields() (json.RawMessage, error) {
	if inline := viper.GetString("fields"); inline != "" {
		return json.RawMessage(inline), nil
	}
	if file := viper.GetString("fields-file"); file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read fields file: %w", err)
		}
		return json.RawMessage(b), nil
	}
	return nil, fmt.Errorf("one of --fields or --fields-file is required")
}

// checkPDF rejects files that do not start with the PDF header.
func checkPDF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, 5)
	if _, err := f.Read(head); err != nil || !bytes.Equal(head, []byte("%PDF-")) {
		return fmt.Errorf("%s is not a PDF file", path)
	}
	return nil
}
