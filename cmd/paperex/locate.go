package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"paper-extractor/internal/domain"
	"paper-extractor/internal/highlight"
)

var locateCmd = &cobra.Command{
	Use:   "locate <response.json>",
	Short: "Show where extracted values appear in a saved response",
	Long: `Find the snippet of every extracted value in the transcription of a saved
/api/extract response and print it with surrounding text. The match is marked
with [[ ]].

With --page and --box, a normalized 0-1000 box is also mapped to pixels on
the stacked page images of the response.

Examples:
  paperex locate response.json
  paperex locate response.json --field "Invoice Number" --radius 80
  paperex locate response.json --page 2 --box 100,200,300,50`,
	Args: cobra.ExactArgs(1),
	RunE: runLocate,
}

func init() {
	f := locateCmd.Flags()
	f.String("field", "", "only locate values of this field")
	f.Int("radius", 40, "bytes of context around each match")
	f.Int("page", 0, "page of --box (1-indexed)")
	f.String("box", "", "normalized box x,y,width,height on the 0-1000 scale")
}

func runLocate(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	resp, err := decodeResponse(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := printLocations(out, resp, viper.GetString("field"), viper.GetInt("radius")); err != nil {
		return err
	}

	if spec := viper.GetString("box"); spec != "" {
		box, err := parseBox(spec)
		if err != nil {
			return err
		}
		pages, err := highlight.PageSizes(resp.Images)
		if err != nil {
			return fmt.Errorf("read page images: %w", err)
		}
		page := viper.GetInt("page")
		rect, err := highlight.Region(pages, page, box)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "page %d box: x=%.1f y=%.1f width=%.1f height=%.1f\n", page, rect.X, rect.Y, rect.Width, rect.Height)
	}
	return nil
}

func decodeResponse(r io.Reader) (*domain.ExtractResponse, error) {
	var resp domain.ExtractResponse
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

func printLocations(w io.Writer, resp *domain.ExtractResponse, field string, radius int) error {
	matched := false
	for _, result := range resp.Extractions {
		if field != "" && result.FieldName != field {
			continue
		}
		matched = true

		fmt.Fprintf(w, "%s\n", result.FieldName)
		if len(result.Values) == 0 {
			fmt.Fprintln(w, "  not found")
			continue
		}
		for _, loc := range highlight.Locate(resp.OCRText, result, radius) {
			if !loc.Found {
				fmt.Fprintf(w, "  %v: snippet not in transcription: %q\n", loc.Value, loc.Snippet)
				continue
			}
			fmt.Fprintf(w, "  %v @ %d-%d: %s\n", loc.Value, loc.Start, loc.End, renderSegments(loc.Excerpt))
		}
	}
	if field != "" && !matched {
		return fmt.Errorf("field %q is not in the response", field)
	}
	return nil
}

func renderSegments(segs []highlight.Segment) string {
	var b bytes.Buffer
	for _, s := range segs {
		text := strings.ReplaceAll(s.Text, "\n", " ")
		if s.Highlighted {
			b.WriteString("[[" + text + "]]")
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

// parseBox reads "x,y,width,height".
func parseBox(spec string) (domain.BoundingBox, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return domain.BoundingBox{}, fmt.Errorf("box must be x,y,width,height, got %q", spec)
	}
	var n [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.BoundingBox{}, fmt.Errorf("box: %w", err)
		}
		n[i] = v
	}
	return domain.BoundingBox{X: n[0], Y: n[1], Width: n[2], Height: n[3]}, nil
}
