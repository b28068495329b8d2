package export

import (
	"bufio"
	"io"
	"strings"

	"paper-extractor/internal/domain"
)

var csvHeader = []string{"Field Name", "Value", "Snippet", "Confidence"}

// CSV writes one line per value instance. Value and snippet are always
// quoted; field names only when they need it. Lines end with "\n".
func CSV(w io.Writer, results []domain.ExtractionResult) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(csvHeader, ","))

	for _, r := range rows(results) {
		bw.WriteByte('\n')
		bw.WriteString(quoteIfNeeded(r.field))
		bw.WriteByte(',')
		bw.WriteString(quote(r.value))
		bw.WriteByte(',')
		bw.WriteString(quote(r.snippet))
		bw.WriteByte(',')
		bw.WriteString(r.confidence)
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
