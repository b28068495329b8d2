package service

import (
	"fmt"
	"strings"

	"paper-extractor/internal/domain"
)

const extractionPromptTemplate = `You are an expert data extractor. Below is a Markdown representation of a document.
Your task is to extract specific fields from this text with 100%% accuracy.

## Text Context (Markdown)
` + "```markdown" + `
%s
` + "```" + `

## Fields to Extract
Each field below may include specific instructions (after the colon). Pay careful attention to these per-field instructions.
%s

## Rules
- If a value is NOT found in the text, return an empty 'values' array for that field.
- 'snippet' field is MANDATORY: quote 3-5 words EXACTLY as they appear in the text to prove you found it.
- Be EXHAUSTIVE: find ALL instances of the requested fields.
- For 'list' type fields: Return each list item as a SEPARATE value object with its own snippet and location. Do NOT combine multiple items into a single array value.
  Example: If extracting "Dates (list)" and you find three dates, return THREE separate value objects, each with one date and its own snippet.
- When a field includes "IMPORTANT" instructions about focusing on main study vs cited studies, follow those instructions strictly.
`

// BuildExtractionPrompt embeds the transcription and one instruction line per field.
func BuildExtractionPrompt(transcription string, fields []domain.FieldSpec) string {
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("- \"%s\" (%s): %s", f.Name, f.DataType, f.Instructions()))
	}
	return fmt.Sprintf(extractionPromptTemplate, transcription, strings.Join(lines, "\n"))
}
