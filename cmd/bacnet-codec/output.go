package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents output format types
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatCSV   OutputFormat = "csv"
	FormatRaw   OutputFormat = "raw"
)

// Formatter handles output formatting
type Formatter struct {
	format OutputFormat
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(format string) (*Formatter, error) {
	switch f := OutputFormat(strings.ToLower(format)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatRaw:
		return &Formatter{format: f, writer: os.Stdout}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// SetWriter sets the output writer
func (f *Formatter) SetWriter(w io.Writer) {
	f.writer = w
}

// Format returns the output format
func (f *Formatter) Format() OutputFormat {
	return f.format
}

// Println prints a line
func (f *Formatter) Println(args ...interface{}) {
	fmt.Fprintln(f.writer, args...)
}

// PrintTable prints data in table format
func (f *Formatter) PrintTable(headers []string, rows [][]string) {
	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		var sb strings.Builder
		for i, cell := range cells {
			if i < len(widths) {
				fmt.Fprintf(&sb, "%-*s ", widths[i], cell)
			}
		}
		fmt.Fprintln(f.writer, strings.TrimRight(sb.String(), " "))
	}

	printRow(headers)
	sep := make([]string, len(headers))
	for i := range headers {
		sep[i] = strings.Repeat("-", widths[i])
	}
	printRow(sep)
	for _, row := range rows {
		printRow(row)
	}
}

// PrintCSV prints data as CSV with a header line
func (f *Formatter) PrintCSV(headers []string, rows [][]string) error {
	w := csv.NewWriter(f.writer)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

// PrintJSON prints v as indented JSON
func (f *Formatter) PrintJSON(v interface{}) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// PrintYAML prints v as YAML
func (f *Formatter) PrintYAML(v interface{}) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// PrintKeyValue prints key-value pairs
func (f *Formatter) PrintKeyValue(pairs map[string]interface{}, order []string) {
	maxKeyLen := 0
	for _, key := range order {
		if len(key) > maxKeyLen {
			maxKeyLen = len(key)
		}
	}

	for _, key := range order {
		if val, ok := pairs[key]; ok {
			fmt.Fprintf(f.writer, "%-*s: %v\n", maxKeyLen, key, val)
		}
	}
}

// TagRecord is one line of a tag listing
type TagRecord struct {
	Offset int    `json:"offset" yaml:"offset"`
	Depth  int    `json:"depth" yaml:"depth"`
	Class  string `json:"class" yaml:"class"`
	Number uint8  `json:"number" yaml:"number"`
	Kind   string `json:"kind" yaml:"kind"`
	Length uint32 `json:"length" yaml:"length"`
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
	Raw    string `json:"raw" yaml:"raw"`
}

var tagHeaders = []string{"OFFSET", "CLASS", "TAG", "LEN", "TYPE", "VALUE"}

func (r TagRecord) row() []string {
	indent := strings.Repeat("  ", r.Depth)
	tag := fmt.Sprintf("%s%d", indent, r.Number)
	switch r.Kind {
	case kindOpening:
		tag = fmt.Sprintf("%s[%d", indent, r.Number)
	case kindClosing:
		tag = fmt.Sprintf("%s%d]", indent, r.Number)
	}
	return []string{
		fmt.Sprintf("%d", r.Offset),
		r.Class,
		tag,
		fmt.Sprintf("%d", r.Length),
		r.Type,
		r.Value,
	}
}

// PrintTags prints a tag listing in the configured format
func (f *Formatter) PrintTags(records []TagRecord) error {
	switch f.format {
	case FormatJSON:
		return f.PrintJSON(records)
	case FormatYAML:
		return f.PrintYAML(records)
	case FormatRaw:
		for _, r := range records {
			fmt.Fprintln(f.writer, r.Raw)
		}
		return nil
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.row()
	}
	if f.format == FormatCSV {
		return f.PrintCSV(tagHeaders, rows)
	}
	f.PrintTable(tagHeaders, rows)
	return nil
}

// EncodeResult is the output of the encode command
type EncodeResult struct {
	Type   string `json:"type" yaml:"type"`
	Input  string `json:"input" yaml:"input"`
	Length int    `json:"length" yaml:"length"`
	Hex    string `json:"hex" yaml:"hex"`
}

// PrintEncoded prints an encoding in the configured format
func (f *Formatter) PrintEncoded(r EncodeResult) error {
	switch f.format {
	case FormatJSON:
		return f.PrintJSON(r)
	case FormatYAML:
		return f.PrintYAML(r)
	case FormatCSV:
		return f.PrintCSV([]string{"type", "input", "length", "hex"},
			[][]string{{r.Type, r.Input, fmt.Sprintf("%d", r.Length), r.Hex}})
	case FormatRaw:
		f.Println(r.Hex)
		return nil
	default:
		f.PrintKeyValue(map[string]interface{}{
			"Type":   r.Type,
			"Input":  r.Input,
			"Length": r.Length,
			"Hex":    r.Hex,
		}, []string{"Type", "Input", "Length", "Hex"})
		return nil
	}
}
