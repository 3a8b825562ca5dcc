// Package loader reads tabular data for the sheet from CSV, TSV, JSON,
// NDJSON, YAML and TOML sources.
package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/keytips/pkg/sheet"
)

// Format names an input encoding.
type Format string

const (
	FormatAuto   Format = ""
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
)

// ErrEmptyInput is returned when there is nothing to load.
var ErrEmptyInput = errors.New("empty input")

// FormatForPath guesses a format from a file extension.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".json":
		return FormatJSON
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatAuto
}

// LoadFile reads path and converts it to rows.
func LoadFile(path string) ([][]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := LoadRows(string(data), FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// LoadReader reads all of r and converts it to rows.
func LoadReader(r io.Reader, format Format) ([][]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadRows(string(data), format)
}

// LoadRows converts input to rows of cell values. FormatAuto sniffs the
// content.
func LoadRows(input string, format Format) ([][]any, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}
	if format == FormatAuto {
		format = Detect(input)
	}
	switch format {
	case FormatCSV:
		return loadDelimited(input, ',')
	case FormatTSV:
		return loadDelimited(input, '\t')
	case FormatJSON:
		var doc any
		if err := json.Unmarshal([]byte(input), &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return Tabulate(doc), nil
	case FormatNDJSON:
		return loadNDJSON(input)
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		return Tabulate(doc), nil
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal([]byte(input), &doc); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		return Tabulate(tomlTable(doc)), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Detect guesses the format of input.
func Detect(input string) Format {
	input = strings.TrimSpace(input)
	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		return FormatNDJSON
	}
	if isLikelyTOML(input) {
		return FormatTOML
	}
	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		return FormatJSON
	}
	if strings.Contains(lines[0], "\t") {
		return FormatTSV
	}
	if strings.Contains(input, ": ") || strings.HasPrefix(input, "- ") || strings.HasPrefix(input, "---") {
		return FormatYAML
	}
	return FormatCSV
}

func loadDelimited(input string, sep rune) ([][]any, error) {
	r := csv.NewReader(strings.NewReader(input))
	r.Comma = sep
	r.FieldsPerRecord = -1
	if sep == '\t' {
		r.LazyQuotes = true
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", formatName(sep), err)
	}
	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = make([]any, len(rec))
		for j, field := range rec {
			rows[i][j] = sheet.ParseValue(field)
		}
	}
	return rows, nil
}

func formatName(sep rune) string {
	if sep == '\t' {
		return "TSV"
	}
	return "CSV"
}

func loadNDJSON(input string) ([][]any, error) {
	var docs []any
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var obj any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			obj = line
		}
		docs = append(docs, obj)
	}
	if len(docs) == 0 {
		return nil, ErrEmptyInput
	}
	return Tabulate(docs), nil
}

// tomlTable unwraps the conventional single array-of-tables document, e.g.
// [[rows]], into its list.
func tomlTable(doc map[string]any) any {
	if len(doc) == 1 {
		for _, v := range doc {
			if list, ok := v.([]any); ok {
				return list
			}
		}
	}
	return doc
}

// Tabulate converts a decoded document into rows:
//   - a list of lists is used as is;
//   - a list of objects becomes a header row of sorted keys followed by one
//     row per object;
//   - a list of scalars becomes a single column;
//   - an object becomes key/value rows;
//   - a scalar becomes one cell.
func Tabulate(doc any) [][]any {
	switch v := doc.(type) {
	case []any:
		return tabulateList(v)
	case map[string]any:
		keys := sortedKeys(v)
		rows := make([][]any, len(keys))
		for i, k := range keys {
			rows[i] = []any{k, cellValue(v[k])}
		}
		return rows
	case nil:
		return nil
	default:
		return [][]any{{cellValue(v)}}
	}
}

func tabulateList(list []any) [][]any {
	if len(list) == 0 {
		return nil
	}
	allObjects := true
	for _, item := range list {
		if _, ok := item.(map[string]any); !ok {
			allObjects = false
			break
		}
	}
	if allObjects {
		seen := map[string]bool{}
		var header []string
		for _, item := range list {
			for _, k := range sortedKeys(item.(map[string]any)) {
				if !seen[k] {
					seen[k] = true
					header = append(header, k)
				}
			}
		}
		rows := make([][]any, 0, len(list)+1)
		head := make([]any, len(header))
		for i, h := range header {
			head[i] = h
		}
		rows = append(rows, head)
		for _, item := range list {
			obj := item.(map[string]any)
			row := make([]any, len(header))
			for i, h := range header {
				row[i] = cellValue(obj[h])
			}
			rows = append(rows, row)
		}
		return rows
	}
	rows := make([][]any, 0, len(list))
	for _, item := range list {
		if inner, ok := item.([]any); ok {
			row := make([]any, len(inner))
			for i, c := range inner {
				row[i] = cellValue(c)
			}
			rows = append(rows, row)
			continue
		}
		rows = append(rows, []any{cellValue(item)})
	}
	return rows
}

// cellValue flattens nested structures to compact JSON text.
func cellValue(v any) any {
	switch x := v.(type) {
	case map[string]any, []any:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(x); err != nil {
			return fmt.Sprint(x)
		}
		return strings.TrimSpace(buf.String())
	default:
		return v
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isLikelyNDJSON heuristic: a majority of non-empty lines must start with
// '{' or '['.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

var (
	tomlSectionPattern  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML heuristic: section headers, or a majority of key = value
// lines.
func isLikelyTOML(input string) bool {
	sectionCount, keyValueCount, nonEmptyCount := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}
	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}
