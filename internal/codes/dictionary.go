// Package codes resolves NWIS coded column values to descriptions and icons.
package codes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/well-construction-service/internal/rdb"
	"gopkg.in/yaml.v3"
)

// AquiferColumn is the column resolved through the aquifer code table.
const AquiferColumn = "lith_unit_cd"

// TableNames lists the gw_gwdd table names whose definitions are loaded.
var TableNames = []string{"sitefile", "gw_cons", "gw_hole", "gw_csng", "gw_open", "gw_geoh", "gw_repr"}

// Definition describes one coded column.
type Definition struct {
	ParameterID string
	Name        string
	Unit        string
	Header      string
	Codes       map[string]string
	Icons       map[string]string
}

// Resolution is the outcome of a code lookup. Zero value means unknown.
type Resolution struct {
	Description string
	Icon        string
}

// Dictionary maps column names to definitions. The zero value is not usable;
// call New.
type Dictionary struct {
	defs map[string]*Definition
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{defs: make(map[string]*Definition)}
}

// Len returns the number of defined columns.
func (d *Dictionary) Len() int { return len(d.defs) }

// Definition returns the definition for column, if any.
func (d *Dictionary) Definition(column string) (*Definition, bool) {
	def, ok := d.defs[column]
	return def, ok
}

// Resolve looks up code under column. It never fails: an unknown column,
// unknown code or empty code yields an empty Resolution.
func (d *Dictionary) Resolve(column, code string) Resolution {
	if code == "" {
		return Resolution{}
	}
	def, ok := d.defs[column]
	if !ok {
		return Resolution{}
	}
	return Resolution{Description: def.Codes[code], Icon: def.Icons[code]}
}

// nestedEntry is one column of the nested lookup file.
type nestedEntry struct {
	ParameterID json.RawMessage            `json:"C Number"`
	Name        string                     `json:"parameter_nm"`
	Unit        string                     `json:"english_unit_tx"`
	Header      string                     `json:"head_1_tx"`
	Codes       map[string]json.RawMessage `json:"Codes"`
}

// LoadNested merges a nested JSON lookup into the dictionary. Each code
// value is either a description string or a [description, icon] pair.
func (d *Dictionary) LoadNested(r io.Reader) error {
	var src map[string]nestedEntry
	if err := json.NewDecoder(r).Decode(&src); err != nil {
		return fmt.Errorf("decode nested definitions: %w", err)
	}

	for column, entry := range src {
		def := d.define(column, rawScalar(entry.ParameterID), entry.Name, entry.Unit, entry.Header)
		for code, raw := range entry.Codes {
			desc, icon, err := decodeCodeValue(raw)
			if err != nil {
				return fmt.Errorf("decode %s code %q: %w", column, code, err)
			}
			def.put(code, desc, icon)
		}
	}
	return nil
}

// yamlEntry mirrors nestedEntry for YAML sources.
type yamlEntry struct {
	ParameterID any            `yaml:"C Number"`
	Name        string         `yaml:"parameter_nm"`
	Unit        string         `yaml:"english_unit_tx"`
	Header      string         `yaml:"head_1_tx"`
	Codes       map[string]any `yaml:"Codes"`
}

// LoadNestedYAML merges a nested lookup written in YAML.
func (d *Dictionary) LoadNestedYAML(r io.Reader) error {
	var src map[string]yamlEntry
	if err := yaml.NewDecoder(r).Decode(&src); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode nested definitions: %w", err)
	}

	for column, entry := range src {
		id := ""
		if entry.ParameterID != nil {
			id = fmt.Sprint(entry.ParameterID)
		}
		def := d.define(column, id, entry.Name, entry.Unit, entry.Header)
		for code, v := range entry.Codes {
			switch val := v.(type) {
			case string:
				def.put(code, val, "")
			case []any:
				desc, icon := "", ""
				if len(val) > 0 {
					desc = fmt.Sprint(val[0])
				}
				if len(val) > 1 {
					icon = fmt.Sprint(val[1])
				}
				def.put(code, desc, icon)
			case nil:
				def.put(code, "", "")
			default:
				def.put(code, fmt.Sprint(val), "")
			}
		}
	}
	return nil
}

// LoadTable merges the flat gw_gwdd definition table, keeping only rows of
// the recognized TableNames.
func (d *Dictionary) LoadTable(t *rdb.Table) error {
	for _, col := range []string{"table_nm", "column_nm", "gw_ref_cd"} {
		if !t.HasColumn(col) {
			return &rdb.MissingColumnError{Column: col}
		}
	}

	for _, row := range t.Rows {
		table := strings.ReplaceAll(row["table_nm"], "_##", "")
		if !isRecognizedTable(table) {
			continue
		}
		def := d.define(row["column_nm"], row["parameter_cd"], row["parameter_nm"], row["english_unit_tx"], row["head_1_tx"])
		def.put(row["gw_ref_cd"], row["gw_ref_nm"], "")
	}
	return nil
}

// LoadAquifers merges the aquifer code table (aqfr_cd, aqfr_nm) under
// AquiferColumn.
func (d *Dictionary) LoadAquifers(t *rdb.Table) error {
	for _, col := range []string{"aqfr_cd", "aqfr_nm"} {
		if !t.HasColumn(col) {
			return &rdb.MissingColumnError{Column: col}
		}
	}

	def, ok := d.defs[AquiferColumn]
	if !ok {
		def = d.define(AquiferColumn, "", "Geologic unit", "", "Geologic unit")
	}
	for _, row := range t.Rows {
		def.put(row["aqfr_cd"], row["aqfr_nm"], "")
	}
	return nil
}

// define returns the definition for column, creating it if needed. Metadata
// of the latest load wins; codes accumulate.
func (d *Dictionary) define(column, id, name, unit, header string) *Definition {
	def, ok := d.defs[column]
	if !ok {
		def = &Definition{Codes: make(map[string]string)}
		d.defs[column] = def
	}
	def.ParameterID = id
	def.Name = name
	def.Unit = unit
	def.Header = header
	return def
}

func (def *Definition) put(code, desc, icon string) {
	def.Codes[code] = desc
	if icon == "" {
		return
	}
	if def.Icons == nil {
		def.Icons = make(map[string]string)
	}
	def.Icons[code] = icon
}

func isRecognizedTable(name string) bool {
	for _, n := range TableNames {
		if n == name {
			return true
		}
	}
	return false
}

// rawScalar renders a JSON string or number as plain text.
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func decodeCodeValue(raw json.RawMessage) (desc, icon string, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var pair []string
		if err := json.Unmarshal(raw, &pair); err != nil {
			return "", "", err
		}
		if len(pair) > 0 {
			desc = pair[0]
		}
		if len(pair) > 1 {
			icon = pair[1]
		}
		return desc, icon, nil
	}
	return rawScalar(raw), "", nil
}
