package pipeline_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testSite = "422508121161501"
	noCons   = "433152121281301"
)

// fixtureFiles is a minimal NWIS extract for testSite. noCons appears in the
// sitefile only. Columns are written '|'-separated and converted to tabs.
var fixtureFiles = map[string]string{
	"sitefile_01.txt": rdbText(
		"agency_cd|site_no|station_nm|alt_va|alt_datum_cd|well_depth_va|hole_depth_va",
		"USGS|"+testSite+"|27S/09E-10CCC1|4195.5|NAVD88|200|210",
		"USGS|"+noCons+"|27S/10E-05ABB1|4300|NGVD29|90|",
	),
	"gw_cons_01.txt": rdbText(
		"site_no|cons_seq_nu|cons_src_cd|seal_cd|seal_depth_va|finish_cd",
		testSite+"|1|D|C|18|S",
	),
	"gw_hole_01.txt": rdbText(
		"site_no|cons_seq_nu|hole_seq_nu|hole_top_va|hole_bottom_va|hole_dia_va",
		testSite+"|1|1|0|20|12",
		testSite+"|1|2|20|215|8",
		testSite+"|1|3|215|230|",
	),
	"gw_csng_01.txt": rdbText(
		"site_no|cons_seq_nu|csng_seq_nu|csng_top_va|csng_bottom_va|csng_dia_va|csng_material_cd",
		testSite+"|1|1|0|180|6|S",
	),
	"gw_open_01.txt": rdbText(
		"site_no|cons_seq_nu|open_seq_nu|open_top_va|open_bottom_va|open_dia_va|open_cd|open_material_cd",
		testSite+"|1|1|180|212|6|S|S",
	),
	"gw_geoh_01.txt": rdbText(
		"site_no|geoh_seq_nu|lith_cd|lith_top_va|lith_bottom_va|lith_unit_cd",
		testSite+"|1|SAND|0|47|110QRNR",
	),
	"aqfr_cd_query.txt": rdbText(
		"state_cd|aqfr_cd|aqfr_nm",
		"41|110QRNR|Quaternary sediments",
	),
	"well_construction_lookup.json": `{
  "lith_cd":          {"C Number": 714, "parameter_nm": "Lithology", "Codes": {"SAND": ["Sand", "620.svg"]}},
  "seal_cd":          {"C Number": "716", "parameter_nm": "Seal type", "Codes": {"C": ["Cement", "#c0c0c0"]}},
  "finish_cd":        {"C Number": 65, "parameter_nm": "Finish", "Codes": {"S": "Screen"}},
  "csng_material_cd": {"C Number": 76, "parameter_nm": "Casing material", "Codes": {"S": ["Steel", "steel.svg"]}},
  "open_cd":          {"C Number": 3000, "parameter_nm": "Type of opening", "Codes": {"S": ["Screen", "screen.svg"]}}
}`,
}

func rdbText(header string, rows ...string) string {
	lines := append([]string{"# U.S. Geological Survey", "#", header, "5s"}, rows...)
	return strings.ReplaceAll(strings.Join(lines, "\n")+"\n", "|", "\t")
}

// writeFixtures copies fixtureFiles into a fresh directory, applying
// overrides. A nil override leaves the file out.
func writeFixtures(t *testing.T, overrides map[string]*string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range fixtureFiles {
		if o, ok := overrides[name]; ok {
			if o == nil {
				continue
			}
			content = *o
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	for name, content := range overrides {
		if _, known := fixtureFiles[name]; !known && content != nil {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(*content), 0o600))
		}
	}
	return dir
}

func ptr(s string) *string { return &s }
