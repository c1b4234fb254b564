package codes

import (
	"strings"
	"testing"

	"github.com/couchcryptid/well-construction-service/internal/rdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedLookup = `{
  "lith_cd": {
    "C Number": 714,
    "parameter_nm": "Lithology",
    "english_unit_tx": "",
    "head_1_tx": "Lith",
    "Codes": {
      "SAND": ["Sand", "620.svg"],
      "CLAY": ["Clay", "607.svg"],
      "BSLT": "Basalt"
    }
  },
  "csng_material_cd": {
    "C Number": "C076",
    "parameter_nm": "Casing material",
    "english_unit_tx": "",
    "head_1_tx": "Material",
    "Codes": {
      "S": ["Steel", "#6e6e6e"],
      "P": "PVC"
    }
  }
}`

func loadNested(t *testing.T) *Dictionary {
	t.Helper()
	d := New()
	require.NoError(t, d.LoadNested(strings.NewReader(nestedLookup)))
	return d
}

func TestLoadNested(t *testing.T) {
	d := loadNested(t)
	assert.Equal(t, 2, d.Len())

	def, ok := d.Definition("lith_cd")
	require.True(t, ok)
	assert.Equal(t, "714", def.ParameterID)
	assert.Equal(t, "Lithology", def.Name)
	assert.Equal(t, "Lith", def.Header)
	assert.Equal(t, "Basalt", def.Codes["BSLT"])
	assert.Equal(t, "620.svg", def.Icons["SAND"])
	_, hasIcon := def.Icons["BSLT"]
	assert.False(t, hasIcon)

	def, ok = d.Definition("csng_material_cd")
	require.True(t, ok)
	assert.Equal(t, "C076", def.ParameterID)
}

func TestLoadNested_InvalidJSON(t *testing.T) {
	err := New().LoadNested(strings.NewReader("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode nested definitions")
}

func TestLoadNestedYAML(t *testing.T) {
	src := `
open_cd:
  C Number: 3000
  parameter_nm: Type of opening
  head_1_tx: Opening
  Codes:
    S: [Screen, screen.svg]
    X: Open hole
`
	d := New()
	require.NoError(t, d.LoadNestedYAML(strings.NewReader(src)))

	assert.Equal(t, Resolution{Description: "Screen", Icon: "screen.svg"}, d.Resolve("open_cd", "S"))
	assert.Equal(t, Resolution{Description: "Open hole"}, d.Resolve("open_cd", "X"))

	def, ok := d.Definition("open_cd")
	require.True(t, ok)
	assert.Equal(t, "3000", def.ParameterID)
}

func TestResolve(t *testing.T) {
	d := loadNested(t)

	tests := []struct {
		name   string
		column string
		code   string
		want   Resolution
	}{
		{"description and icon", "lith_cd", "SAND", Resolution{Description: "Sand", Icon: "620.svg"}},
		{"description only", "lith_cd", "BSLT", Resolution{Description: "Basalt"}},
		{"unknown code", "lith_cd", "GRVL", Resolution{}},
		{"empty code", "lith_cd", "", Resolution{}},
		{"unknown column", "finish_cd", "S", Resolution{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Resolve(tt.column, tt.code))
		})
	}
}

func TestResolve_EmptyDictionary(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, Resolution{}, New().Resolve("seal_cd", "C"))
	})
}

const gwdd = "# gw_gwdd\n" +
	"table_nm\tcolumn_nm\tparameter_cd\tparameter_nm\thead_1_tx\tenglish_unit_tx\tgw_ref_cd\tgw_ref_nm\n" +
	"10s\t20s\t5s\t40s\t20s\t10s\t5s\t60s\n" +
	"gw_cons\tfinish_cd\tC065\tType of finish\tFinish\t\tS\tScreen\n" +
	"gw_cons\tfinish_cd\tC065\tType of finish\tFinish\t\tO\tOpen end\n" +
	"gw_csng_##\tcsng_material_cd\tC076\tCasing material\tMaterial\t\tT\tTeflon\n" +
	"gw_lev\tlev_status_cd\tC238\tSite status\tStatus\t\tD\tDry\n"

func TestLoadTable(t *testing.T) {
	tbl, err := rdb.Parse(strings.NewReader(gwdd))
	require.NoError(t, err)

	d := New()
	require.NoError(t, d.LoadTable(tbl))

	assert.Equal(t, "Screen", d.Resolve("finish_cd", "S").Description)
	assert.Equal(t, "Open end", d.Resolve("finish_cd", "O").Description)
	assert.Equal(t, "Teflon", d.Resolve("csng_material_cd", "T").Description, "_## suffix stripped")

	_, ok := d.Definition("lev_status_cd")
	assert.False(t, ok, "unrecognized table filtered out")
}

func TestLoadTable_MergesWithNested(t *testing.T) {
	d := loadNested(t)

	tbl, err := rdb.Parse(strings.NewReader(gwdd))
	require.NoError(t, err)
	require.NoError(t, d.LoadTable(tbl))

	// Nested codes survive, flat codes are added to the same column.
	assert.Equal(t, Resolution{Description: "Steel", Icon: "#6e6e6e"}, d.Resolve("csng_material_cd", "S"))
	assert.Equal(t, "Teflon", d.Resolve("csng_material_cd", "T").Description)

	// Accumulating twice keeps every code.
	require.NoError(t, d.LoadTable(tbl))
	def, _ := d.Definition("finish_cd")
	assert.Len(t, def.Codes, 2)
}

func TestLoadTable_MissingColumn(t *testing.T) {
	tbl, err := rdb.ParseLines([]string{"table_nm\tgw_ref_cd", "10s\t5s"})
	require.NoError(t, err)

	err = New().LoadTable(tbl)
	var mce *rdb.MissingColumnError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "column_nm", mce.Column)
}

func TestLoadAquifers(t *testing.T) {
	tbl, err := rdb.ParseLines([]string{
		"# aquifer codes",
		"state_cd\taqfr_cd\taqfr_nm",
		"2s\t10s\t60s",
		"41\t100ALVM\tAlluvium",
		"41\t121BSLT\tBasalt",
	})
	require.NoError(t, err)

	d := New()
	require.NoError(t, d.LoadAquifers(tbl))

	assert.Equal(t, Resolution{Description: "Alluvium"}, d.Resolve(AquiferColumn, "100ALVM"))
	assert.Equal(t, Resolution{Description: "Basalt"}, d.Resolve(AquiferColumn, "121BSLT"))
	assert.Equal(t, Resolution{}, d.Resolve(AquiferColumn, "999XXXX"))
}
