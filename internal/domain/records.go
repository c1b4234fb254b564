package domain

import "github.com/couchcryptid/well-construction-service/internal/rdb"

// Site is the canonical sitefile row for a well.
type Site struct {
	SiteNo      string
	LandSurface float64 // alt_va, 0 when not a number
	AltDatum    string  // alt_datum_cd
	Fields      rdb.Row // every sitefile column, emitted as-is
}

// ConstructionEvent is one gw_cons row.
type ConstructionEvent struct {
	ConsSeqNu  int    `json:"cons_seq_nu"`
	SealDepth  Number `json:"seal_depth_va"`
	SourceCode string `json:"cons_src_cd"`
	FinishCode string `json:"finish_cd"`
	FinishDesc string `json:"finish_ds"`
	SealCode   string `json:"seal_cd"`
	SealDesc   string `json:"seal_ds"`
	SealIcon   string `json:"seal_cl"`
}

// HoleInterval is one gw_hole row with all numeric fields present.
type HoleInterval struct {
	ConsSeqNu int     `json:"cons_seq_nu"`
	HoleSeqNu int     `json:"hole_seq_nu"`
	Top       float64 `json:"hole_top_va"`
	Bottom    float64 `json:"hole_bottom_va"`
	Diameter  float64 `json:"hole_dia_va"`
}

// CasingInterval is one gw_csng row with all numeric fields present.
type CasingInterval struct {
	ConsSeqNu    int     `json:"cons_seq_nu"`
	CsngSeqNu    int     `json:"csng_seq_nu"`
	Top          float64 `json:"csng_top_va"`
	Bottom       float64 `json:"csng_bottom_va"`
	Diameter     float64 `json:"csng_dia_va"`
	MaterialCode string  `json:"csng_material_cd"`
	MaterialDesc string  `json:"csng_material_ds"`
	MaterialIcon string  `json:"csng_material_cl"`
}

// OpenInterval is one gw_open row with all numeric fields present.
type OpenInterval struct {
	ConsSeqNu    int     `json:"cons_seq_nu"`
	OpenSeqNu    int     `json:"open_seq_nu"`
	Top          float64 `json:"open_top_va"`
	Bottom       float64 `json:"open_bottom_va"`
	Diameter     float64 `json:"open_dia_va"`
	MaterialCode string  `json:"open_material_cd"`
	OpenCode     string  `json:"open_cd"`
	OpenDesc     string  `json:"open_ds"`
	Icon         string  `json:"image"`
}

// GeohydrologicInterval is one gw_geoh row. It belongs to the site, not to
// a construction event.
type GeohydrologicInterval struct {
	GeohSeqNu int    `json:"geoh_seq_nu"`
	LithCode  string `json:"lith_cd"`
	Top       Number `json:"lith_top_va"`
	Bottom    Number `json:"lith_bottom_va"`
	UnitCode  string `json:"lith_unit_cd"`
	LithDesc  string `json:"lith_ds"`
	Icon      string `json:"image"`
	UnitDesc  string `json:"lith_unit_ds"`
}

// Construction groups the records of one construction event. Cons is nil
// when interval rows reference an event missing from gw_cons.
type Construction struct {
	ConsSeqNu int
	Cons      *ConstructionEvent
	Holes     []HoleInterval
	Casings   []CasingInterval
	Openings  []OpenInterval
}

// JoinStats counts rows kept and dropped per table.
type JoinStats struct {
	Joined  map[string]int
	Dropped map[string]int
}

// WellRecord is the joined tree for one site.
type WellRecord struct {
	Site         Site
	Geology      []GeohydrologicInterval // ascending geoh_seq_nu
	Construction []Construction          // ascending cons_seq_nu, intervals ascending by their own key
	Extrema      Extrema
	Stats        JoinStats
}
