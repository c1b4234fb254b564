package domain

import (
	"log/slog"
	"sort"

	"github.com/couchcryptid/well-construction-service/internal/codes"
	"github.com/couchcryptid/well-construction-service/internal/rdb"
)

const (
	// SiteKey is the column every table is filtered on.
	SiteKey = "site_no"

	// DefaultLithologyIcon marks a geology interval whose lithology has no
	// icon of its own but whose geologic unit is known.
	DefaultLithologyIcon = "000.svg"
)

// Table names, used for stats and log fields.
const (
	TableSite = "sitefile"
	TableCons = "gw_cons"
	TableHole = "gw_hole"
	TableCsng = "gw_csng"
	TableOpen = "gw_open"
	TableGeoh = "gw_geoh"
)

// requiredColumns lists the columns each table is grouped or measured on.
var requiredColumns = map[string][]string{
	TableSite: {SiteKey},
	TableCons: {SiteKey, "cons_seq_nu"},
	TableGeoh: {SiteKey, "geoh_seq_nu"},
	TableHole: intervalColumns("hole"),
	TableCsng: intervalColumns("csng"),
	TableOpen: intervalColumns("open"),
}

// RequiredColumns returns the columns Join needs in the named table.
func RequiredColumns(table string) []string {
	return requiredColumns[table]
}

func intervalColumns(prefix string) []string {
	return []string{SiteKey, "cons_seq_nu", prefix + "_seq_nu", prefix + "_top_va", prefix + "_bottom_va", prefix + "_dia_va"}
}

// CodeResolver resolves coded column values.
type CodeResolver interface {
	Resolve(column, code string) codes.Resolution
}

// Tables are the parsed inputs of a join. Site and Cons are required;
// the rest may be nil when the site has no such data.
type Tables struct {
	Site *rdb.Table
	Cons *rdb.Table
	Hole *rdb.Table
	Csng *rdb.Table
	Open *rdb.Table
	Geoh *rdb.Table
}

// JoinOptions tunes a Joiner.
type JoinOptions struct {
	// SortedInput enables the early-exit row scan; see rdb.SelectOptions.
	SortedInput bool
	// SiteSource names the site table in error messages. Defaults to "sitefile".
	SiteSource string
}

// Joiner correlates one site's rows across tables. A Joiner owns the
// running extrema of a single join and must not be reused.
type Joiner struct {
	codes   CodeResolver
	logger  *slog.Logger
	opts    JoinOptions
	extrema Extrema
	stats   JoinStats

	siteNo string
	events map[int]*Construction
}

// NewJoiner creates a Joiner for one request.
func NewJoiner(resolver CodeResolver, logger *slog.Logger, opts JoinOptions) *Joiner {
	if opts.SiteSource == "" {
		opts.SiteSource = TableSite
	}
	return &Joiner{
		codes:  resolver,
		logger: logger,
		opts:   opts,
		stats:  JoinStats{Joined: map[string]int{}, Dropped: map[string]int{}},
		events: map[int]*Construction{},
	}
}

// Join builds the well record for siteNo. It fails when the site or its
// construction events are absent, or when a table lacks one of its key or
// measurement columns. Malformed interval rows are dropped and counted in
// WellRecord.Stats.
func (j *Joiner) Join(siteNo string, t Tables) (*WellRecord, error) {
	j.siteNo = siteNo

	if err := t.checkColumns(); err != nil {
		return nil, err
	}

	siteRows, err := j.selectRows(t.Site, siteNo)
	if err != nil {
		return nil, err
	}
	if len(siteRows) == 0 {
		return nil, &SiteNotFoundError{SiteNo: siteNo, Source: j.opts.SiteSource}
	}

	consRows, err := j.selectRows(t.Cons, siteNo)
	if err != nil {
		return nil, err
	}
	if len(consRows) == 0 {
		return nil, &NoConstructionError{SiteNo: siteNo}
	}

	secondary := map[string][]rdb.Row{}
	for _, st := range []struct {
		name  string
		table *rdb.Table
	}{
		{TableGeoh, t.Geoh},
		{TableHole, t.Hole},
		{TableCsng, t.Csng},
		{TableOpen, t.Open},
	} {
		rows, err := j.selectRows(st.table, siteNo)
		if err != nil {
			return nil, err
		}
		secondary[st.name] = rows
	}

	rec := &WellRecord{Site: j.joinSite(siteRows)}
	rec.Geology = j.joinGeology(secondary[TableGeoh])
	j.joinCons(consRows)
	if j.stats.Joined[TableCons] == 0 {
		return nil, &NoConstructionError{SiteNo: siteNo}
	}
	j.joinHoles(secondary[TableHole])
	j.joinCasings(secondary[TableCsng])
	j.joinOpenings(secondary[TableOpen])

	rec.Construction = j.construction()
	rec.Extrema = j.extrema
	rec.Stats = j.stats
	return rec, nil
}

// checkColumns reports the first required column missing from a present table.
func (t Tables) checkColumns() error {
	for _, st := range []struct {
		name  string
		table *rdb.Table
	}{
		{TableSite, t.Site},
		{TableCons, t.Cons},
		{TableGeoh, t.Geoh},
		{TableHole, t.Hole},
		{TableCsng, t.Csng},
		{TableOpen, t.Open},
	} {
		if st.table == nil {
			continue
		}
		for _, col := range requiredColumns[st.name] {
			if !st.table.HasColumn(col) {
				return &rdb.MissingColumnError{Column: col}
			}
		}
	}
	return nil
}

func (j *Joiner) selectRows(t *rdb.Table, siteNo string) ([]rdb.Row, error) {
	if t == nil {
		return nil, nil
	}
	return t.Select(SiteKey, siteNo, rdb.SelectOptions{Sorted: j.opts.SortedInput})
}

// joinSite keeps the last matching row and seeds the depth maximum with the
// larger of well depth and hole depth.
func (j *Joiner) joinSite(rows []rdb.Row) Site {
	row := rows[len(rows)-1]

	site := Site{SiteNo: j.siteNo, AltDatum: row["alt_datum_cd"], Fields: row}
	if alt := ParseNumber(row["alt_va"]); alt.OK {
		site.LandSurface = alt.Value
	}
	j.extrema.DepthMax.Observe(ParseNumber(row["well_depth_va"]))
	j.extrema.DepthMax.Observe(ParseNumber(row["hole_depth_va"]))
	j.stats.Joined[TableSite] = 1
	return site
}

func (j *Joiner) joinGeology(rows []rdb.Row) []GeohydrologicInterval {
	byKey := map[int]GeohydrologicInterval{}
	for _, row := range rows {
		seq, ok := parseSeq(row["geoh_seq_nu"])
		if !ok {
			j.drop(TableGeoh, row, "invalid geoh_seq_nu")
			continue
		}

		geoh := GeohydrologicInterval{
			GeohSeqNu: seq,
			LithCode:  row["lith_cd"],
			UnitCode:  row["lith_unit_cd"],
			Top:       ParseNumber(row["lith_top_va"]),
			Bottom:    ParseNumber(row["lith_bottom_va"]),
		}
		j.extrema.DepthMax.Observe(geoh.Top)
		j.extrema.DepthMax.Observe(geoh.Bottom)

		lith := j.codes.Resolve("lith_cd", geoh.LithCode)
		geoh.LithDesc = lith.Description
		geoh.UnitDesc = j.codes.Resolve(codes.AquiferColumn, geoh.UnitCode).Description
		geoh.Icon = lithologyIcon(lith.Icon, geoh.UnitCode)

		byKey[seq] = geoh
		j.stats.Joined[TableGeoh]++
	}

	out := make([]GeohydrologicInterval, 0, len(byKey))
	for _, seq := range sortedKeys(byKey) {
		out = append(out, byKey[seq])
	}
	return out
}

// lithologyIcon prefers the lithology's own icon and falls back to
// DefaultLithologyIcon when only the geologic unit is known.
func lithologyIcon(lithIcon, unitCode string) string {
	if lithIcon != "" {
		return lithIcon
	}
	if unitCode != "" {
		return DefaultLithologyIcon
	}
	return ""
}

func (j *Joiner) joinCons(rows []rdb.Row) {
	for _, row := range rows {
		seq, ok := parseSeq(row["cons_seq_nu"])
		if !ok {
			j.drop(TableCons, row, "invalid cons_seq_nu")
			continue
		}

		cons := &ConstructionEvent{
			ConsSeqNu:  seq,
			SealDepth:  ParseNumber(row["seal_depth_va"]),
			SourceCode: row["cons_src_cd"],
			FinishCode: row["finish_cd"],
			SealCode:   row["seal_cd"],
		}
		j.extrema.DepthMax.Observe(cons.SealDepth)

		cons.FinishDesc = j.codes.Resolve("finish_cd", cons.FinishCode).Description
		seal := j.codes.Resolve("seal_cd", cons.SealCode)
		cons.SealDesc = seal.Description
		cons.SealIcon = seal.Icon

		j.event(seq).Cons = cons
		j.stats.Joined[TableCons]++
	}
}

// interval is the shared numeric core of hole, casing and open rows.
type interval struct {
	consSeq int
	seq     int
	top     float64
	bottom  float64
	dia     float64
}

// parseInterval extracts the keys and the three required numeric fields.
// It reports false, after recording the drop, if any of them fails.
func (j *Joiner) parseInterval(table, prefix string, row rdb.Row) (interval, bool) {
	consSeq, ok := parseSeq(row["cons_seq_nu"])
	if !ok {
		j.drop(table, row, "invalid cons_seq_nu")
		return interval{}, false
	}
	seq, ok := parseSeq(row[prefix+"_seq_nu"])
	if !ok {
		j.drop(table, row, "invalid "+prefix+"_seq_nu")
		return interval{}, false
	}

	top := ParseNumber(row[prefix+"_top_va"])
	bottom := ParseNumber(row[prefix+"_bottom_va"])
	dia := ParseNumber(row[prefix+"_dia_va"])
	switch {
	case !dia.OK:
		j.drop(table, row, "invalid "+prefix+"_dia_va")
		return interval{}, false
	case !top.OK:
		j.drop(table, row, "invalid "+prefix+"_top_va")
		return interval{}, false
	case !bottom.OK:
		j.drop(table, row, "invalid "+prefix+"_bottom_va")
		return interval{}, false
	}

	j.extrema.DepthMax.Observe(top)
	j.extrema.DepthMax.Observe(bottom)
	j.extrema.DiaMax.Observe(dia)
	j.stats.Joined[table]++

	return interval{consSeq: consSeq, seq: seq, top: top.Value, bottom: bottom.Value, dia: dia.Value}, true
}

func (j *Joiner) joinHoles(rows []rdb.Row) {
	holes := map[int]map[int]HoleInterval{}
	for _, row := range rows {
		iv, ok := j.parseInterval(TableHole, "hole", row)
		if !ok {
			continue
		}
		nested(holes, iv.consSeq)[iv.seq] = HoleInterval{
			ConsSeqNu: iv.consSeq,
			HoleSeqNu: iv.seq,
			Top:       iv.top,
			Bottom:    iv.bottom,
			Diameter:  iv.dia,
		}
	}
	for consSeq, bySeq := range holes {
		ev := j.event(consSeq)
		for _, seq := range sortedKeys(bySeq) {
			ev.Holes = append(ev.Holes, bySeq[seq])
		}
	}
}

func (j *Joiner) joinCasings(rows []rdb.Row) {
	casings := map[int]map[int]CasingInterval{}
	for _, row := range rows {
		iv, ok := j.parseInterval(TableCsng, "csng", row)
		if !ok {
			continue
		}
		material := j.codes.Resolve("csng_material_cd", row["csng_material_cd"])
		nested(casings, iv.consSeq)[iv.seq] = CasingInterval{
			ConsSeqNu:    iv.consSeq,
			CsngSeqNu:    iv.seq,
			Top:          iv.top,
			Bottom:       iv.bottom,
			Diameter:     iv.dia,
			MaterialCode: row["csng_material_cd"],
			MaterialDesc: material.Description,
			MaterialIcon: material.Icon,
		}
	}
	for consSeq, bySeq := range casings {
		ev := j.event(consSeq)
		for _, seq := range sortedKeys(bySeq) {
			ev.Casings = append(ev.Casings, bySeq[seq])
		}
	}
}

func (j *Joiner) joinOpenings(rows []rdb.Row) {
	openings := map[int]map[int]OpenInterval{}
	for _, row := range rows {
		iv, ok := j.parseInterval(TableOpen, "open", row)
		if !ok {
			continue
		}
		openType := j.codes.Resolve("open_cd", row["open_cd"])
		nested(openings, iv.consSeq)[iv.seq] = OpenInterval{
			ConsSeqNu:    iv.consSeq,
			OpenSeqNu:    iv.seq,
			Top:          iv.top,
			Bottom:       iv.bottom,
			Diameter:     iv.dia,
			MaterialCode: row["open_material_cd"],
			OpenCode:     row["open_cd"],
			OpenDesc:     openType.Description,
			Icon:         openType.Icon,
		}
	}
	for consSeq, bySeq := range openings {
		ev := j.event(consSeq)
		for _, seq := range sortedKeys(bySeq) {
			ev.Openings = append(ev.Openings, bySeq[seq])
		}
	}
}

func (j *Joiner) event(consSeq int) *Construction {
	ev, ok := j.events[consSeq]
	if !ok {
		ev = &Construction{ConsSeqNu: consSeq}
		j.events[consSeq] = ev
	}
	return ev
}

func (j *Joiner) construction() []Construction {
	out := make([]Construction, 0, len(j.events))
	for _, seq := range sortedKeys(j.events) {
		out = append(out, *j.events[seq])
	}
	return out
}

func (j *Joiner) drop(table string, row rdb.Row, reason string) {
	j.stats.Dropped[table]++
	j.logger.Warn("dropping row",
		"site_no", j.siteNo,
		"table", table,
		"cons_seq_nu", row["cons_seq_nu"],
		"reason", reason,
	)
}

func nested[V any](m map[int]map[int]V, key int) map[int]V {
	inner, ok := m[key]
	if !ok {
		inner = map[int]V{}
		m[key] = inner
	}
	return inner
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
