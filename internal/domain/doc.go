// Package domain joins NWIS groundwater site extracts into a single well
// construction record and shapes it for the plotting front end.
//
// # Data Source
//
// Every table is an RDB extract from the National Water Information System
// (NWIS) groundwater site inventory, one file per table, all keyed by
// site_no:
//
//	sitefile  one row per site: alt_va, alt_datum_cd, well_depth_va, hole_depth_va
//	gw_cons   construction events keyed by cons_seq_nu: seal, finish, source
//	gw_hole   borehole intervals keyed by (cons_seq_nu, hole_seq_nu)
//	gw_csng   casing intervals keyed by (cons_seq_nu, csng_seq_nu)
//	gw_open   open intervals (screens, open hole) keyed by (cons_seq_nu, open_seq_nu)
//	gw_geoh   geohydrologic (lithology) intervals keyed by geoh_seq_nu
//
// # NWIS Data Conventions
//
// Depths are feet below land surface, diameters are inches. All values
// arrive as text; an empty field means "not recorded". Coded columns
// (seal_cd, finish_cd, csng_material_cd, open_cd, lith_cd, lith_unit_cd) are
// resolved through a code dictionary; an unknown code resolves to an empty
// description.
//
// Partial-failure policy:
//
//	hole, casing, open: a row whose top, bottom or diameter is not a number
//	                    is dropped; sibling rows are unaffected.
//	geology:            top and bottom are nulled independently; the row stays.
//	seal depth:         nulled when not a number.
//
// # Plot Extremes
//
// The joiner threads one running maximum depth and one running maximum
// diameter through every table. Depth contributions: well and hole depth from
// the sitefile, seal depth, hole/casing/open top and bottom, lithology top
// and bottom. Diameter contributions: hole, casing and open diameters. The
// minimum depth is always 0 (land surface).
package domain
