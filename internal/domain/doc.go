// Package domain models daily fire-risk observations and the indicators
// derived from them.
//
// # Data Source
//
// Fire risk (RF, "risco de fogo") is published as one gridded dataset per day.
// Each file carries its date in the name, e.g. "FireRisk_20250613.nc", and a
// variable "rf" over latitude, longitude and time. The extractor samples the
// grid cell nearest to each configured location and rounds the value to two
// decimals. RF ranges roughly over [0, 1.2].
//
// # Indicators
//
// VR7 is the trailing mean of the last 7 entries (positional, so missing days
// do not shrink the window). It is undefined for the first 6 entries and never
// negative.
//
// ICTR14, shown on diagrams as TTR ("tendência temporal de risco"), is a
// path-dependent trend built on VR7:
//
//	rise  (delta > 0):  max(VR7, held + 0.3*delta + 0.01)
//	flat  (delta == 0): held
//	first drop:         max(VR7, held)
//	later drops:        VR7
//
// where delta is the day-over-day change in RF and held is the most recent
// defined indicator value. The indicator climbs quickly with risk and lets go
// of it slowly, modelling how risk persists after a spike.
//
// # Tiers
//
// RF is bucketed for colouring into Baixo [0, 0.25), Moderado [0.25, 0.50),
// Alto [0.50, 0.75) and Crítico [0.75, 1.20).
package domain
