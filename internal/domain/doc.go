// Package domain models ADF&G salmon escapement survey data.
//
// # Data Source
//
// Observations come from the SASAP (State of Alaska's Salmon and People)
// daily escapement counts dataset, distributed as a single CSV through the
// Knowledge Network for Biocomplexity (KNB). Each row is one daily count of
// fish passing a sampling location (weir, tower, or sonar station).
//
// # CSV Conventions
//
// Required columns:
//
//	sampleDate    ISO date, "YYYY-MM-DD". Any other shape is malformed input.
//	Species       e.g. "sockeye", "chinook", "coho".
//	SASAP.Region  management region, e.g. "Bristol Bay".
//	Location      sampling site name; keys the location table.
//	DailyCount    non-negative integer count for that day.
//
// Optional columns (may be absent per row or entirely):
//
//	Latitude, Longitude   WGS-84 decimal degrees for the sampling site.
//
// # Aggregation
//
// Annual escapement for a site is the sum of its daily counts within one
// (species, region, year, location) group. The species-level statistic is
// the median of those per-group sums, using the mean of the two central
// values for even-sized groups. Summing before taking the median matters:
// the median of daily counts is not the median of annual escapements.
//
// # Longitude Sign Defect
//
// A known data-entry defect leaves some longitudes with a flipped sign,
// plotting Alaskan sites in Siberia. Every valid site in this dataset lies
// in the western hemisphere, so [SanitizeLongitudes] forces each longitude
// to -abs(longitude). This is a dataset-specific repair, not a general
// geographic validity check.
package domain
