// Package worldbank implements the bulk acquisition core for the World Bank
// v2 API: catalog enumeration (countries, indicators), per-series paginated
// fetching, worker-pool fan-out across indicators, and a strictly sequential
// alternative driver.
//
// Observations are opaque: the package concatenates response records without
// interpreting their fields. Empty series are dropped everywhere, never stored
// as empty lists.
package worldbank
