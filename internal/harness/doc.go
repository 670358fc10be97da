// Package harness runs dashboard scenarios: a set of payloads, optional
// chart settings, and assertions over the resulting dashboard view.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	snapshot_id: fixed-id            # optional, for golden comparison
//	skip_malformed_rows: false       # optional, lenient decoding
//	charts:                          # optional, overrides config defaults
//	  latest_policy: max
//	  top_projects: 3
//	payloads_dir: ../payloads        # directory of <category>.json, or
//	payloads:                        # inline bodies per category
//	  financial: |
//	    {"records": [...]}
//	assertions:
//	  - type: chart_labels
//	    chart: revenue_by_division
//	    labels: ["Wayne Aerospace", "Wayne Foods"]
//	  - type: chart_values
//	    chart: revenue_by_division
//	    series: "Revenue (M)"
//	    values: [400, 600]
//	  - type: headline
//	    text: "Aerospace R&D drives 40.0% of 2024 revenue"
//
// Categories missing from payloads are served as {"records": []}.
//
// # Assertion Types
//
//   - chart_labels: a panel's labels equal the given list
//   - chart_values: one series of a panel equals the given values
//   - headline: the insight headline equals text
//   - ratio: the insight ratio equals ratio (within 1e-9)
//   - tile: the summary tile named label shows text
//   - skipped: the number of rows dropped by lenient decoding equals count
//   - error: loading fails with the fetch error code in code
//
// # Deterministic Testing
//
// Every scenario runs with a fixed snapshot ID and a fixed clock starting at
// testutil.Epoch, so the dashboard view can be compared against golden files
// with RunWithGolden.
package harness
