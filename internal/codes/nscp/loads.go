package nscp

import "github.com/alexiusacademia/rcbeam/internal/design"

// NSCP 2015 Section 203.3.1 - Basic Load Combinations
var LoadCombinations = []design.LoadCombination{
	{
		ID:          "1",
		Description: "1.4D",
		Clause:      "NSCP:203.3.1",
		Dead:        1.4,
	},
	{
		ID:          "2",
		Description: "1.2D + 1.6L + 0.5(Lr or R)",
		Clause:      "NSCP:203.3.1",
		Dead:        1.2,
		Live:        1.6,
		Roof:        0.5,
		Rain:        0.5,
	},
	{
		ID:          "3",
		Description: "1.2D + 1.6(Lr or R) + (1.0L or 0.5W)",
		Clause:      "NSCP:203.3.1",
		Dead:        1.2,
		Live:        1.0,
		Roof:        1.6,
		Rain:        1.6,
		Wind:        0.5,
	},
	{
		ID:          "4",
		Description: "1.2D + 1.0W + 1.0L + 0.5(Lr or R)",
		Clause:      "NSCP:203.3.1",
		Dead:        1.2,
		Live:        1.0,
		Wind:        1.0,
		Roof:        0.5,
		Rain:        0.5,
	},
	{
		ID:          "5",
		Description: "1.2D + 1.0E + 1.0L",
		Clause:      "NSCP:203.3.1",
		Dead:        1.2,
		Live:        1.0,
		Earthquake:  1.0,
	},
	{
		ID:          "6",
		Description: "0.9D + 1.0W",
		Clause:      "NSCP:203.3.1",
		Dead:        0.9,
		Wind:        1.0,
	},
	{
		ID:          "7",
		Description: "0.9D + 1.0E",
		Clause:      "NSCP:203.3.1",
		Dead:        0.9,
		Earthquake:  1.0,
	},
}

// GravityCombinations for common beam design scenarios
// These are the most frequently used combinations for gravity loads
var GravityCombinations = []design.LoadCombination{
	LoadCombinations[0],
	{
		ID:          "2",
		Description: "1.2D + 1.6L",
		Clause:      "NSCP:203.3.1",
		Dead:        1.2,
		Live:        1.6,
	},
}
