// SPDX-License-Identifier: MIT

// Package eligibility decides which (shelter, demand category) combinations
// are legal assignment targets.
//
// Shelters carry a gender Designation; demand is disaggregated by Gender.
// The rule set is deliberately tiny and pure:
//
//	Designation │ Men │ Women
//	────────────┼─────┼──────
//	MenOnly     │  ✓  │
//	WomenOnly   │     │  ✓
//	Mixed       │  ✓  │  ✓
//
// Every allocation engine (random, greedy, optimizer) consults the same table
// through core.Instance, so no engine can route flow onto an ineligible pair.
//
// Parsing:
//
//	ParseGender("female")        → Women
//	ParseDesignation("men-only") → MenOnly
//
// Unknown spellings return ErrUnknownGender / ErrUnknownDesignation so that
// malformed upstream data fails before any engine runs.
package eligibility
