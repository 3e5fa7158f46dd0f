// Package harness runs crafting scenarios against a datapack.
//
// A scenario loads a pack through the loader, installs its recipes in a
// fresh registry and crafts a sequence of grids, checking each result.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	pack: ../../../loader/testdata/basic
//	transformers:
//	  "extremecraft:tools/neutron_hammer":
//	    2: keep
//	crafts:
//	  - grid:
//	      width: 9
//	      height: 9
//	      slots:
//	        0: minecraft:iron_ingot
//	        2: minecraft:stick
//	    expect:
//	      match: true
//	      recipe: extremecraft:tools/neutron_hammer
//	      output: 'extremecraft:neutron_hammer{"Damage":0}'
//	      remaining:
//	        2: minecraft:stick
//
// Stacks use the compact "id*count{tag}" form. An expectation's remaining
// table lists every non-empty slot after the craft; unlisted slots must be
// empty. Omitting remaining skips the check.
//
// # Transformers
//
// Transformer tables are attached to their recipes once, before the first
// craft. A slot index refers to the grid slot, so a recipe with a table
// only keeps items that sit in the configured slots.
//
// # Golden Files
//
// RunWithGolden serializes the craft trace as indented JSON and compares it
// against testdata/golden/{name}.golden using goldie. Run the tests with
// -update to regenerate.
package harness
