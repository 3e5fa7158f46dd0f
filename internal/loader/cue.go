package loader

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// cueDefinition is one recipe exported from a CUE file.
type cueDefinition struct {
	name string
	json []byte
}

// exportCUE evaluates a recipe CUE file and exports each entry of its
// top-level "recipe" struct as JSON. Entries are returned in source
// order.
//
//	recipe: "infinity_ingot": {
//		type: "extremecraft:shapeless_extreme_crafting"
//		ingredients: [{item: "extremecraft:neutronium_ingot"}]
//		result: item: "extremecraft:infinity_ingot"
//	}
func exportCUE(filename string, data []byte) ([]cueDefinition, error) {
	// A cue.Context is not safe for concurrent use; one per file.
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &PackError{Code: ErrCodeCUEError, Path: filename, Message: "compiling CUE", Err: err}
	}

	recipes := value.LookupPath(cue.ParsePath("recipe"))
	if !recipes.Exists() {
		return nil, &PackError{Code: ErrCodeCUEError, Path: filename, Message: `no top-level "recipe" struct`}
	}
	iter, err := recipes.Fields()
	if err != nil {
		return nil, &PackError{Code: ErrCodeCUEError, Path: filename, Message: `"recipe" must be a struct`, Err: err}
	}

	var defs []cueDefinition
	for iter.Next() {
		name := iter.Label()
		out, err := iter.Value().MarshalJSON()
		if err != nil {
			return nil, &PackError{Code: ErrCodeCUEError, Path: filename, Message: fmt.Sprintf("exporting recipe %q", name), Err: err}
		}
		defs = append(defs, cueDefinition{name: name, json: out})
	}
	return defs, nil
}
