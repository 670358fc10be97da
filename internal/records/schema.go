package records

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// schemaSource declares the required shape of every row kind. Definitions
// are left open (...) so the backend may add columns without breaking
// decoding; only the fields the transforms read are required.
const schemaSource = `
#financial: {
	Division:          string
	Quarter:           string
	Year:              int
	Revenue_M:         number
	Net_Profit_M:      number
	Market_Share_Pct?: number | null
	...
}

#hr: {
	Department:         string
	Date:               string
	Retention_Rate_Pct: number
	...
}

#rnd: {
	Project_Name:       string
	Budget_Allocated_M: number
	Budget_Spent_M:     number
	...
}

#security: {
	District:           string
	Date:               string
	Security_Incidents: int
	...
}
`

// rowValidator checks raw JSON rows against the definition for one category.
//
// A cue.Context is not safe for concurrent use, so each validator owns its
// own context. Create one validator per decode call.
type rowValidator struct {
	ctx *cue.Context
	def cue.Value
}

func newRowValidator(c Category) (*rowValidator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("records.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling record schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#" + string(c)))
	if !def.Exists() {
		return nil, fmt.Errorf("no schema for category %q", c)
	}

	return &rowValidator{ctx: ctx, def: def}, nil
}

// check validates one raw row. The returned SchemaError carries the first
// offending field when CUE reports one.
func (v *rowValidator) check(c Category, index int, raw []byte) *SchemaError {
	row := v.ctx.CompileBytes(raw)
	if err := row.Err(); err != nil {
		return newSchemaError(c, index, err)
	}

	unified := v.def.Unify(row)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return newSchemaError(c, index, err)
	}
	return nil
}

// newSchemaError converts a CUE error into a SchemaError for row index.
func newSchemaError(c Category, index int, err error) *SchemaError {
	se := &SchemaError{Category: c, Index: index, Message: err.Error()}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return se
	}

	first := errs[0]
	if path := first.Path(); len(path) > 0 {
		se.Field = strings.Join(path, ".")
	}
	format, args := first.Msg()
	se.Message = fmt.Sprintf(format, args...)
	return se
}
