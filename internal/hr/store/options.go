package store

// Op is a comparison operator usable in a query condition.
type Op string

const (
	OpEq  Op = "=="
	OpNeq Op = "!="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
)

// Condition matches a single document field against a value.
// OpGte on string fields doubles as a crude prefix search.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Order sorts the result set by one field.
type Order struct {
	Field string
	Desc  bool
}

// Options narrows and orders a collection read. All conditions are
// combined with logical AND. A nil Options reads the whole collection.
type Options struct {
	Where   []Condition
	OrderBy []Order
	Limit   int
}

// Where is a convenience constructor for a single-condition Options.
func Where(field string, op Op, value any) *Options {
	return &Options{Where: []Condition{{Field: field, Op: op, Value: value}}}
}
