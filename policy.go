package pipeit

// Policy decides where the flowing value is inserted among the arguments a
// DeferredCall captured at construction time.
type Policy int

const (
	// AppendLast passes the flowing value after the bound positional arguments.
	AppendLast Policy = iota + 1
	// PrependFirst passes the flowing value before the bound positional arguments.
	PrependFirst
	// SpreadAll passes each element of the flowing value as its own positional
	// argument, followed by the bound positional arguments.
	SpreadAll
)

func (p Policy) String() string {
	switch p {
	case AppendLast:
		return "append-last"
	case PrependFirst:
		return "prepend-first"
	case SpreadAll:
		return "spread-all"
	}
	return "unknown"
}
