package catalog

import (
	"fmt"
	"strings"
)

// PrintOptions are the keyword arguments of Print. Nil fields keep their
// defaults: a single space between items and a trailing newline.
type PrintOptions struct {
	Sep *string `mapstructure:"sep"`
	End *string `mapstructure:"end"`
}

// Print writes items to the registry's output, separated by opts.Sep and
// followed by opts.End.
func (r *Registry) Print(opts PrintOptions, items ...any) error {
	sep, end := " ", "\n"
	if opts.Sep != nil {
		sep = *opts.Sep
	}
	if opts.End != nil {
		end = *opts.End
	}

	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprint(item)
	}
	_, err := fmt.Fprint(r.out, strings.Join(parts, sep), end)
	return err
}
