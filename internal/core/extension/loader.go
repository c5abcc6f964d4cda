package extension

import (
	"fmt"
	"plugin"
)

// openPlugin is the production OpenFunc: modules are Go plugins exporting an
// `Extension` symbol, either a Module value or a variable holding one.
func openPlugin(path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin: %w", err)
	}

	sym, err := p.Lookup("Extension")
	if err != nil {
		return nil, fmt.Errorf("lookup Extension symbol: %w", err)
	}

	switch v := sym.(type) {
	case Module:
		return v, nil
	case *Module:
		if *v == nil {
			return nil, fmt.Errorf("Extension symbol is nil")
		}
		return *v, nil
	default:
		return nil, fmt.Errorf("Extension symbol has type %T, want extension.Module", sym)
	}
}
