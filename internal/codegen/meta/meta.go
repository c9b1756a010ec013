package meta

import "github.com/Alia5/borshgen/internal/codegen/layout"

// Metadata holds everything the emitter needs from one generation run.
// Shared between generator orchestrator and the TypeScript emitter.
type Metadata struct {
	Source  string          // schema file or scanned package the layouts came from
	Roots   []string        // requested root types; empty means every declaration
	Layouts []layout.Layout // encounter order, unique by name
}

// Lookup returns the layout with the given name.
func (m *Metadata) Lookup(name string) (layout.Layout, bool) {
	for _, l := range m.Layouts {
		if l.Name == name {
			return l, true
		}
	}
	return layout.Layout{}, false
}
