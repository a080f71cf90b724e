package code

import (
	"sort"
	"strconv"
	"strings"
)

type importKind uint8

const (
	importNamed importKind = iota
	importNamespace
	importDefault
)

type importSpec struct {
	module string
	symbol string
	alias  string
	kind   importKind
}

// Imports is the import table of one generated module. Every name that
// appears in generated code is either defined locally or returned by one of
// the import methods, which guarantees that no two bindings share a name.
type Imports struct {
	local map[string]bool
	taken map[string]bool
	specs map[string]*importSpec
}

func NewImports() *Imports {
	return &Imports{
		local: make(map[string]bool),
		taken: make(map[string]bool),
		specs: make(map[string]*importSpec),
	}
}

// Define records a name declared by the module itself. Local names take
// precedence over imports, so Define every declaration before generating
// code that imports anything.
func (i *Imports) Define(name string) {
	i.local[name] = true
	i.taken[name] = true
}

// IsDefined reports whether name is declared locally.
func (i *Imports) IsDefined(name string) bool {
	return i.local[name]
}

// Named imports symbol from module and returns the binding to use for it.
// A symbol that collides with another binding receives a numeric alias.
func (i *Imports) Named(module string, symbol string) string {
	return i.add(module, symbol, importNamed)
}

// Namespace returns the binding of an `import * as name` import.
func (i *Imports) Namespace(module string, name string) string {
	return i.add(module, name, importNamespace)
}

// Default returns the binding of an `import name from` import.
func (i *Imports) Default(module string, name string) string {
	return i.add(module, name, importDefault)
}

func (i *Imports) add(module string, symbol string, kind importKind) string {
	key := module + "\x00" + strconv.Itoa(int(kind)) + "\x00" + symbol
	if spec, ok := i.specs[key]; ok {
		return spec.alias
	}
	alias := symbol
	for n := 1; i.taken[alias]; n = n + 1 {
		alias = symbol + strconv.Itoa(n)
	}
	i.taken[alias] = true
	i.specs[key] = &importSpec{module: module, symbol: symbol, alias: alias, kind: kind}
	return alias
}

func (i *Imports) Len() int {
	return len(i.specs)
}

// Render returns the import block. Package imports come before relative
// imports and both are sorted by module so the output is stable.
func (i *Imports) Render() string {
	byModule := make(map[string][]*importSpec)
	for _, spec := range i.specs {
		byModule[spec.module] = append(byModule[spec.module], spec)
	}
	modules := make([]string, 0, len(byModule))
	for m := range byModule {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(a, b int) bool {
		ra, rb := isRelative(modules[a]), isRelative(modules[b])
		if ra != rb {
			return rb
		}
		return modules[a] < modules[b]
	})

	var b strings.Builder
	for _, m := range modules {
		specs := byModule[m]
		sort.Slice(specs, func(x, y int) bool {
			if specs[x].kind != specs[y].kind {
				return specs[x].kind > specs[y].kind
			}
			return specs[x].symbol < specs[y].symbol
		})
		var named []string
		for _, spec := range specs {
			switch spec.kind {
			case importDefault:
				b.WriteString("import " + spec.alias + " from \"" + m + "\";\n")
			case importNamespace:
				b.WriteString("import * as " + spec.alias + " from \"" + m + "\";\n")
			default:
				if spec.alias == spec.symbol {
					named = append(named, spec.symbol)
				} else {
					named = append(named, spec.symbol+" as "+spec.alias)
				}
			}
		}
		if len(named) > 0 {
			b.WriteString("import { " + strings.Join(named, ", ") + " } from \"" + m + "\";\n")
		}
	}
	return b.String()
}

func isRelative(module string) bool {
	return strings.HasPrefix(module, "./") || strings.HasPrefix(module, "../")
}
