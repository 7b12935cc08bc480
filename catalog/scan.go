package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"gopkg.in/yaml.v3"
)

// Scan builds a catalog skeleton from Go source. Each exported type with
// exported methods becomes an entry named in lower case; its operations keep
// source order in lower-camel form. Entries are sorted by name.
func Scan(src []byte) (*File, error) {
	f, err := decorator.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}

	var order []string
	methods := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	add := func(typ, name string) {
		if _, ok := methods[typ]; !ok {
			order = append(order, typ)
			methods[typ] = nil
			seen[typ] = make(map[string]bool)
		}
		if name == "" || seen[typ][name] {
			return
		}
		seen[typ][name] = true
		methods[typ] = append(methods[typ], name)
	}

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *dst.GenDecl:
			for _, spec := range d.Specs {
				if ts, ok := spec.(*dst.TypeSpec); ok && ts.Name.IsExported() {
					add(ts.Name.Name, "")
				}
			}
		case *dst.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) == 0 || !d.Name.IsExported() {
				continue
			}
			if typ := receiverName(d.Recv.List[0].Type); typ != "" && dst.IsExported(typ) {
				add(typ, lowerCamel(d.Name.Name))
			}
		}
	}

	out := &File{}
	for _, typ := range order {
		if len(methods[typ]) == 0 {
			continue
		}
		out.Types = append(out.Types, Entry{Name: strings.ToLower(typ), Operations: methods[typ]})
	}
	sort.SliceStable(out.Types, func(i, j int) bool { return out.Types[i].Name < out.Types[j].Name })
	return out, nil
}

func receiverName(e dst.Expr) string {
	switch t := e.(type) {
	case *dst.Ident:
		return t.Name
	case *dst.StarExpr:
		return receiverName(t.X)
	case *dst.IndexExpr:
		return receiverName(t.X)
	case *dst.IndexListExpr:
		return receiverName(t.X)
	}
	return ""
}

// lowerCamel lower-cases the leading rune, or a leading acronym such as
// "URL" in "URLPath".
func lowerCamel(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n > 1 && n < len(runes) {
		n-- // keep the start of the next word
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// Marshal encodes the catalog as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// ScanFile reads path and scans it.
func ScanFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Scan(src)
}
