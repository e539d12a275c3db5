package render

import (
	"strings"

	"github.com/wukongiii/embindgen/internal/model"
	"github.com/wukongiii/embindgen/internal/style"
)

// renderProjection produces the d.ts and pre.js documents. Both project the
// already-computed mangled names into a tree that mirrors the original
// namespace/class nesting; constants are hoisted to the top level the way
// the binding table itself exposes them.
func renderProjection(p *model.Project, ctx *style.Context) (string, error) {
	var b strings.Builder

	header, err := ctx.Rule(model.KindProject).Execute("header", ProjectInfo{
		ModuleName: p.Name,
		Includes:   p.Includes,
	})
	if err != nil {
		return "", err
	}
	b.WriteString(header)
	b.WriteByte('\n')

	rule := ctx.Rule(model.KindContainer)
	for _, c := range p.Containers {
		info := nodeInfo(p.Name, &c.Base, rule)
		info.DisplayName = c.DisplayName()
		text, err := rule.Execute("", info)
		if err != nil {
			return "", err
		}
		line(&b, ctx, 1, text)
	}

	constRule := ctx.Rule(model.KindConstant)
	for _, c := range collectConstants(&p.Scope) {
		text, err := constRule.Execute("", nodeInfo(p.Name, &c.Base, constRule))
		if err != nil {
			return "", err
		}
		line(&b, ctx, 1, text)
	}

	if err := projectScope(&b, p, &p.Scope, &p.Base, ctx, 1); err != nil {
		return "", err
	}

	footer, err := ctx.Rule(model.KindProject).Execute("footer", ProjectInfo{
		ModuleName: p.Name,
		Includes:   p.Includes,
	})
	if err != nil {
		return "", err
	}
	b.WriteString(footer)
	b.WriteByte('\n')
	return b.String(), nil
}

// collectConstants gathers constants from every namespace, depth first.
func collectConstants(s *model.Scope) []*model.Constant {
	constants := append([]*model.Constant(nil), s.Constants...)
	for _, ns := range s.Namespaces {
		constants = append(constants, collectConstants(&ns.Scope)...)
	}
	return constants
}

// projectScope emits the leaf and branch entries of one namespace-like
// scope. Only nodes whose identity parent is the scope owner appear
// directly; hoisted nested types are nested back under their owning class.
func projectScope(b *strings.Builder, p *model.Project, s *model.Scope, owner *model.Base, ctx *style.Context, depth int) error {
	seen := make(map[string]bool)
	for _, f := range s.Functions {
		if seen[f.Name] {
			continue // one entry per overload bucket
		}
		seen[f.Name] = true
		rule := ctx.Rule(model.KindFunction)
		text, err := rule.Execute("", nodeInfo(p.Name, &f.Base, rule))
		if err != nil {
			return err
		}
		line(b, ctx, depth, text)
	}

	for _, e := range s.Enums {
		if e.Parent != owner {
			continue
		}
		rule := ctx.Rule(model.KindEnum)
		text, err := rule.Execute("", nodeInfo(p.Name, &e.Base, rule))
		if err != nil {
			return err
		}
		line(b, ctx, depth, text)
	}

	for _, c := range s.Classes {
		if c.Parent != owner {
			continue
		}
		if err := projectClass(b, p, s, c, ctx, depth); err != nil {
			return err
		}
	}

	for _, ns := range s.Namespaces {
		rule := ctx.Rule(model.KindNamespace)
		open, err := rule.Execute("open", nodeInfo(p.Name, &ns.Base, rule))
		if err != nil {
			return err
		}
		line(b, ctx, depth, open)
		if err := projectScope(b, p, &ns.Scope, &ns.Base, ctx, depth+1); err != nil {
			return err
		}
		closing, err := rule.Execute("close", nodeInfo(p.Name, &ns.Base, rule))
		if err != nil {
			return err
		}
		line(b, ctx, depth, closing)
	}
	return nil
}

// projectClass emits one class entry, nesting back any types that were
// hoisted out of it during the build. Styles without branch templates get
// the nested types flattened alongside the class instead. The lookup scope
// is always the enclosing namespace, since hoisting flattens every nesting
// level into it.
func projectClass(b *strings.Builder, p *model.Project, lookup *model.Scope, c *model.Class, ctx *style.Context, depth int) error {
	rule := ctx.Rule(c.Kind)
	nested := hoistedChildren(lookup, &c.Base)

	if len(nested.Classes) == 0 && len(nested.Enums) == 0 {
		text, err := rule.Execute("", nodeInfo(p.Name, &c.Base, rule))
		if err != nil {
			return err
		}
		line(b, ctx, depth, text)
		return nil
	}

	childDepth := depth
	if rule.HasVariant("branch") {
		open, err := rule.Execute("branch", nodeInfo(p.Name, &c.Base, rule))
		if err != nil {
			return err
		}
		line(b, ctx, depth, open)
		childDepth = depth + 1
	} else {
		text, err := rule.Execute("", nodeInfo(p.Name, &c.Base, rule))
		if err != nil {
			return err
		}
		line(b, ctx, depth, text)
	}

	for _, e := range nested.Enums {
		enumRule := ctx.Rule(model.KindEnum)
		text, err := enumRule.Execute("", nodeInfo(p.Name, &e.Base, enumRule))
		if err != nil {
			return err
		}
		line(b, ctx, childDepth, text)
	}
	for _, nc := range nested.Classes {
		if err := projectClass(b, p, lookup, nc, ctx, childDepth); err != nil {
			return err
		}
	}

	if rule.HasVariant("branch") {
		closing, err := rule.Execute("branch_close", nodeInfo(p.Name, &c.Base, rule))
		if err != nil {
			return err
		}
		line(b, ctx, depth, closing)
	}
	return nil
}

// hoistedChildren selects the scope members whose identity parent is the
// given class.
func hoistedChildren(s *model.Scope, owner *model.Base) *model.Scope {
	nested := &model.Scope{}
	for _, e := range s.Enums {
		if e.Parent == owner {
			nested.Enums = append(nested.Enums, e)
		}
	}
	for _, c := range s.Classes {
		if c.Parent == owner {
			nested.Classes = append(nested.Classes, c)
		}
	}
	return nested
}
