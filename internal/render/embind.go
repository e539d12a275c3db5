package render

import (
	"strings"

	"github.com/wukongiii/embindgen/internal/diag"
	"github.com/wukongiii/embindgen/internal/model"
	"github.com/wukongiii/embindgen/internal/style"
)

// renderEmbind produces the native registration document: omitted-construct
// comments and STL container registrations first, in registry order, then
// the top-level declarations, then namespaces recursively with members
// before nested namespaces.
func renderEmbind(p *model.Project, rep *diag.Report, ctx *style.Context) (string, error) {
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

	if rep != nil && len(rep.Omissions) > 0 {
		for _, o := range rep.Omissions {
			line(&b, ctx, 1, "// Ignored due to: "+o.Reason+": "+o.FullName)
		}
		b.WriteByte('\n')
	}

	if len(p.Containers) > 0 {
		rule := ctx.Rule(model.KindContainer)
		for _, c := range p.Containers {
			info := nodeInfo(p.Name, &c.Base, rule)
			if info.TaggingType == "" {
				info.TaggingType = c.Container
			}
			info.TemplateArgs = strings.Join(c.Args, ", ")
			info.DisplayName = c.DisplayName()
			text, err := rule.Execute("", info)
			if err != nil {
				return "", err
			}
			line(&b, ctx, 1, text)
		}
		b.WriteByte('\n')
	}

	if err := embindScope(&b, p, &p.Scope, ctx, 1); err != nil {
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

func embindScope(b *strings.Builder, p *model.Project, s *model.Scope, ctx *style.Context, depth int) error {
	for _, c := range s.Constants {
		text, err := ctx.Rule(model.KindConstant).Execute("", nodeInfo(p.Name, &c.Base, ctx.Rule(model.KindConstant)))
		if err != nil {
			return err
		}
		line(b, ctx, depth, text)
	}

	for _, f := range s.Functions {
		rule := ctx.Rule(f.Kind)
		text, err := rule.Execute(overloadVariant(f), callableInfo(p.Name, f, rule))
		if err != nil {
			return err
		}
		line(b, ctx, depth, text)
	}

	for _, e := range s.Enums {
		if err := embindEnum(b, p, e, ctx, depth); err != nil {
			return err
		}
	}

	for _, c := range s.Classes {
		if err := embindClass(b, p, c, ctx, depth); err != nil {
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
		if err := embindScope(b, p, &ns.Scope, ctx, depth+1); err != nil {
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

func embindEnum(b *strings.Builder, p *model.Project, e *model.Enum, ctx *style.Context, depth int) error {
	rule := ctx.Rule(model.KindEnum)
	text, err := rule.Execute("", nodeInfo(p.Name, &e.Base, rule))
	if err != nil {
		return err
	}
	line(b, ctx, depth, text)

	valueRule := ctx.Rule(model.KindEnumValue)
	for _, v := range e.Values {
		info := nodeInfo(p.Name, &v.Base, valueRule)
		info.TypeName = e.FullName
		info.Literal = v.Literal
		text, err := valueRule.Execute("", info)
		if err != nil {
			return err
		}
		line(b, ctx, depth+1, text)
	}
	line(b, ctx, depth, ";")
	return nil
}

func embindClass(b *strings.Builder, p *model.Project, c *model.Class, ctx *style.Context, depth int) error {
	rule := ctx.Rule(c.Kind)
	info := nodeInfo(p.Name, &c.Base, rule)
	info.BaseClassName = c.BaseClass
	text, err := rule.Execute(derivedVariant(c), info)
	if err != nil {
		return err
	}
	line(b, ctx, depth, text)

	for _, prop := range c.StaticProperties {
		propRule := ctx.Rule(model.KindStaticProperty)
		text, err := propRule.Execute("", nodeInfo(p.Name, &prop.Base, propRule))
		if err != nil {
			return err
		}
		line(b, ctx, depth+1, text)
	}

	for _, ctor := range c.Constructors {
		ctorRule := ctx.Rule(model.KindConstructor)
		text, err := ctorRule.Execute("", callableInfo(p.Name, ctor, ctorRule))
		if err != nil {
			return err
		}
		line(b, ctx, depth+1, text)
	}

	for _, prop := range c.Properties {
		propRule := ctx.Rule(model.KindProperty)
		info := nodeInfo(p.Name, &prop.Base, propRule)
		info.ReturnValuePolicy = "return_value_policy::reference()"
		text, err := propRule.Execute("", info)
		if err != nil {
			return err
		}
		line(b, ctx, depth+1, text)
	}

	for _, lists := range [][]*model.Callable{c.Methods, c.StaticMethods} {
		for _, m := range lists {
			methodRule := ctx.Rule(m.Kind)
			text, err := methodRule.Execute(overloadVariant(m), callableInfo(p.Name, m, methodRule))
			if err != nil {
				return err
			}
			line(b, ctx, depth+1, text)
		}
	}

	line(b, ctx, depth, ";")
	return nil
}
