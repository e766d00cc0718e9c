package viewplan

// TemplateCloner produces the renderer's reference to a host element. Resolve
// calls it once per element, in traversal order, after validation succeeded.
// The returned value is stored in ElementPlan.Ref and never inspected.
type TemplateCloner interface {
	CloneElement(elementIndex int, tagName string) any
}

// TemplateClonerFunc adapts a function to TemplateCloner.
type TemplateClonerFunc func(elementIndex int, tagName string) any

func (f TemplateClonerFunc) CloneElement(elementIndex int, tagName string) any {
	return f(elementIndex, tagName)
}
