package viewer

import (
	"github.com/dmnkit/dmnview/internal/model"
	"github.com/dmnkit/dmnview/internal/view"
)

// View type tags for the built-in providers.
const (
	TypeDRD     = "drd"
	TypeTable   = "decisionTable"
	TypeLiteral = "literalExpression"
)

// DefaultProviders returns the built-in provider list in display
// priority order: the requirements graph for the document root, then
// the decision logic viewers for individual decisions.
func DefaultProviders() []*view.Provider {
	return []*view.Provider{
		{
			ID:    TypeDRD,
			Opens: model.TypeDefinitions,
			New:   NewDRD,
		},
		{
			ID: TypeTable,
			Opens: view.OpensFunc(func(el model.Element) bool {
				dec, ok := el.(*model.Decision)
				return ok && dec.Table != nil
			}),
			New: NewTable,
		},
		{
			ID: TypeLiteral,
			Opens: view.OpensFunc(func(el model.Element) bool {
				dec, ok := el.(*model.Decision)
				return ok && dec.Literal != nil
			}),
			New: NewLiteral,
		},
	}
}
