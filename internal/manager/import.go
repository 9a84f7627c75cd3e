package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmnkit/dmnview/internal/codec"
	"github.com/dmnkit/dmnview/internal/event/events"
)

// ImportOptions controls an import.
type ImportOptions struct {
	// ParseOnly installs the document and derives views without opening
	// a viewer for the new active view.
	ParseOnly bool
}

// ImportResult is the outcome of an import.
type ImportResult struct {
	// Warnings unions the parse warnings and the warnings of the render
	// that followed the import.
	Warnings []codec.Warning
}

// ImportXML parses the given serialized document, installs it as the
// controller's document, derives the view set and opens the new active
// view. The previous document is replaced wholesale; there is no
// partial install on failure.
//
// The call blocks until the render settles. Exactly one import.done
// notification fires per call, carrying the same error and warnings the
// call returns; its listeners cannot fail the import.
func (m *Manager) ImportXML(ctx context.Context, xmlText string, opts ImportOptions) (ImportResult, error) {
	res, err := m.doImport(ctx, xmlText, opts)

	m.publishLogged(ctx, &events.ImportDone{Error: err, Warnings: res.Warnings})
	if err != nil {
		m.logger.Warn("import failed", F("error", err))
	} else {
		m.logger.Info("document imported", F("warnings", len(res.Warnings)))
	}
	return res, err
}

func (m *Manager) doImport(ctx context.Context, xmlText string, opts ImportOptions) (ImportResult, error) {
	// Handlers may rewrite the raw text before it reaches the parser.
	startEv := &events.ImportParseStart{XML: xmlText}
	m.publishLogged(ctx, startEv)

	parsed, err := codec.Parse(startEv.XML)
	if err != nil {
		err = rewriteParseError(startEv.XML, err)
		m.publishLogged(ctx, &events.ImportParseComplete{Error: err})
		return ImportResult{}, err
	}

	// Handlers may substitute the parsed tree before install.
	completeEv := &events.ImportParseComplete{
		Definitions:  parsed.Definitions,
		ElementsByID: parsed.ElementsByID,
		References:   parsed.References,
		Warnings:     parsed.Warnings,
	}
	m.publishLogged(ctx, completeEv)

	result := ImportResult{Warnings: completeEv.Warnings}

	target, changed := m.install(completeEv.Definitions)
	if changed {
		m.publishLogged(ctx, m.viewsChangedEvent())
	}

	if target == nil {
		// No view to activate. Settle a switch to none so the replaced
		// document's viewer does not stay attached.
		<-m.SwitchView(ctx, nil)
		if len(m.Views()) == 0 {
			return result, ErrNoDisplayableView
		}
		return result, nil
	}
	if opts.ParseOnly {
		return result, nil
	}

	switchRes := <-m.SwitchView(ctx, target)
	result.Warnings = append(result.Warnings, switchRes.Warnings...)
	return result, switchRes.Err
}

// rewriteParseError maps raw codec failures onto the errors the import
// lifecycle reports: an unrecognized root caused by a known legacy
// schema becomes an unsupported-version error, a syntax failure gains
// recovery guidance. The original error is kept in the chain except for
// the legacy-schema case, where the root complaint would mislead.
func rewriteParseError(xmlText string, err error) error {
	if errors.Is(err, codec.ErrUnrecognizedRoot) {
		if version, ok := codec.LegacyVersion(xmlText); ok {
			return &UnsupportedVersionError{Version: version}
		}
		return err
	}

	var syn *codec.SyntaxError
	if errors.As(err, &syn) {
		return fmt.Errorf("%w; check the document for malformed markup", err)
	}
	return err
}
