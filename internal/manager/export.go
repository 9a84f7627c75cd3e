package manager

import (
	"context"

	"github.com/dmnkit/dmnview/internal/codec"
	"github.com/dmnkit/dmnview/internal/event/events"
)

// SaveXML serializes the current document back to DMN 1.3 XML.
//
// With no document loaded it fails with ErrNoDefinitions before any
// saveXML notification fires. Handlers on saveXML.start may substitute
// the tree to serialize; handlers on saveXML.serialized may rewrite the
// produced text. The saveXML.done notification carries the same text
// and error the call returns.
func (m *Manager) SaveXML(ctx context.Context) (string, error) {
	defs := m.Definitions()
	if defs == nil {
		return "", ErrNoDefinitions
	}

	startEv := &events.SaveXMLStart{Definitions: defs}
	m.publishLogged(ctx, startEv)

	xmlText, err := m.serialize(ctx, startEv)

	m.publishLogged(ctx, &events.SaveXMLDone{Error: err, XML: xmlText})
	if err != nil {
		m.logger.Warn("export failed", F("error", err))
		return "", err
	}
	return xmlText, nil
}

func (m *Manager) serialize(ctx context.Context, startEv *events.SaveXMLStart) (string, error) {
	xmlText, err := codec.Serialize(startEv.Definitions)

	serializedEv := &events.SaveXMLSerialized{Error: err, XML: xmlText}
	m.publishLogged(ctx, serializedEv)

	if err != nil {
		return "", err
	}
	return serializedEv.XML, nil
}
