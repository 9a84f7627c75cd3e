// Package events defines the notification payloads published by the
// document controller, one type per topic. Payloads are published as
// pointers: handlers that rewrite an in-flight value (raw XML, the
// parsed tree) mutate the payload and later handlers observe the
// rewritten value.
package events

import (
	"github.com/dmnkit/dmnview/internal/codec"
	"github.com/dmnkit/dmnview/internal/event/topic"
	"github.com/dmnkit/dmnview/internal/model"
	"github.com/dmnkit/dmnview/internal/view"
)

// Topics published by the controller.
const (
	TopicImportParseStart     = topic.Topic("import.parse.start")
	TopicImportParseComplete  = topic.Topic("import.parse.complete")
	TopicImportDone           = topic.Topic("import.done")
	TopicSaveXMLStart         = topic.Topic("saveXML.start")
	TopicSaveXMLSerialized    = topic.Topic("saveXML.serialized")
	TopicSaveXMLDone          = topic.Topic("saveXML.done")
	TopicImportRenderStart    = topic.Topic("import.render.start")
	TopicImportRenderComplete = topic.Topic("import.render.complete")
	TopicViewsChanged         = topic.Topic("views.changed")
	TopicViewerCreated        = topic.Topic("viewer.created")
	TopicAttach               = topic.Topic("attach")
	TopicDetach               = topic.Topic("detach")
)

// ImportParseStart fires before parsing. Handlers may rewrite XML; the
// rewritten text is what gets parsed.
type ImportParseStart struct {
	XML string
}

// EventTopic implements event.TopicProvider.
func (*ImportParseStart) EventTopic() topic.Topic { return TopicImportParseStart }

// ImportParseComplete fires after parsing, successful or not. On
// success handlers may substitute Definitions; the substituted tree is
// what gets installed.
type ImportParseComplete struct {
	Error        error
	Definitions  *model.Definitions
	ElementsByID map[string]model.Element
	References   []codec.Reference
	Warnings     []codec.Warning
}

// EventTopic implements event.TopicProvider.
func (*ImportParseComplete) EventTopic() topic.Topic { return TopicImportParseComplete }

// ImportDone is the single terminal import notification.
type ImportDone struct {
	Error    error
	Warnings []codec.Warning
}

// EventTopic implements event.TopicProvider.
func (*ImportDone) EventTopic() topic.Topic { return TopicImportDone }

// SaveXMLStart fires before serializing. Handlers may substitute the
// tree to serialize.
type SaveXMLStart struct {
	Definitions *model.Definitions
}

// EventTopic implements event.TopicProvider.
func (*SaveXMLStart) EventTopic() topic.Topic { return TopicSaveXMLStart }

// SaveXMLSerialized fires after serializing. Handlers may rewrite XML.
type SaveXMLSerialized struct {
	Error error
	XML   string
}

// EventTopic implements event.TopicProvider.
func (*SaveXMLSerialized) EventTopic() topic.Topic { return TopicSaveXMLSerialized }

// SaveXMLDone is the terminal export notification.
type SaveXMLDone struct {
	Error error
	XML   string
}

// EventTopic implements event.TopicProvider.
func (*SaveXMLDone) EventTopic() topic.Topic { return TopicSaveXMLDone }

// ImportRenderStart fires when a viewer is about to open an element.
type ImportRenderStart struct {
	View    *view.Descriptor
	Element model.Element
}

// EventTopic implements event.TopicProvider.
func (*ImportRenderStart) EventTopic() topic.Topic { return TopicImportRenderStart }

// ImportRenderComplete fires when a viewer finished opening, with the
// open error if it failed.
type ImportRenderComplete struct {
	View     *view.Descriptor
	Error    error
	Warnings []codec.Warning
}

// EventTopic implements event.TopicProvider.
func (*ImportRenderComplete) EventTopic() topic.Topic { return TopicImportRenderComplete }

// ViewsChanged announces the current view set and active view.
// Notifications are level-triggered and may be redundant; consumers
// needing a delta must diff against their own previous snapshot.
type ViewsChanged struct {
	Views      []view.Descriptor
	ActiveView *view.Descriptor
}

// EventTopic implements event.TopicProvider.
func (*ViewsChanged) EventTopic() topic.Topic { return TopicViewsChanged }

// ViewerCreated fires once per view type, on first lazy creation of
// its viewer.
type ViewerCreated struct {
	Type   string
	Viewer view.Viewer
}

// EventTopic implements event.TopicProvider.
func (*ViewerCreated) EventTopic() topic.Topic { return TopicViewerCreated }

// Attach fires after the controller is attached to a surface.
type Attach struct{}

// EventTopic implements event.TopicProvider.
func (*Attach) EventTopic() topic.Topic { return TopicAttach }

// Detach fires after the controller is detached from its surface.
type Detach struct{}

// EventTopic implements event.TopicProvider.
func (*Detach) EventTopic() topic.Topic { return TopicDetach }
