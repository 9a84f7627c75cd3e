package manager

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmnkit/dmnview/internal/codec"
	"github.com/dmnkit/dmnview/internal/event"
	"github.com/dmnkit/dmnview/internal/event/events"
	"github.com/dmnkit/dmnview/internal/event/topic"
	"github.com/dmnkit/dmnview/internal/model"
	"github.com/dmnkit/dmnview/internal/surface"
	"github.com/dmnkit/dmnview/internal/view"
	"github.com/dmnkit/dmnview/internal/viewer"
)

const twoViewXML = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="https://www.omg.org/spec/DMN/20191111/MODEL/" id="defs1" name="Loan Origination">
  <decision id="d1" name="Approve Loan">
    <informationRequirement>
      <requiredInput href="#in1"/>
    </informationRequirement>
    <decisionTable id="t1" hitPolicy="UNIQUE">
      <input id="i1" label="Score">
        <inputExpression id="ie1" typeRef="number">
          <text>applicant.score</text>
        </inputExpression>
      </input>
      <output id="o1" label="Result" typeRef="string"/>
      <rule id="r1">
        <inputEntry><text>&gt; 600</text></inputEntry>
        <outputEntry><text>"approve"</text></outputEntry>
      </rule>
    </decisionTable>
  </decision>
  <inputData id="in1" name="Score"/>
</definitions>`

const twoTablesXML = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="https://www.omg.org/spec/DMN/20191111/MODEL/" id="defs3" name="Routing">
  <decision id="d1" name="Route">
    <decisionTable id="t1">
      <input id="i1"><inputExpression id="ie1"><text>risk</text></inputExpression></input>
      <output id="o1" name="route"/>
      <rule id="r1"><inputEntry><text>"low"</text></inputEntry><outputEntry><text>"fast"</text></outputEntry></rule>
    </decisionTable>
  </decision>
  <decision id="d2" name="Escalate">
    <decisionTable id="t2">
      <input id="i2"><inputExpression id="ie2"><text>route</text></inputExpression></input>
      <output id="o2" name="queue"/>
      <rule id="r2"><inputEntry><text>"slow"</text></inputEntry><outputEntry><text>"manual"</text></outputEntry></rule>
    </decisionTable>
  </decision>
</definitions>`

const literalXML = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="https://www.omg.org/spec/DMN/20191111/MODEL/" id="defs2" name="Season">
  <decision id="season" name="Pick Season">
    <literalExpression id="lit1">
      <text>if month &gt; 5 then "summer" else "winter"</text>
    </literalExpression>
  </decision>
</definitions>`

const legacyXML = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://www.omg.org/spec/DMN/20151101/dmn.xsd" id="old" name="Old">
  <decision id="d1" name="Old Decision"/>
</definitions>`

// recorder collects the topics of every notification published on a bus.
type recorder struct {
	mu     sync.Mutex
	topics []topic.Topic
}

func record(t *testing.T, b event.Bus) *recorder {
	t.Helper()
	r := &recorder{}
	_, err := b.SubscribeFunc("*", func(_ context.Context, ev any) error {
		tp := ev.(event.TopicProvider)
		r.mu.Lock()
		r.topics = append(r.topics, tp.EventTopic())
		r.mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe recorder: %v", err)
	}
	return r
}

func (r *recorder) all() []topic.Topic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]topic.Topic(nil), r.topics...)
}

func (r *recorder) count(want topic.Topic) int {
	n := 0
	for _, tp := range r.all() {
		if tp == want {
			n++
		}
	}
	return n
}

func (r *recorder) has(want topic.Topic) bool { return r.count(want) > 0 }

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m, err := NewDefault(opts...)
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	t.Cleanup(m.Destroy)
	return m
}

func TestImportXML_DerivesViewsInOrder(t *testing.T) {
	m := newTestManager(t)

	res, err := m.ImportXML(context.Background(), twoViewXML, ImportOptions{})
	if err != nil {
		t.Fatalf("ImportXML failed: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	views := m.Views()
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if views[0].Type != viewer.TypeDRD || views[0].ID != "defs1" {
		t.Errorf("first view = %s/%s, want drd/defs1", views[0].Type, views[0].ID)
	}
	if views[1].Type != viewer.TypeTable || views[1].ID != "d1" {
		t.Errorf("second view = %s/%s, want decisionTable/d1", views[1].Type, views[1].ID)
	}

	active := m.ActiveView()
	if active == nil || !view.Same(active, &views[0]) {
		t.Errorf("active view = %+v, want first view", active)
	}
}

func TestImportXML_NotificationOrder(t *testing.T) {
	m := newTestManager(t)
	rec := record(t, m.Bus())

	if _, err := m.ImportXML(context.Background(), twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("ImportXML failed: %v", err)
	}

	got := rec.all()
	want := []topic.Topic{
		events.TopicImportParseStart,
		events.TopicImportParseComplete,
		events.TopicViewsChanged,
		events.TopicViewerCreated,
		events.TopicViewsChanged,
		events.TopicImportRenderStart,
		events.TopicImportRenderComplete,
		events.TopicViewsChanged,
		events.TopicImportDone,
	}
	if len(got) != len(want) {
		t.Fatalf("notification topics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notification %d = %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestImportXML_LegacyVersionError(t *testing.T) {
	m := newTestManager(t)
	rec := record(t, m.Bus())

	_, err := m.ImportXML(context.Background(), legacyXML, ImportOptions{})
	if err == nil {
		t.Fatal("expected error for legacy document")
	}

	var uve *UnsupportedVersionError
	if !errors.As(err, &uve) {
		t.Fatalf("error = %T %v, want *UnsupportedVersionError", err, err)
	}
	if uve.Version != "1.1" {
		t.Errorf("version = %q, want 1.1", uve.Version)
	}
	if !strings.Contains(err.Error(), "1.1") {
		t.Errorf("error message %q should name the legacy version", err)
	}

	// The failure is still terminal: exactly one import.done fires, no
	// render activity.
	if n := rec.count(events.TopicImportDone); n != 1 {
		t.Errorf("import.done fired %d times, want 1", n)
	}
	if rec.has(events.TopicImportRenderStart) {
		t.Error("render should not start on a failed parse")
	}
	if m.Definitions() != nil {
		t.Error("failed import must not install a document")
	}
}

func TestImportXML_MalformedXML(t *testing.T) {
	m := newTestManager(t)

	_, err := m.ImportXML(context.Background(), "<definitions><decision</definitions>", ImportOptions{})
	if err == nil {
		t.Fatal("expected error for malformed XML")
	}
	if !strings.Contains(err.Error(), "unparsable content near") {
		t.Errorf("error %q should carry the unparsable-content marker", err)
	}

	var syn *codec.SyntaxError
	if !errors.As(err, &syn) {
		t.Errorf("error chain should retain *codec.SyntaxError, got %T", err)
	}
}

func TestImportXML_NoDisplayableContent(t *testing.T) {
	// A registry whose only provider opens decisions with tables: a
	// document holding none derives an empty view set.
	registry, err := view.NewRegistry(&view.Provider{
		ID: "table-only",
		Opens: view.OpensFunc(func(el model.Element) bool {
			dec, ok := el.(*model.Decision)
			return ok && dec.Table != nil
		}),
		New: func() view.Viewer { return &fakeViewer{} },
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	m := New(registry)
	defer m.Destroy()

	_, err = m.ImportXML(context.Background(), literalXML, ImportOptions{})
	if !errors.Is(err, ErrNoDisplayableView) {
		t.Fatalf("error = %v, want ErrNoDisplayableView", err)
	}
	if m.Definitions() == nil {
		t.Error("document should still install; only the view set is empty")
	}
	if m.ActiveView() != nil {
		t.Errorf("active view = %+v, want nil", m.ActiveView())
	}
}

func TestSaveXML_RequiresImport(t *testing.T) {
	m := newTestManager(t)
	rec := record(t, m.Bus())

	_, err := m.SaveXML(context.Background())
	if !errors.Is(err, ErrNoDefinitions) {
		t.Fatalf("error = %v, want ErrNoDefinitions", err)
	}

	for _, tp := range rec.all() {
		if strings.HasPrefix(tp.String(), "saveXML.") {
			t.Fatalf("no saveXML notification may fire before a document is loaded, got %s", tp)
		}
	}
}

func TestSaveXML_RoundTripKeepsViewSet(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.ImportXML(ctx, twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	before := m.Views()

	out, err := m.SaveXML(ctx)
	if err != nil {
		t.Fatalf("SaveXML failed: %v", err)
	}
	if _, err := m.ImportXML(ctx, out, ImportOptions{}); err != nil {
		t.Fatalf("re-import of exported XML failed: %v", err)
	}

	after := m.Views()
	if len(after) != len(before) {
		t.Fatalf("view count changed across round-trip: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Type != after[i].Type || before[i].Name != after[i].Name {
			t.Errorf("view %d changed across round-trip: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestSwitchView_SameViewReusesViewer(t *testing.T) {
	m := newTestManager(t)
	rec := record(t, m.Bus())
	ctx := context.Background()

	if _, err := m.ImportXML(ctx, twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("ImportXML failed: %v", err)
	}

	views := m.Views()
	table := &views[1]

	first, err := m.OpenView(ctx, table)
	if err != nil {
		t.Fatalf("first switch failed: %v", err)
	}
	second, err := m.OpenView(ctx, table)
	if err != nil {
		t.Fatalf("second switch failed: %v", err)
	}
	if !view.Same(first.View, second.View) {
		t.Error("both switches should settle on the same view")
	}

	// One drd viewer from the import, one table viewer from the first
	// switch; the repeat switch must not create a third.
	if n := rec.count(events.TopicViewerCreated); n != 2 {
		t.Errorf("viewer.created fired %d times, want 2", n)
	}
}

func TestSwitchView_SameTypeReusesCachedViewer(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	var created []string
	_, err := m.Bus().SubscribeFunc(events.TopicViewerCreated, func(_ context.Context, ev any) error {
		created = append(created, ev.(*events.ViewerCreated).Type)
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if _, err := m.ImportXML(ctx, twoTablesXML, ImportOptions{}); err != nil {
		t.Fatalf("ImportXML failed: %v", err)
	}

	views := m.Views()
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	if _, err := m.OpenView(ctx, &views[1]); err != nil {
		t.Fatalf("switch to d1 failed: %v", err)
	}
	if _, err := m.OpenView(ctx, &views[2]); err != nil {
		t.Fatalf("switch to d2 failed: %v", err)
	}

	// One drd viewer from the import, one table viewer shared by both
	// table views.
	tables := 0
	for _, typ := range created {
		if typ == viewer.TypeTable {
			tables++
		}
	}
	if tables != 1 {
		t.Errorf("viewer.created fired %d times for the table type, want 1 (created: %v)", tables, created)
	}
}

func TestImportXML_StaleActiveFallsBack(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.ImportXML(ctx, twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	views := m.Views()
	if _, err := m.OpenView(ctx, &views[1]); err != nil {
		t.Fatalf("switch to table failed: %v", err)
	}

	// The second document has no element d1; the active view must fall
	// back to the initial-view heuristic.
	if _, err := m.ImportXML(ctx, literalXML, ImportOptions{}); err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	active := m.ActiveView()
	if active == nil {
		t.Fatal("expected an active view after re-import")
	}
	if active.ID != "defs2" || active.Type != viewer.TypeDRD {
		t.Errorf("active view = %s/%s, want drd/defs2", active.Type, active.ID)
	}
}

func TestImportXML_ActivePreservedByID(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.ImportXML(ctx, twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	views := m.Views()
	if _, err := m.OpenView(ctx, &views[1]); err != nil {
		t.Fatalf("switch to table failed: %v", err)
	}

	renamed := strings.Replace(twoViewXML, `name="Approve Loan"`, `name="Approve Loan v2"`, 1)
	rec := record(t, m.Bus())
	if _, err := m.ImportXML(ctx, renamed, ImportOptions{}); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}

	active := m.ActiveView()
	if active == nil || active.ID != "d1" {
		t.Fatalf("active view = %+v, want element d1", active)
	}
	if active.Name != "Approve Loan v2" {
		t.Errorf("active view name = %q, want renamed value", active.Name)
	}
	// The rename alone counts as a views change.
	if !rec.has(events.TopicViewsChanged) {
		t.Error("rename should announce views.changed")
	}
}

// fakeViewer is a minimal viewer for tests; openFn, when set, replaces
// the default successful open.
type fakeViewer struct {
	mu       sync.Mutex
	openFn   func(ctx context.Context, el model.Element) ([]codec.Warning, error)
	opens    int
	detaches int
}

func (f *fakeViewer) Open(ctx context.Context, el model.Element) ([]codec.Warning, error) {
	f.mu.Lock()
	f.opens++
	fn := f.openFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, el)
	}
	return nil, nil
}

func (f *fakeViewer) AttachTo(surface.Surface) {}

func (f *fakeViewer) Detach() {
	f.mu.Lock()
	f.detaches++
	f.mu.Unlock()
}

func (f *fakeViewer) detachCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detaches
}

func TestImportXML_ReimportEmptyViewSetClearsActive(t *testing.T) {
	fv := &fakeViewer{}
	registry, err := view.NewRegistry(&view.Provider{
		ID: "table-only",
		Opens: view.OpensFunc(func(el model.Element) bool {
			dec, ok := el.(*model.Decision)
			return ok && dec.Table != nil
		}),
		New: func() view.Viewer { return fv },
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	m := New(registry)
	defer m.Destroy()
	ctx := context.Background()

	if _, err := m.ImportXML(ctx, twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if active := m.ActiveView(); active == nil || active.ID != "d1" {
		t.Fatalf("active view = %+v, want d1", active)
	}

	// The replacement document has no table decision: the derived view
	// set is empty, so nothing may stay active or attached.
	if _, err := m.ImportXML(ctx, literalXML, ImportOptions{}); !errors.Is(err, ErrNoDisplayableView) {
		t.Fatalf("re-import error = %v, want ErrNoDisplayableView", err)
	}
	if n := len(m.Views()); n != 0 {
		t.Fatalf("got %d views, want empty set", n)
	}
	if active := m.ActiveView(); active != nil {
		t.Errorf("active view = %+v, want none after empty derivation", active)
	}
	if fv.detachCount() == 0 {
		t.Error("viewer of the replaced document should be detached")
	}
}

func TestImportXML_ParseOnlyReimportRefreshesActive(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.ImportXML(ctx, twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	views := m.Views()
	if _, err := m.OpenView(ctx, &views[1]); err != nil {
		t.Fatalf("switch to table failed: %v", err)
	}

	// The replacement has no element d1; even without a follow-up switch
	// the active view must belong to the new view set.
	if _, err := m.ImportXML(ctx, literalXML, ImportOptions{ParseOnly: true}); err != nil {
		t.Fatalf("parse-only re-import failed: %v", err)
	}

	active := m.ActiveView()
	if active == nil {
		t.Fatal("expected an active view after parse-only re-import")
	}
	current := m.Views()
	found := false
	for i := range current {
		if view.Same(&current[i], active) {
			found = true
		}
	}
	if !found {
		t.Errorf("active view %s/%s is not in the current view set", active.Type, active.ID)
	}
	if active.ID != "defs2" || active.Type != viewer.TypeDRD {
		t.Errorf("active view = %s/%s, want drd/defs2", active.Type, active.ID)
	}
}

func TestSwitchView_ToNoViewCoalescesNotification(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.ImportXML(ctx, twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("ImportXML failed: %v", err)
	}

	rec := record(t, m.Bus())
	if _, err := m.OpenView(ctx, nil); err != nil {
		t.Fatalf("switch to no view failed: %v", err)
	}

	if n := rec.count(events.TopicViewsChanged); n != 1 {
		t.Errorf("views.changed fired %d times for one switch to no view, want 1", n)
	}
	if m.ActiveView() != nil {
		t.Errorf("active view = %+v, want nil", m.ActiveView())
	}
}

func TestActiveView_EagerDuringPendingSwitch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	slow := &fakeViewer{
		openFn: func(ctx context.Context, _ model.Element) ([]codec.Warning, error) {
			close(started)
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return nil, nil
		},
	}
	registry, err := view.NewRegistry(&view.Provider{
		ID:    "slow",
		Opens: model.TypeDefinitions,
		New:   func() view.Viewer { return slow },
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	m := New(registry)
	defer m.Destroy()

	done := make(chan error, 1)
	go func() {
		_, err := m.ImportXML(context.Background(), twoViewXML, ImportOptions{})
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("viewer open never started")
	}

	// The switch has not settled, yet the active view already reports
	// the switch target.
	active := m.ActiveView()
	if active == nil || active.ID != "defs1" {
		t.Errorf("active view during pending switch = %+v, want defs1", active)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("import failed: %v", err)
	}
}

func TestSwitchView_ComposesOnOutstandingSwitch(t *testing.T) {
	var mu sync.Mutex
	var order []string
	release := make(chan struct{})

	mkViewer := func(name string, block bool) *fakeViewer {
		return &fakeViewer{
			openFn: func(ctx context.Context, _ model.Element) ([]codec.Warning, error) {
				if block {
					<-release
				}
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				return nil, nil
			},
		}
	}

	registry, err := view.NewRegistry(
		&view.Provider{ID: "root", Opens: model.TypeDefinitions, New: func() view.Viewer { return mkViewer("root", true) }},
		&view.Provider{ID: "decision", Opens: model.TypeDecision, New: func() view.Viewer { return mkViewer("decision", false) }},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	m := New(registry)
	defer m.Destroy()

	ctx := context.Background()
	if _, err := m.ImportXML(ctx, literalXML, ImportOptions{ParseOnly: true}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	views := m.Views()
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	firstCh := m.SwitchView(ctx, &views[0])
	secondCh := m.SwitchView(ctx, &views[1])

	// The second switch must wait for the first to settle.
	select {
	case <-secondCh:
		t.Fatal("second switch settled before the first was released")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if res := <-firstCh; res.Err != nil {
		t.Fatalf("first switch failed: %v", res.Err)
	}
	if res := <-secondCh; res.Err != nil {
		t.Fatalf("second switch failed: %v", res.Err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "root" || order[1] != "decision" {
		t.Errorf("open order = %v, want [root decision]", order)
	}
}

func TestSwitchView_UnknownProviderPanics(t *testing.T) {
	m := newTestManager(t)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unknown view type")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, view.ErrNoProvider) {
			t.Fatalf("panic value = %v, want view.ErrNoProvider", r)
		}
	}()
	m.SwitchView(context.Background(), &view.Descriptor{ID: "x", Type: "no-such-type"})
}

func TestSwitchView_OpenFailureWrapped(t *testing.T) {
	boom := errors.New("render exploded")
	registry, err := view.NewRegistry(&view.Provider{
		ID:    "root",
		Opens: model.TypeDefinitions,
		New: func() view.Viewer {
			return &fakeViewer{openFn: func(context.Context, model.Element) ([]codec.Warning, error) {
				return []codec.Warning{{Message: "partial render"}}, boom
			}}
		},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	m := New(registry)
	defer m.Destroy()

	rec := record(t, m.Bus())
	_, impErr := m.ImportXML(context.Background(), literalXML, ImportOptions{})
	if impErr == nil {
		t.Fatal("expected import to report the open failure")
	}

	var oe *OpenError
	if !errors.As(impErr, &oe) {
		t.Fatalf("error = %T %v, want *OpenError", impErr, impErr)
	}
	if !errors.Is(impErr, boom) {
		t.Error("open error should unwrap to the viewer's error")
	}
	if len(oe.Warnings) != 1 {
		t.Errorf("warnings = %v, want the partial-render warning", oe.Warnings)
	}

	// Even a failed render settles: render.complete and import.done fire.
	if !rec.has(events.TopicImportRenderComplete) {
		t.Error("import.render.complete should fire on open failure")
	}
	if n := rec.count(events.TopicImportDone); n != 1 {
		t.Errorf("import.done fired %d times, want 1", n)
	}
}

func TestImportXML_ParseStartRewrite(t *testing.T) {
	m := newTestManager(t)

	// A listener rewrites the raw text before parsing; the parser must
	// see the rewritten document.
	_, err := m.Bus().SubscribeFunc(events.TopicImportParseStart, func(_ context.Context, ev any) error {
		start := ev.(*events.ImportParseStart)
		start.XML = strings.Replace(start.XML, `name="Loan Origination"`, `name="Rewritten"`, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if _, err := m.ImportXML(context.Background(), twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("ImportXML failed: %v", err)
	}
	if got := m.Definitions().Name; got != "Rewritten" {
		t.Errorf("definitions name = %q, want rewrite applied before parse", got)
	}
}

func TestSaveXML_SerializedRewrite(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.ImportXML(ctx, twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("ImportXML failed: %v", err)
	}

	const marker = "<!-- postprocessed -->"
	_, err := m.Bus().SubscribeFunc(events.TopicSaveXMLSerialized, func(_ context.Context, ev any) error {
		ser := ev.(*events.SaveXMLSerialized)
		ser.XML += marker
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	out, err := m.SaveXML(ctx)
	if err != nil {
		t.Fatalf("SaveXML failed: %v", err)
	}
	if !strings.HasSuffix(out, marker) {
		t.Error("serialized rewrite should be reflected in the returned XML")
	}
}

func TestImportXML_DoneListenerCannotFailImport(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Bus().SubscribeFunc(events.TopicImportDone, func(context.Context, any) error {
		panic("listener bug")
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if _, err := m.ImportXML(context.Background(), twoViewXML, ImportOptions{}); err != nil {
		t.Fatalf("a panicking import.done listener must not fail the import: %v", err)
	}
}
