package topic

import "testing"

func TestTopicSegments(t *testing.T) {
	tests := []struct {
		topic Topic
		want  int
	}{
		{"", 0},
		{"views", 1},
		{"views.changed", 2},
		{"import.parse.start", 3},
	}

	for _, tt := range tests {
		got := tt.topic.Segments()
		if len(got) != tt.want {
			t.Errorf("Segments(%q) = %v, want %d segments", tt.topic, got, tt.want)
		}
	}
}

func TestTopicParentChildBase(t *testing.T) {
	tp := Topic("import.parse.start")
	if tp.Parent() != "import.parse" {
		t.Errorf("Parent() = %q, want %q", tp.Parent(), "import.parse")
	}
	if tp.Base() != "start" {
		t.Errorf("Base() = %q, want %q", tp.Base(), "start")
	}
	if got := Topic("import").Child("done"); got != "import.done" {
		t.Errorf("Child() = %q, want %q", got, "import.done")
	}
	if got := Topic("").Child("attach"); got != "attach" {
		t.Errorf("empty Child() = %q, want %q", got, "attach")
	}
}

func TestTopicIsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{"", false},
		{"views.changed", true},
		{"import.*", true},
		{"*", true},
		{"import..done", false},
		{"import.*.done", false},
	}

	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.topic, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern Topic
		topic   Topic
		want    bool
	}{
		{"views.changed", "views.changed", true},
		{"views.changed", "views.changed.extra", false},
		{"import.*", "import.done", true},
		{"import.*", "import.parse.start", true},
		{"import.*", "import", false},
		{"import.*", "importer.done", false},
		{"*", "attach", true},
		{"*", "", false},
		{"saveXML.*", "saveXML.serialized", true},
	}

	for _, tt := range tests {
		if got := Match(tt.pattern, tt.topic); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
		}
	}
}
