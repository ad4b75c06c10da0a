package prompts

import (
	"strings"
	"testing"
)

func TestBuildRoadmap(t *testing.T) {
	p, err := Build(PromptRoadmap, Input{Topic: "Go", Days: 3, Hours: 1.5, Experience: "beginner"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !p.Structured() || p.SchemaName != "roadmap" || p.Schema == nil {
		t.Fatalf("prompt=%+v", p)
	}
	for _, want := range []string{"topic: Go", "days: 3", "hours per day: 1.5", "experience: beginner"} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, p.User)
		}
	}
	if p.Fingerprint() == "" {
		t.Fatalf("empty fingerprint")
	}
}

func TestBuildChatIsFreeForm(t *testing.T) {
	p, err := Build(PromptChatQA, Input{Question: "what is a slice?"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Structured() || p.Schema != nil {
		t.Fatalf("chat prompt should not carry a schema: %+v", p)
	}
	if p.User != "what is a slice?" {
		t.Fatalf("user=%q", p.User)
	}
	if !strings.Contains(p.System, "```python") {
		t.Fatalf("system prompt lost fence rules")
	}
}

func TestBuildValidation(t *testing.T) {
	cases := []struct {
		name PromptName
		in   Input
	}{
		{PromptChatQA, Input{}},
		{PromptRoadmap, Input{Topic: "go", Days: 0, Hours: 1}},
		{PromptRoadmap, Input{Topic: "go", Days: 1}},
		{PromptRoadmapRefine, Input{RoadmapJSON: "{}"}},
		{PromptSearchEnhancedChat, Input{Question: "q"}},
		{PromptFlashcards, Input{Topic: "  "}},
	}
	for _, tc := range cases {
		if _, err := Build(tc.name, tc.in); err == nil {
			t.Errorf("%s: expected validation error for %+v", tc.name, tc.in)
		}
	}
	if _, err := Build("nope", Input{}); err == nil {
		t.Fatalf("unknown prompt should fail")
	}
}

func TestEveryStructuredPromptHasSchema(t *testing.T) {
	for _, name := range []PromptName{PromptRoadmap, PromptRoadmapRefine, PromptFlashcards, PromptStudyGuide, PromptMaterials} {
		if _, schema, ok := Schema(name); !ok || schema["type"] != "object" {
			t.Fatalf("%s schema missing", name)
		}
	}
	if _, _, ok := Schema(PromptTaskQA); ok {
		t.Fatalf("task_qa should be free-form")
	}
}

func TestMakeTemplateRejectsBadSpecs(t *testing.T) {
	if _, err := MakeTemplate(Spec{Name: "x", Version: 0}); err == nil {
		t.Fatalf("version 0 should fail")
	}
	if _, err := MakeTemplate(Spec{Name: "x", Version: 1, Schema: RoadmapSchema}); err == nil {
		t.Fatalf("schema without name should fail")
	}
	if _, err := MakeTemplate(Spec{Name: "x", Version: 1, User: "{{.Topic"}); err == nil {
		t.Fatalf("bad template should fail")
	}
}
