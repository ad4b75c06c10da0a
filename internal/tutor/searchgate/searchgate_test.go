package searchgate

import "testing"

func TestShouldSearch(t *testing.T) {
	cases := []struct {
		msg   string
		topic string
		want  bool
		vocab Vocabulary
	}{
		{"What are the latest frameworks?", "python", true, VocabularyRecency},
		{"hello", "python", false, VocabularyNone},
		{"Any good TUTORIAL for closures?", "js", true, VocabularyHowTo},
		{"how to write a loop", "go", true, VocabularyHowTo},
		{"which libraries should I use", "rust", true, VocabularyResource},
		{"what changed in 2025", "java", true, VocabularyRecency},
		{"explain pointers", "c", false, VocabularyNone},
		{"", "", false, VocabularyNone},
	}
	for _, tc := range cases {
		if got := ShouldSearch(tc.msg, tc.topic); got != tc.want {
			t.Errorf("ShouldSearch(%q)=%v want %v", tc.msg, got, tc.want)
		}
		if got := Decide(tc.msg, tc.topic); got != tc.vocab {
			t.Errorf("Decide(%q)=%q want %q", tc.msg, got, tc.vocab)
		}
	}
}

func TestTopicDoesNotAffectDecision(t *testing.T) {
	for _, topic := range []string{"", "latest tools", "how to guide"} {
		if ShouldSearch("explain recursion", topic) {
			t.Fatalf("topic %q changed the decision", topic)
		}
	}
}
