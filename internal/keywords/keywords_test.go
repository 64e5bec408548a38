package keywords

import (
	"reflect"
	"testing"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want []string
	}{
		{"vocabulary order", "I use React and Node.js daily", []string{"React", "Node.js"}},
		{"word boundary", "Reactivate the account", []string{}},
		{"empty", "", []string{}},
		{
			name: "vocabulary order not text order",
			desc: "Kubernetes experience, strong Python, some Golang",
			want: []string{"Golang", "Python", "Kubernetes"},
		},
		{"case insensitive", "we write PYTHON and golang", []string{"Golang", "Python"}},
		{"duplicates once", "React, React, and more React", []string{"React"}},
		{"java is not javascript", "JavaScript only", []string{"JavaScript"}},
		{"symbols escaped", "C++ and C# shops welcome", []string{"C++", "C#"}},
		{"dotted term", "Experience with .NET and Vue.js", []string{"Vue.js", ".NET"}},
		{"sql not inside postgresql", "We run PostgreSQL", []string{"PostgreSQL"}},
		{"multi word hyphenated", "machine-learning and full stack work", []string{"Machine Learning", "Full Stack"}},
		{"html entities decoded", "<p>C&#43;&#43; &amp; Rust</p>", []string{"Rust", "C++"}},
		{"industry terms", "A fintech startup in healthcare", []string{"Fintech", "Healthcare"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.desc)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scan(%q) = %v, want %v", tt.desc, got, tt.want)
			}
		})
	}
}

func TestScan_NeverNil(t *testing.T) {
	if got := Scan("nothing relevant here"); got == nil {
		t.Error("Scan returned nil, want empty slice")
	}
}

func TestVocabulary_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, term := range Vocabulary {
		if seen[term] {
			t.Errorf("duplicate term %q", term)
		}
		seen[term] = true
	}
	if len(matchers) != len(Vocabulary) {
		t.Errorf("compiled %d matchers for %d terms", len(matchers), len(Vocabulary))
	}
}

func TestScan_Deterministic(t *testing.T) {
	in := "Go-to Golang shop running Kafka, Redis and AWS"
	first := Scan(in)
	for i := 0; i < 10; i++ {
		if got := Scan(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Scan = %v, want %v", i, got, first)
		}
	}
}
