// Package keywords matches posting text against a fixed technology and
// industry vocabulary.
package keywords

import (
	"regexp"
	"strings"

	"github.com/amishk599/jobfacts/internal/normalize"
)

// Vocabulary is the ordered set of recognised terms. Scan reports matches in
// this order. Treat it as read-only; the matchers are compiled from it once.
var Vocabulary = []string{
	// languages
	"Golang", "Python", "Java", "JavaScript", "TypeScript", "Ruby", "Rust", "C++", "C#",
	"Kotlin", "Swift", "Scala", "PHP", "Elixir", "Haskell", "Objective-C", "Dart", "Perl",
	"SQL", "Solidity",

	// frameworks, platforms and data stores
	"React", "React Native", "Angular", "Vue.js", "Svelte", "Next.js", "Node.js", "Express.js",
	"Django", "Flask", "FastAPI", "Ruby on Rails", "Spring Boot", ".NET", "Laravel", "Flutter",
	"jQuery", "Redux", "Tailwind", "GraphQL", "gRPC", "Kafka", "Spark", "Hadoop", "Airflow",
	"dbt", "Snowflake", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch",
	"TensorFlow", "PyTorch", "Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins",
	"AWS", "GCP", "Azure",

	// practices
	"Microservices", "Distributed Systems", "RESTful", "CI/CD", "DevOps", "SRE", "Observability",
	"Infrastructure as Code", "Serverless", "TDD", "Agile", "Scrum", "Machine Learning",
	"Deep Learning", "NLP", "Computer Vision", "LLM", "Generative AI", "MLOps",
	"Data Engineering", "Data Science", "Full Stack", "Frontend", "Backend", "Embedded",

	// industries
	"Fintech", "Healthtech", "Healthcare", "Biotech", "Edtech", "E-commerce", "SaaS",
	"Cybersecurity", "Blockchain", "Insurance", "Banking", "Gaming", "Logistics",
	"Real Estate", "Automotive", "Aerospace", "Climate", "Advertising", "Retail",
}

var matchers = compile(Vocabulary)

// boundary is what a term must touch on each side, unless it sits at the
// start or end of the text.
const boundary = `[^A-Za-z0-9_]`

func compile(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		// Multi-word terms also match hyphenated or oddly spaced forms.
		body := strings.ReplaceAll(regexp.QuoteMeta(term), " ", `[\s-]+`)
		out[i] = regexp.MustCompile(`(?i)(?:^|` + boundary + `)` + body + `(?:$|` + boundary + `)`)
	}
	return out
}

// Scan returns every vocabulary term present in description, in vocabulary
// order and without duplicates. The result is never nil.
func Scan(description string) []string {
	found := []string{}
	text := normalize.PlainText(description)
	if text == "" {
		return found
	}
	for i, re := range matchers {
		if re.MatchString(text) {
			found = append(found, Vocabulary[i])
		}
	}
	return found
}
