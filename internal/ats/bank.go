package ats

import (
	"fmt"
	"strings"
)

// Canonical section names in the order a reader expects them.
const (
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
)

// Interview answer STAR components.
const (
	StarSituation = "situation"
	StarTask      = "task"
	StarAction    = "action"
	StarResult    = "result"
)

var canonicalSections = [...]string{SectionSummary, SectionExperience, SectionEducation, SectionSkills}

var starComponents = [...]string{StarSituation, StarTask, StarAction, StarResult}

// CanonicalSections returns the canonical resume sections in order.
func CanonicalSections() []string {
	return canonicalSections[:]
}

// KeywordBank holds all vocabulary the engine relies on. Banks are plain
// data: they can be loaded from a file and injected with WithBank.
type KeywordBank struct {
	Technical   []string            `json:"technical" mapstructure:"technical"`
	SoftSkills  []string            `json:"softSkills" mapstructure:"softSkills"`
	Generic     []string            `json:"generic" mapstructure:"generic"`
	ActionVerbs []string            `json:"actionVerbs" mapstructure:"actionVerbs"`
	StopWords   []string            `json:"stopWords" mapstructure:"stopWords"`
	Sections    map[string][]string `json:"sections" mapstructure:"sections"`
	StarCues    map[string][]string `json:"starCues" mapstructure:"starCues"`
	FillerWords []string            `json:"fillerWords" mapstructure:"fillerWords"`

	// Cover letter vocabulary. TemplatePhrases mark letters written from a
	// generic template.
	IntentCues      []string `json:"intentCues" mapstructure:"intentCues"`
	ClosingCues     []string `json:"closingCues" mapstructure:"closingCues"`
	TemplatePhrases []string `json:"templatePhrases" mapstructure:"templatePhrases"`
}

// Validate reports banks that cannot drive the engine.
func (b KeywordBank) Validate() error {
	if len(b.Generic) == 0 {
		return fmt.Errorf("keyword bank: generic list must not be empty")
	}
	if len(b.ActionVerbs) == 0 {
		return fmt.Errorf("keyword bank: action verb list must not be empty")
	}
	for _, section := range canonicalSections {
		if len(b.Sections[section]) == 0 {
			return fmt.Errorf("keyword bank: section %q has no synonyms", section)
		}
	}
	for _, component := range starComponents {
		if len(b.StarCues[component]) == 0 {
			return fmt.Errorf("keyword bank: STAR component %q has no cues", component)
		}
	}
	for _, list := range [][]string{b.Technical, b.SoftSkills, b.Generic} {
		for _, entry := range list {
			if strings.TrimSpace(entry) == "" {
				return fmt.Errorf("keyword bank: empty keyword entry")
			}
		}
	}
	return nil
}

// DefaultBank returns a fresh copy of the built-in vocabulary.
func DefaultBank() KeywordBank {
	return KeywordBank{
		Technical: []string{
			"golang", "python", "java", "javascript", "typescript", "c++", "c#", "ruby", "rust",
			"kotlin", "swift", "scala", "php", "sql", "nosql", "html", "css", "sass",
			"react", "angular", "vue.js", "node.js", "next.js", "express.js", "django", "flask",
			"spring boot", ".net", "asp.net", "graphql", "rest api", "restful", "grpc",
			"microservices", "docker", "kubernetes", "terraform", "ansible", "aws", "azure",
			"gcp", "google cloud", "ci/cd", "jenkins", "github actions", "git", "linux",
			"postgresql", "mysql", "mongodb", "redis", "kafka", "rabbitmq", "elasticsearch",
			"machine learning", "deep learning", "data analysis", "data science", "tensorflow",
			"pytorch", "pandas", "spark", "hadoop", "tableau", "power bi", "microsoft excel",
			"webpack", "jest", "selenium", "unit testing", "test automation", "agile", "scrum",
			"kanban", "jira", "devops", "sre", "observability", "prometheus", "grafana",
			"distributed systems", "system design", "cloud computing", "serverless",
			"api design", "oauth", "security", "networking", "tcp/ip", "ui/ux", "figma", "seo",
			"salesforce", "etl", "data pipelines", "big data", "nlp", "computer vision", "llm",
			"ios", "android", "react native", "flutter", "mobile development", "frontend",
			"backend", "full stack", "software development", "software engineering",
			"object-oriented programming", "performance optimization", "scalability",
		},
		SoftSkills: []string{
			"leadership", "team leadership", "communication", "written communication",
			"collaboration", "teamwork", "problem solving", "critical thinking",
			"project management", "product management", "people management",
			"stakeholder management", "time management", "management", "mentoring", "coaching",
			"cross-functional", "attention to detail", "adaptability", "customer service",
			"negotiation", "presentation", "public speaking", "strategic planning",
			"decision making", "analytical skills", "ownership", "conflict resolution",
			"budgeting", "organization",
		},
		Generic: []string{
			"communication", "leadership", "teamwork", "collaboration", "problem solving",
			"project management", "time management", "analytical", "critical thinking",
			"attention to detail", "customer service", "organization", "adaptability",
			"initiative", "mentoring", "stakeholder", "strategy", "planning", "budget",
			"reporting", "data analysis", "research", "presentation", "negotiation", "training",
			"process improvement", "quality assurance", "documentation", "agile", "scrum",
			"software development", "programming", "python", "java", "javascript", "sql",
			"cloud", "aws", "microsoft excel", "git", "testing", "debugging", "automation",
			"api", "database", "linux", "security", "design", "optimization", "metrics",
		},
		ActionVerbs: []string{
			"led", "built", "optimized", "achieved", "developed", "designed", "implemented",
			"managed", "created", "launched", "improved", "increased", "reduced", "delivered",
			"drove", "spearheaded", "architected", "automated", "streamlined", "established",
			"coordinated", "mentored", "negotiated", "analyzed", "resolved", "deployed",
			"migrated", "engineered", "founded", "generated", "initiated", "orchestrated",
			"owned", "scaled", "shipped", "transformed", "accelerated", "collaborated",
			"directed", "expanded", "facilitated", "headed", "maintained", "modernized",
			"oversaw", "pioneered", "redesigned", "saved", "supervised", "trained", "won",
			"wrote", "refactored", "integrated", "boosted", "cut", "executed", "produced",
			"secured", "grew", "authored", "published", "taught",
		},
		StopWords: []string{
			"a", "an", "the", "and", "or", "but", "nor", "for", "with", "without", "to", "of",
			"in", "on", "at", "by", "from", "as", "is", "are", "be", "been", "being", "was",
			"were", "will", "would", "should", "can", "could", "may", "might", "must", "shall",
			"this", "that", "these", "those", "it", "its", "we", "our", "ours", "you", "your",
			"they", "their", "them", "us", "who", "whom", "what", "which", "when", "where",
			"why", "how", "all", "any", "both", "each", "few", "more", "most", "other", "some",
			"such", "no", "not", "only", "own", "same", "so", "than", "too", "very", "just",
			"also", "about", "into", "over", "under", "up", "down", "out", "if", "then",
			"there", "here", "has", "have", "had", "do", "does", "did", "i", "me", "my", "he",
			"she", "his", "her", "while", "within", "across", "per", "via", "etc", "including",
			"ability", "able", "experience", "years", "year", "work", "working", "role", "team",
			"teams", "strong", "excellent", "preferred", "required", "requirements",
			"responsibilities", "skills", "knowledge", "plus", "using", "use", "new", "well",
			"good", "great", "job", "position", "candidate", "candidates", "company", "join",
			"looking", "help", "ensure", "based", "related", "relevant", "equivalent", "degree",
			"minimum", "least", "tell", "describe", "give", "example", "share", "walk",
			"explain", "time", "like", "need", "needs", "one", "two", "three", "way",
		},
		Sections: map[string][]string{
			SectionSummary: {
				"summary", "professional summary", "profile", "professional profile", "objective",
				"career objective", "about me", "summary of qualifications", "overview",
			},
			SectionExperience: {
				"experience", "work experience", "professional experience", "employment",
				"employment history", "work history", "career history", "relevant experience",
			},
			SectionEducation: {
				"education", "academic background", "education and training", "qualifications",
				"academic qualifications", "degrees",
			},
			SectionSkills: {
				"skills", "technical skills", "core competencies", "competencies", "key skills",
				"areas of expertise", "expertise", "technologies", "tools",
			},
		},
		StarCues: map[string][]string{
			StarSituation: {
				"when i was", "at my previous", "in my last role", "in my previous role",
				"while working", "the situation", "we were facing", "our team was",
				"the company was", "at the time", "during my", "a few years ago", "last year",
			},
			StarTask: {
				"my task", "i was responsible", "my responsibility", "my role was",
				"i needed to", "the goal was", "i was asked", "the challenge was",
				"the objective was", "we needed to", "i had to", "my job was",
			},
			StarAction: {
				"i decided", "i built", "i led", "i implemented", "i created", "i organized",
				"i worked with", "i analyzed", "so i", "i started", "i proposed", "i designed",
				"i reached out", "i took", "i set up", "i wrote", "i introduced", "i rewrote",
			},
			StarResult: {
				"as a result", "which resulted", "the result", "in the end", "ultimately",
				"we achieved", "increased", "reduced", "improved", "saved", "percent",
				"the outcome", "which led to", "we shipped", "we delivered",
			},
		},
		FillerWords: []string{
			"um", "uh", "basically", "actually", "you know", "kind of", "sort of", "literally",
		},
		IntentCues: []string{
			"apply", "applying", "application", "position", "role", "opportunity", "interested",
			"excited",
		},
		ClosingCues: []string{
			"thank you", "look forward", "looking forward", "opportunity to discuss", "interview",
			"hear from you", "speak with you", "talk with you",
		},
		TemplatePhrases: []string{
			"to whom it may concern", "dear sir or madam", "i am writing to apply",
			"i am writing to express my interest", "[company", "[position", "[hiring manager",
			"company name", "your esteemed", "hard worker", "team player",
			"think outside the box", "go-getter", "perfect fit",
		},
	}
}
