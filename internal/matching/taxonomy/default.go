package taxonomy

import "sync"

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the built-in taxonomy. JVM languages sit apart from the
// general-purpose languages.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		defaultTax = MustNew(DefaultCategories())
	})
	return defaultTax
}

// DefaultCategories returns a fresh copy of the built-in table, for callers
// that want to extend it before calling New.
func DefaultCategories() []Category {
	return []Category{
		{Name: "programming_languages", Skills: []string{
			"python", "javascript", "typescript", "c++", "c#", "php", "ruby", "go", "golang",
			"rust", "swift", "objective-c", "matlab", "perl", "shell", "bash", "powershell",
			"dart", "elixir", "haskell", "lua", "sql",
		}},
		{Name: "jvm_languages", Skills: []string{
			"java", "kotlin", "scala", "groovy", "clojure",
		}},
		{Name: "web_development", Skills: []string{
			"html", "css", "react", "angular", "vue", "vue.js", "node.js", "express", "django",
			"flask", "fastapi", "spring", "spring boot", "laravel", "ruby on rails", "asp.net",
			"jquery", "bootstrap", "tailwind css", "sass", "webpack", "next.js", "svelte",
			"graphql", "rest api",
		}},
		{Name: "databases", Skills: []string{
			"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle", "sql server",
			"cassandra", "dynamodb", "firebase", "elasticsearch", "neo4j", "mariadb",
		}},
		{Name: "cloud_platforms", Skills: []string{
			"aws", "azure", "gcp", "google cloud", "heroku", "digitalocean", "docker",
			"kubernetes", "terraform", "ansible", "serverless",
		}},
		{Name: "devops", Skills: []string{
			"jenkins", "gitlab ci", "github actions", "travis ci", "circleci", "ci/cd",
			"prometheus", "grafana", "vagrant", "chef", "puppet", "nginx",
		}},
		{Name: "data_science", Skills: []string{
			"machine learning", "deep learning", "data analysis", "pandas", "numpy",
			"scikit-learn", "tensorflow", "pytorch", "keras", "tableau", "power bi",
			"apache spark", "hadoop", "jupyter", "opencv", "nlp", "statistics",
		}},
		{Name: "mobile_development", Skills: []string{
			"ios", "android", "react native", "flutter", "xamarin", "ionic",
		}},
		{Name: "design", Skills: []string{
			"figma", "sketch", "adobe xd", "photoshop", "illustrator", "ui/ux", "prototyping",
		}},
		{Name: "project_management", Skills: []string{
			"agile", "scrum", "kanban", "jira", "confluence", "trello", "asana",
		}},
		{Name: "version_control", Skills: []string{
			"git", "github", "gitlab", "bitbucket", "svn",
		}},
		{Name: "operating_systems", Skills: []string{
			"linux", "windows", "macos", "ubuntu", "unix",
		}},
		{Name: "soft_skills", Skills: []string{
			"leadership", "communication", "teamwork", "problem solving", "mentoring",
		}},
	}
}
