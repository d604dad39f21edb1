package config

// SourceConfig describes one configured news source. The file name (without
// the .yml extension) doubles as the source's configuration name.
type SourceConfig struct {
	Name        string         `yaml:"-"` // Derived from filename (without .yml extension)
	DisplayName string         `yaml:"name"`
	URL         string         `yaml:"url"`
	Parser      string         `yaml:"parser"`
	FeedURL     string         `yaml:"feed_url"`
	Selectors   Selectors      `yaml:"selectors"`
	Settings    SourceSettings `yaml:"settings"`
}

// Selectors configures the generic selector-driven parser. Site-specific
// parsers ignore this section.
type Selectors struct {
	ArticleLinks  string `yaml:"article_links"`
	Title         string `yaml:"title"`
	Content       string `yaml:"content"`
	Summary       string `yaml:"summary"`
	Author        string `yaml:"author"`
	Date          string `yaml:"date"`
	DateAttribute string `yaml:"date_attribute"`
}

type SourceSettings struct {
	Enabled     bool `yaml:"enabled"`
	MaxArticles int  `yaml:"max_articles"`
}
