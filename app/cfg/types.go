package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Crawler configuration
	SourcesDir   string
	UserAgent    string
	RequestDelay float64
	Timeout      int
	MaxRetries   int

	// Scheduler configuration
	WorkerCount       int
	SchedulerInterval int
	CrawlInterval     int

	// HTTP API configuration
	Port         string
	APIAccessKey string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
