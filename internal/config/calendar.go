package config

// CalendarConfig controls the crawl job that publishes enabled teams as an iCal feed.
type CalendarConfig struct {
	// Output is the .ics path the feed is written to; "-" means stdout.
	Output string
	// Concurrency bounds how many schedule pages are fetched at once.
	Concurrency int
}

func loadCalendar() CalendarConfig {
	return CalendarConfig{
		Output:      envOrDefault(envCalendarOutput, defaultCalendarOutput),
		Concurrency: intEnvOrDefault(envCrawlConcurrency, defaultCrawlConcurrency),
	}
}
