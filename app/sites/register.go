package sites

import (
	"github.com/skovalov/news-crawler/app/crawler"
)

// RegisterAll binds every known parser identifier to its implementation.
// Source seed files reference these names in their parser field.
func RegisterAll(registry *crawler.Registry) {
	registry.Register("selector", NewSelectorParser)
	registry.Register("feed", NewFeedParser)
	registry.Register("rbc-ukraine", NewRBCUkraineParser)
	registry.Register("ukrpravda", NewUkrPravdaParser)
}
