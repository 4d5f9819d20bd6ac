package domain

import "time"

// Source is one newsletter feed to aggregate
type Source struct {
	Name   string `json:"name" koanf:"name"`
	RSSURL string `json:"rssUrl" koanf:"rss_url"`
}

// FeedItem is a normalized entry extracted from an Atom or RSS feed
type FeedItem struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
	Source    string    `json:"source"`
}

// DefaultSources returns the built-in newsletter feeds used when the
// request does not supply its own list.
func DefaultSources() []Source {
	return []Source{
		{
			Name:   "The Rundown University",
			RSSURL: "https://kill-the-newsletter.com/feeds/j3o5qsdo3qyhv731fbsi.xml",
		},
		{
			Name:   "Superhuman",
			RSSURL: "https://kill-the-newsletter.com/feeds/a46l1m0i8euwqe63m10a.xml",
		},
		{
			Name:   "AI Fire",
			RSSURL: "https://kill-the-newsletter.com/feeds/zaazvf0he2v851mjk1xi.xml",
		},
		{
			Name:   "AI Secret",
			RSSURL: "https://kill-the-newsletter.com/feeds/6pvsjo3xm8ysgyfprfbs.xml",
		},
		{
			Name:   "Future//Proof",
			RSSURL: "https://kill-the-newsletter.com/feeds/6fsx1zjrdbk8pgmqniek.xml",
		},
		{
			Name:   "AI Essentials",
			RSSURL: "https://kill-the-newsletter.com/feeds/owiptwtkmqlaot94d3k0.xml",
		},
	}
}
