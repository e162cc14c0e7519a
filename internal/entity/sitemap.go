package entity

import "time"

type ChangeFrequency string

const (
	ChangeDaily   ChangeFrequency = "daily"
	ChangeWeekly  ChangeFrequency = "weekly"
	ChangeMonthly ChangeFrequency = "monthly"
)

// Priorities by page importance: home > tutorials > other static > legal.
const (
	PriorityHome     = 1.0
	PriorityTutorial = 0.9
	PriorityStatic   = 0.8
	PriorityLegal    = 0.3
)

// SitemapEntry is one crawlable URL of the site.
type SitemapEntry struct {
	URL             string
	LastModified    time.Time
	ChangeFrequency ChangeFrequency
	Priority        float64
}
