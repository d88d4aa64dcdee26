package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"pms-chatbot/models"
)

// dateLayouts are tried in order; month-first wins for inputs such as
// 03/04/2024 where both readings are valid.
var dateLayouts = []string{
	"1/2/2006",
	"2/1/2006",
	"2006-1-2",
	"1-2-2006",
}

var clockTimeRe = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}(\s*(am|pm))?$`)

var namedTimes = map[string]string{
	"morning":   "09:00",
	"afternoon": "14:00",
	"evening":   "18:00",
}

// entityPattern pairs a search pattern with the normalization applied to its
// first match. normalize reports false when the match should be dropped.
type entityPattern struct {
	name      string
	re        *regexp.Regexp
	normalize func(x *EntityExtractor, match []string) (interface{}, bool)
}

var entityPatterns = []entityPattern{
	{
		name: models.EntityDate,
		re:   regexp.MustCompile(`(?i)\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|tomorrow|today|next week|next month)\b`),
		normalize: func(x *EntityExtractor, match []string) (interface{}, bool) {
			return x.parseDate(match[1])
		},
	},
	{
		name: models.EntityTime,
		re:   regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}\s*(am|pm)?|morning|afternoon|evening)\b`),
		normalize: func(_ *EntityExtractor, match []string) (interface{}, bool) {
			return parseTime(match[1])
		},
	},
	{
		name: models.EntitySpecialty,
		re:   regexp.MustCompile(`(?i)\b(cardiology|dermatology|neurology|orthopedics|pediatrics|psychiatry|radiology|surgery)\b`),
		normalize: func(_ *EntityExtractor, match []string) (interface{}, bool) {
			return strings.ToLower(match[1]), true
		},
	},
	{
		name: models.EntityDoctorName,
		re:   regexp.MustCompile(`(?i)\bdr\.?\s+([a-zA-Z]+)\b`),
		normalize: func(_ *EntityExtractor, match []string) (interface{}, bool) {
			return match[1], true
		},
	},
	{
		name: models.EntityPatientID,
		re:   regexp.MustCompile(`(?i)\b(patient\s+)?(id\s+)?(\d+)\b`),
		normalize: func(_ *EntityExtractor, match []string) (interface{}, bool) {
			id, err := strconv.ParseInt(match[3], 10, 64)
			if err != nil {
				return nil, false
			}
			return id, true
		},
	},
}

// EntityExtractor pulls typed values out of free text. Each entity type is
// searched independently and only its first match is kept.
type EntityExtractor struct {
	now func() time.Time
}

func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{now: time.Now}
}

// NewEntityExtractorWithClock is used where "today" must be pinned
func NewEntityExtractorWithClock(now func() time.Time) *EntityExtractor {
	return &EntityExtractor{now: now}
}

// ExtractEntities never fails: types without a match, or whose match cannot be
// normalized, are left out of the map.
func (x *EntityExtractor) ExtractEntities(message string) map[string]interface{} {
	entities := make(map[string]interface{})

	for _, p := range entityPatterns {
		match := p.re.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		if value, ok := p.normalize(x, match); ok {
			entities[p.name] = value
		}
	}

	return entities
}

func (x *EntityExtractor) parseDate(value string) (interface{}, bool) {
	now := x.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(value) {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location()), true
	}

	// "next week", "next month" and two-digit years
	return nil, false
}

func parseTime(value string) (interface{}, bool) {
	value = strings.TrimSpace(value)
	if named, ok := namedTimes[strings.ToLower(value)]; ok {
		return named, true
	}
	if clockTimeRe.MatchString(value) {
		return value, true
	}
	return nil, false
}
