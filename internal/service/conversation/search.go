package conversation

import (
	"github.com/obot-ai/obotai-webhook-example/internal/model/catalog"
	"github.com/obot-ai/obotai-webhook-example/internal/model/session"
)

// search returns the records matching at least one condition exactly on
// its named field (logical OR). Records keep dataset order; a record is
// appended on its first matching condition and never re-evaluated, so
// it appears at most once however many conditions it matches.
func search(records []catalog.Record, conditions []session.Condition) []catalog.Record {
	matches := make([]catalog.Record, 0, len(records))
	for _, record := range records {
		for _, cond := range conditions {
			value, ok := record.Field(cond.Field)
			if ok && value == cond.Value {
				matches = append(matches, record)
				break
			}
		}
	}
	return matches
}
