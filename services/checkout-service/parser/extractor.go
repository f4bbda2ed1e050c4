// Package parser turns the loosely formatted product lists produced by a
// conversational agent into item records.
//
// The input strings are joined with spaces, the characters "[]{}" are
// removed and whitespace runs are collapsed. Records are then matched left
// to right with the grammar
//
//	record  = "name=" value [","] ws "quantity=" digits [unit]
//	unit    = [","] ws "unit=" letters
//	value   = 1*(any char except ",")
//	digits  = 1*DIGIT
//	letters = 1*LETTER
//
// where value is the shortest run followed by ws "quantity=". The unit clause
// is only recognised when the extractor is built WithUnits. Text outside a
// match is ignored, so formatting noise never produces an error.
//
// A name ends at the first " quantity=" followed by digits. A marker with a
// non-numeric value does not end the name, so it becomes part of the name and
// the match runs on to the next valid quantity, swallowing any record text in
// between: "{name=A quantity=two} {name=B quantity=2}" yields one record
// named "A quantity=two name=B".
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yashrajoria/grocery-agent/services/checkout-service/models"
)

var (
	recordPattern     = regexp.MustCompile(`name=([^,]+?),?\s+quantity=(\d+)`)
	unitRecordPattern = regexp.MustCompile(`name=([^,]+?),?\s+quantity=(\d+)(?:,?\s+unit=(\p{L}+))?`)

	stripChars = strings.NewReplacer("[", "", "]", "", "{", "", "}", "")
)

// Extractor is stateless and safe for concurrent use.
type Extractor struct {
	pattern   *regexp.Regexp
	withUnits bool
}

type Option func(*Extractor)

// WithUnits enables the optional "unit=<letters>" clause.
func WithUnits() Option {
	return func(e *Extractor) {
		e.pattern = unitRecordPattern
		e.withUnits = true
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{pattern: recordPattern}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalize joins raw into the single string the record pattern runs on.
func Normalize(raw []string) string {
	joined := stripChars.Replace(strings.Join(raw, " "))
	return strings.Join(strings.Fields(joined), " ")
}

// Extract never fails. Matches with an empty name or a quantity that is zero
// or does not fit an int are dropped.
func (e *Extractor) Extract(raw []string) models.ItemList {
	items := models.ItemList{}
	if len(raw) == 0 {
		return items
	}

	for _, m := range e.pattern.FindAllStringSubmatch(Normalize(raw), -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		qty, err := strconv.Atoi(m[2])
		if err != nil || qty <= 0 {
			continue
		}

		item := models.ItemRecord{Name: name, Quantity: qty}
		if e.withUnits && len(m) > 3 {
			item.Unit = strings.TrimSpace(m[3])
		}
		items = append(items, item)
	}
	return items
}
