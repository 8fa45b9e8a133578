// Package analyze derives per-county structural summaries from property
// records: instrument-number templates, book/page field statistics, date
// ranges with anomalies, and document-type distribution.
package analyze

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"countyscan/internal/dates"
	"countyscan/internal/domain"
)

const (
	topDocTypes    = 10
	minSaneYear    = 1800
	futureSlackDay = 1
)

// TemplatePattern is one structural shape of an instrument number. Digit
// runs collapse to D, letter runs to L, punctuation is preserved.
type TemplatePattern struct {
	Pattern    string  `json:"pattern"`
	Regex      string  `json:"regex"`
	Example    string  `json:"example"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FieldStats summarizes a book or page field for a county.
type FieldStats struct {
	Field       string `json:"field"`
	IsNumeric   bool   `json:"is_numeric"`
	HasLetters  bool   `json:"has_letters"`
	MinValue    string `json:"min_value"`
	MaxValue    string `json:"max_value"`
	UniqueCount int    `json:"unique_count"`
	TotalCount  int    `json:"total_count"`
}

type DateAnomaly struct {
	Date      string `json:"date"`
	Type      string `json:"type"`
	DaysAhead int    `json:"days_ahead,omitempty"`
	Year      int    `json:"year,omitempty"`
}

type DateRange struct {
	Earliest  *string       `json:"earliest"`
	Latest    *string       `json:"latest"`
	Anomalies []DateAnomaly `json:"anomalies"`
}

type CountySummary struct {
	RecordCount              int                       `json:"record_count"`
	InstrumentPatterns       []TemplatePattern         `json:"instrument_patterns"`
	InstrumentExcluded       int                       `json:"instrument_excluded"`
	InstrumentUnparsed       int                       `json:"instrument_unparsed"`
	BookStats                *FieldStats               `json:"book_patterns"`
	PageStats                *FieldStats               `json:"page_patterns"`
	DateRange                DateRange                 `json:"date_range"`
	DocTypeDistribution      map[string]int            `json:"doc_type_distribution"`
	UniqueDocTypes           int                       `json:"unique_doc_types"`
	UniqueDocCategories      int                       `json:"unique_doc_categories"`
	TypeCategoryRelationship map[string]map[string]int `json:"type_category_relationship"`
}

type templateAccum struct {
	count   int
	example string
}

type fieldAccum struct {
	values map[string]struct{}
	total  int
	min    string
	max    string
	digits bool // all values numeric so far
	letter bool // any value with a non-digit
}

type countyAccum struct {
	recordCount int

	templates map[string]*templateAccum
	excluded  int // bp-prefixed book/page references
	unparsed  int // missing or empty instrument numbers

	book fieldAccum
	page fieldAccum

	earliest  time.Time
	latest    time.Time
	hasDates  bool
	anomalies []DateAnomaly

	docTypes       map[string]int
	typeToCategory map[string]string
	categories     map[string]struct{}
}

// Analyzer accumulates records and produces county summaries. Anomaly
// detection is relative to the time supplied at construction so runs are
// reproducible in tests.
type Analyzer struct {
	now      time.Time
	counties map[string]*countyAccum
}

func New(now time.Time) *Analyzer {
	return &Analyzer{now: now, counties: make(map[string]*countyAccum)}
}

// Add folds one record into its county's accumulators. Records without a
// county have no group and are dropped.
func (a *Analyzer) Add(rec domain.Record) {
	county := strings.TrimSpace(rec.County)
	if county == "" {
		return
	}
	acc, ok := a.counties[county]
	if !ok {
		acc = &countyAccum{
			templates:      make(map[string]*templateAccum),
			book:           newFieldAccum(),
			page:           newFieldAccum(),
			docTypes:       make(map[string]int),
			typeToCategory: make(map[string]string),
			categories:     make(map[string]struct{}),
		}
		a.counties[county] = acc
	}
	acc.recordCount++

	a.addInstrument(acc, domain.StringValue(rec.InstrumentNumber))
	acc.book.add(domain.StringValue(rec.Book))
	acc.page.add(domain.StringValue(rec.Page))
	a.addDate(acc, rec.Date)
	addDocType(acc, rec)
}

func (a *Analyzer) addInstrument(acc *countyAccum, instr string) {
	if instr == "" {
		acc.unparsed++
		return
	}
	// Values like "bp1234-567" are book/page references, not instrument
	// numbers; they would pollute the templates.
	if strings.HasPrefix(instr, "bp") {
		acc.excluded++
		return
	}
	tpl := Template(instr)
	t, ok := acc.templates[tpl]
	if !ok {
		t = &templateAccum{example: instr}
		acc.templates[tpl] = t
	}
	t.count++
}

func (a *Analyzer) addDate(acc *countyAccum, date *string) {
	if date == nil || strings.TrimSpace(*date) == "" {
		return
	}
	raw := *date
	t, err := dates.ParseTime(raw)
	if err != nil {
		acc.anomalies = append(acc.anomalies, DateAnomaly{Date: raw, Type: "parse_error"})
		return
	}

	if !acc.hasDates || t.Before(acc.earliest) {
		acc.earliest = t
	}
	if !acc.hasDates || t.After(acc.latest) {
		acc.latest = t
	}
	acc.hasDates = true

	if t.After(a.now) {
		daysAhead := int(t.Sub(a.now).Hours() / 24)
		if daysAhead > futureSlackDay {
			acc.anomalies = append(acc.anomalies, DateAnomaly{Date: raw, Type: "future_date", DaysAhead: daysAhead})
		}
	}
	if t.Year() < minSaneYear {
		acc.anomalies = append(acc.anomalies, DateAnomaly{Date: raw, Type: "very_old_date", Year: t.Year()})
	}
}

func addDocType(acc *countyAccum, rec domain.Record) {
	docType := domain.StringValue(rec.DocType)
	if docType == "" {
		return
	}
	acc.docTypes[docType]++
	if category := domain.StringValue(rec.DocCategory); category != "" {
		acc.typeToCategory[docType] = category
		acc.categories[category] = struct{}{}
	}
}

// Summaries finalizes the accumulated state into per-county summaries.
func (a *Analyzer) Summaries() map[string]*CountySummary {
	out := make(map[string]*CountySummary, len(a.counties))
	for county, acc := range a.counties {
		out[county] = acc.summarize()
	}
	return out
}

func (acc *countyAccum) summarize() *CountySummary {
	s := &CountySummary{
		RecordCount:         acc.recordCount,
		InstrumentPatterns:  acc.templatePatterns(),
		InstrumentExcluded:  acc.excluded,
		InstrumentUnparsed:  acc.unparsed,
		BookStats:           acc.book.stats("book"),
		PageStats:           acc.page.stats("page"),
		DateRange:           acc.dateRange(),
		DocTypeDistribution: topN(acc.docTypes, topDocTypes),
		UniqueDocTypes:      len(acc.docTypes),
		UniqueDocCategories: len(acc.categories),
	}

	rel := make(map[string]map[string]int)
	for docType, count := range acc.docTypes {
		category, ok := acc.typeToCategory[docType]
		if !ok {
			continue
		}
		if rel[category] == nil {
			rel[category] = make(map[string]int)
		}
		rel[category][docType] = count
	}
	s.TypeCategoryRelationship = rel
	return s
}

func (acc *countyAccum) templatePatterns() []TemplatePattern {
	templated := 0
	for _, t := range acc.templates {
		templated += t.count
	}

	patterns := make([]TemplatePattern, 0, len(acc.templates))
	for tpl, t := range acc.templates {
		pct := 0.0
		if templated > 0 {
			pct = round2(float64(t.count) / float64(templated) * 100)
		}
		patterns = append(patterns, TemplatePattern{
			Pattern:    tpl,
			Regex:      TemplateRegex(tpl),
			Example:    t.example,
			Count:      t.count,
			Percentage: pct,
		})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Pattern < patterns[j].Pattern
	})
	return patterns
}

func (acc *countyAccum) dateRange() DateRange {
	dr := DateRange{Anomalies: acc.anomalies}
	if dr.Anomalies == nil {
		dr.Anomalies = []DateAnomaly{}
	}
	if acc.hasDates {
		earliest := acc.earliest.Format("2006-01-02T15:04:05")
		latest := acc.latest.Format("2006-01-02T15:04:05")
		dr.Earliest = &earliest
		dr.Latest = &latest
	}
	return dr
}

func newFieldAccum() fieldAccum {
	return fieldAccum{values: make(map[string]struct{}), digits: true}
}

func (f *fieldAccum) add(v string) {
	if v == "" {
		return
	}
	f.total++
	f.values[v] = struct{}{}

	if !isDigits(v) {
		f.digits = false
	}
	if hasLetter(v) {
		f.letter = true
	}

	if f.total == 1 {
		f.min, f.max = v, v
		return
	}
	if lessByLenThenLex(v, f.min) {
		f.min = v
	}
	if lessByLenThenLex(f.max, v) {
		f.max = v
	}
}

func (f *fieldAccum) stats(field string) *FieldStats {
	if f.total == 0 {
		return nil
	}
	return &FieldStats{
		Field:       field,
		IsNumeric:   f.digits,
		HasLetters:  f.letter,
		MinValue:    f.min,
		MaxValue:    f.max,
		UniqueCount: len(f.values),
		TotalCount:  f.total,
	}
}

// lessByLenThenLex orders shorter strings first, then lexicographically, so
// "99" < "100" for zero-unpadded numeric fields.
func lessByLenThenLex(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func topN(counts map[string]int, n int) map[string]int {
	type kv struct {
		key   string
		count int
	}
	sorted := make([]kv, 0, len(counts))
	for k, v := range counts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].key < sorted[j].key
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make(map[string]int, len(sorted))
	for _, e := range sorted {
		out[e.key] = e.count
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
