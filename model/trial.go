package model

// DataCategory names one group of trial data.
type DataCategory string

const (
	// CategoryMarkers holds raw marker trajectories {channel, axis, time}.
	CategoryMarkers DataCategory = "markers"
	// CategoryAnalysis holds derived analysis channels {channel, time}.
	CategoryAnalysis DataCategory = "analysis"
)

// Event is one row of a trial's event table.
type Event struct {
	Context string
	Label   string
	Time    float64
}

// EventTable holds the detected gait events of one cycle together with the
// cycle's identity attributes.
type EventTable struct {
	Context string
	CycleID int
	Rows    []Event
}

// Trial holds the data of one recording, or of one segmented gait cycle.
type Trial struct {
	categories []DataCategory
	data       map[DataCategory]*Array
	events     *EventTable
}

// NewTrial returns an empty trial.
func NewTrial() *Trial {
	return &Trial{data: make(map[DataCategory]*Array)}
}

// AddData registers a data category. Re-adding a category replaces its data.
func (t *Trial) AddData(category DataCategory, data *Array) {
	if _, ok := t.data[category]; !ok {
		t.categories = append(t.categories, category)
	}
	t.data[category] = data
}

// Data returns the array for a category.
func (t *Trial) Data(category DataCategory) (*Array, bool) {
	a, ok := t.data[category]
	return a, ok
}

// Categories returns the data categories in insertion order.
func (t *Trial) Categories() []DataCategory {
	return append([]DataCategory(nil), t.categories...)
}

// Events returns the trial's event table, or nil when none was detected.
func (t *Trial) Events() *EventTable {
	return t.events
}

// SetEvents attaches an event table to the trial.
func (t *Trial) SetEvents(events *EventTable) {
	t.events = events
}

type cycleSet struct {
	ids  []int
	byID map[int]*Trial
}

// TrialCycles maps context (body side) to the gait cycles segmented from one
// trial. Iteration order follows insertion order for both contexts and cycles.
type TrialCycles struct {
	contexts  []string
	byContext map[string]*cycleSet
}

// NewTrialCycles returns an empty cycle collection.
func NewTrialCycles() *TrialCycles {
	return &TrialCycles{byContext: make(map[string]*cycleSet)}
}

// Add registers one cycle under a context.
func (tc *TrialCycles) Add(context string, cycleID int, trial *Trial) {
	set, ok := tc.byContext[context]
	if !ok {
		set = &cycleSet{byID: make(map[int]*Trial)}
		tc.byContext[context] = set
		tc.contexts = append(tc.contexts, context)
	}
	if _, ok := set.byID[cycleID]; !ok {
		set.ids = append(set.ids, cycleID)
	}
	set.byID[cycleID] = trial
}

// Contexts returns the context labels in insertion order.
func (tc *TrialCycles) Contexts() []string {
	return append([]string(nil), tc.contexts...)
}

// CycleIDs returns the cycle identifiers of a context in insertion order.
func (tc *TrialCycles) CycleIDs(context string) []int {
	set, ok := tc.byContext[context]
	if !ok {
		return nil
	}
	return append([]int(nil), set.ids...)
}

// Cycle returns one segmented cycle.
func (tc *TrialCycles) Cycle(context string, cycleID int) (*Trial, bool) {
	set, ok := tc.byContext[context]
	if !ok {
		return nil, false
	}
	t, ok := set.byID[cycleID]
	return t, ok
}
