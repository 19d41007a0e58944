package pipeline

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/gaitlab/gait-analyzer/model"
)

// LoadTrialCycles reads the segmented long-format interchange files.
//
// The trial file has columns context,cycle,category,channel,axis,time,value;
// axis is empty for scalar channels. Time values must appear in ascending
// order within each cycle. The events file has columns
// context,cycle,event_context,label,time.
func LoadTrialCycles(trialPath, eventsPath string) (*model.TrialCycles, error) {
	builder, err := loadTrialRows(trialPath)
	if err != nil {
		return nil, fmt.Errorf("load trial data: %w", err)
	}
	tables, err := loadEventRows(eventsPath)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	cycles := model.NewTrialCycles()
	for _, key := range builder.order {
		trial := model.NewTrial()
		cb := builder.byKey[key]
		for _, category := range cb.categories {
			arr, err := cb.byCategory[category].build()
			if err != nil {
				return nil, fmt.Errorf("assemble %s data for context %s cycle %d: %w", category, key.context, key.cycle, err)
			}
			trial.AddData(category, arr)
		}
		if table, ok := tables[key]; ok {
			trial.SetEvents(table)
		}
		cycles.Add(key.context, key.cycle, trial)
	}
	return cycles, nil
}

type cycleKey struct {
	context string
	cycle   int
}

type trialFileBuilder struct {
	order []cycleKey
	byKey map[cycleKey]*cycleBuilder
}

type cycleBuilder struct {
	categories []model.DataCategory
	byCategory map[model.DataCategory]*categoryBuilder
}

type seriesKey struct {
	channel string
	axis    string
}

type categoryBuilder struct {
	channels    []string
	channelSeen map[string]struct{}
	axes        []string
	axisSeen    map[string]struct{}
	times       []float64
	timeIndex   map[float64]int
	values      map[seriesKey]map[int]float64
}

func newCategoryBuilder() *categoryBuilder {
	return &categoryBuilder{
		channelSeen: make(map[string]struct{}),
		axisSeen:    make(map[string]struct{}),
		timeIndex:   make(map[float64]int),
		values:      make(map[seriesKey]map[int]float64),
	}
}

func (b *categoryBuilder) add(channel, axis string, t, value float64) {
	if _, ok := b.channelSeen[channel]; !ok {
		b.channelSeen[channel] = struct{}{}
		b.channels = append(b.channels, channel)
	}
	if axis != "" {
		if _, ok := b.axisSeen[axis]; !ok {
			b.axisSeen[axis] = struct{}{}
			b.axes = append(b.axes, axis)
		}
	}
	ti, ok := b.timeIndex[t]
	if !ok {
		ti = len(b.times)
		b.timeIndex[t] = ti
		b.times = append(b.times, t)
	}
	key := seriesKey{channel: channel, axis: axis}
	if b.values[key] == nil {
		b.values[key] = make(map[int]float64)
	}
	b.values[key][ti] = value
}

// build assembles the accumulated rows into a {channel, axis, time} or
// {channel, time} array. Missing samples become NaN.
func (b *categoryBuilder) build() (*model.Array, error) {
	if len(b.channels) == 0 || len(b.times) == 0 {
		return nil, fmt.Errorf("no samples")
	}

	dims := []model.Dim{{Name: "channel", Labels: b.channels}}
	axes := []string{""}
	if len(b.axes) > 0 {
		dims = append(dims, model.Dim{Name: "axis", Labels: b.axes})
		axes = b.axes
	}
	dims = append(dims, model.Dim{Name: "time", Coords: b.times})

	data := make([]float64, len(b.channels)*len(axes)*len(b.times))
	for i := range data {
		data[i] = math.NaN()
	}
	for ci, channel := range b.channels {
		for ai, axis := range axes {
			samples := b.values[seriesKey{channel: channel, axis: axis}]
			base := (ci*len(axes) + ai) * len(b.times)
			for ti, v := range samples {
				data[base+ti] = v
			}
		}
	}
	return model.NewArray(dims, data)
}

func loadTrialRows(path string) (*trialFileBuilder, error) {
	records, err := readCSV(path, []string{"context", "cycle", "category", "channel", "axis", "time", "value"})
	if err != nil {
		return nil, err
	}

	builder := &trialFileBuilder{byKey: make(map[cycleKey]*cycleBuilder)}
	for i, rec := range records {
		cycleID, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse cycle: %w", i+2, err)
		}
		t, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse time: %w", i+2, err)
		}
		value, err := strconv.ParseFloat(rec[6], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse value: %w", i+2, err)
		}

		key := cycleKey{context: rec[0], cycle: cycleID}
		cb, ok := builder.byKey[key]
		if !ok {
			cb = &cycleBuilder{byCategory: make(map[model.DataCategory]*categoryBuilder)}
			builder.byKey[key] = cb
			builder.order = append(builder.order, key)
		}

		category := model.DataCategory(rec[2])
		catBuilder, ok := cb.byCategory[category]
		if !ok {
			catBuilder = newCategoryBuilder()
			cb.byCategory[category] = catBuilder
			cb.categories = append(cb.categories, category)
		}
		catBuilder.add(rec[3], rec[4], t, value)
	}
	return builder, nil
}

func loadEventRows(path string) (map[cycleKey]*model.EventTable, error) {
	records, err := readCSV(path, []string{"context", "cycle", "event_context", "label", "time"})
	if err != nil {
		return nil, err
	}

	tables := make(map[cycleKey]*model.EventTable)
	for i, rec := range records {
		cycleID, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse cycle: %w", i+2, err)
		}
		t, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse time: %w", i+2, err)
		}

		key := cycleKey{context: rec[0], cycle: cycleID}
		table, ok := tables[key]
		if !ok {
			table = &model.EventTable{Context: rec[0], CycleID: cycleID}
			tables[key] = table
		}
		table.Rows = append(table.Rows, model.Event{
			Context: rec[2],
			Label:   rec[3],
			Time:    t,
		})
	}
	return tables, nil
}

func readCSV(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	got := records[0]
	if len(got) != len(header) {
		return nil, fmt.Errorf("%s: expected %d columns, got %d", path, len(header), len(got))
	}
	for i, col := range header {
		if got[i] != col {
			return nil, fmt.Errorf("%s: expected column %d to be %q, got %q", path, i, col, got[i])
		}
	}
	return records[1:], nil
}
