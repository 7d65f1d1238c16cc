package perf

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// RunSpanName wraps a whole CLI invocation; StagePrefix marks its top-level steps.
const (
	RunSpanName = "lsk.run"
	StagePrefix = "lsk.stage."
)

type StageDuration struct {
	Name     string
	Duration time.Duration
}

type RunDurations struct {
	Total  time.Duration
	Stages []StageDuration
}

func GetRunDurations() (RunDurations, error) {
	spans, err := GetSpans()
	if err != nil {
		return RunDurations{}, err
	}
	return runDurationsFromSpans(spans)
}

func runDurationsFromSpans(spans []SpanSnapshot) (RunDurations, error) {
	total, ok := totalFromRunSpan(spans)
	if !ok {
		var err error
		total, err = totalFromSpanBounds(spans)
		if err != nil {
			return RunDurations{}, err
		}
	}

	return RunDurations{Total: total, Stages: stageDurations(spans)}, nil
}

func totalFromRunSpan(spans []SpanSnapshot) (time.Duration, bool) {
	for i := len(spans) - 1; i >= 0; i-- {
		span := spans[i]
		if span.Name != RunSpanName || span.StartTime.IsZero() || span.EndTime.IsZero() {
			continue
		}
		if span.EndTime.Before(span.StartTime) {
			continue
		}
		return span.Duration(), true
	}
	return 0, false
}

func totalFromSpanBounds(spans []SpanSnapshot) (time.Duration, error) {
	var minStart time.Time
	var maxEnd time.Time

	for _, span := range spans {
		if span.StartTime.IsZero() || span.EndTime.IsZero() || span.EndTime.Before(span.StartTime) {
			continue
		}
		if minStart.IsZero() || span.StartTime.Before(minStart) {
			minStart = span.StartTime
		}
		if maxEnd.IsZero() || maxEnd.Before(span.EndTime) {
			maxEnd = span.EndTime
		}
	}

	if minStart.IsZero() || maxEnd.IsZero() {
		return 0, errors.New("no spans with valid timestamps")
	}
	return maxEnd.Sub(minStart), nil
}

// stageDurations sums repeated stages and orders them by first start.
func stageDurations(spans []SpanSnapshot) []StageDuration {
	totals := make(map[string]time.Duration)
	firstStart := make(map[string]time.Time)

	for _, span := range spans {
		if !strings.HasPrefix(span.Name, StagePrefix) {
			continue
		}
		name := strings.TrimPrefix(span.Name, StagePrefix)
		totals[name] += span.Duration()
		if start, seen := firstStart[name]; !seen || span.StartTime.Before(start) {
			firstStart[name] = span.StartTime
		}
	}

	stages := make([]StageDuration, 0, len(totals))
	for name, duration := range totals {
		stages = append(stages, StageDuration{Name: name, Duration: duration})
	}
	sort.Slice(stages, func(i, j int) bool {
		a, b := firstStart[stages[i].Name], firstStart[stages[j].Name]
		if !a.Equal(b) {
			return a.Before(b)
		}
		return stages[i].Name < stages[j].Name
	})
	return stages
}
