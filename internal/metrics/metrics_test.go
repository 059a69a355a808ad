package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/adamwoolhether/fetch/internal/metrics"
)

const (
	tasksHeader = `
# HELP fetch_tasks_total Total number of completed tasks by kind and outcome
# TYPE fetch_tasks_total counter
`
	inFlightHeader = `
# HELP fetch_tasks_in_flight Number of tasks started but not yet completed
# TYPE fetch_tasks_in_flight gauge
`
)

func TestStart(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	done := m.Start("fetch")

	exp := inFlightHeader + `fetch_tasks_in_flight{kind="fetch"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(exp), "fetch_tasks_in_flight"); err != nil {
		t.Errorf("in flight before completion: %v", err)
	}

	done(true)
	m.Start("fetch")(false)
	m.Start("download")(true)

	exp = tasksHeader + `fetch_tasks_total{kind="download",outcome="success"} 1
fetch_tasks_total{kind="fetch",outcome="failure"} 1
fetch_tasks_total{kind="fetch",outcome="success"} 1
` + inFlightHeader + `fetch_tasks_in_flight{kind="download"} 0
fetch_tasks_in_flight{kind="fetch"} 0
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(exp), "fetch_tasks_total", "fetch_tasks_in_flight"); err != nil {
		t.Errorf("after completion: %v", err)
	}

	n, err := testutil.GatherAndCount(reg, "fetch_task_duration_seconds")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("exp 2 duration series, got %d", n)
	}
}

func TestNew_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}

	first.Start("fetch")(true)
	second.Start("fetch")(true)

	exp := tasksHeader + `fetch_tasks_total{kind="fetch",outcome="success"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(exp), "fetch_tasks_total"); err != nil {
		t.Error(err)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *metrics.Metrics
	m.Start("fetch")(true)
}

func TestNew_NilRegisterer(t *testing.T) {
	if _, err := metrics.New(nil); err == nil {
		t.Error("exp error for nil registerer")
	}
}
