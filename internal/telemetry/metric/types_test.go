package metric

import "testing"

// mockCounter implements Counter for testing code against the
// abstraction instead of a concrete prometheus type.
type mockCounter struct {
	value float64
}

func (m *mockCounter) Inc()          { m.value++ }
func (m *mockCounter) Add(v float64) { m.value += v }

func TestCounter_Interface(t *testing.T) {
	var c Counter = &mockCounter{}

	c.Inc()
	c.Add(5.0)

	mc := c.(*mockCounter)
	if mc.value != 6.0 {
		t.Errorf("Counter value = %v, want 6.0", mc.value)
	}
}

type mockGauge struct {
	value float64
}

func (m *mockGauge) Set(v float64) { m.value = v }
func (m *mockGauge) Inc()          { m.value++ }
func (m *mockGauge) Dec()          { m.value-- }
func (m *mockGauge) Add(v float64) { m.value += v }
func (m *mockGauge) Sub(v float64) { m.value -= v }

func TestGauge_Interface(t *testing.T) {
	var g Gauge = &mockGauge{}

	g.Set(10.0)
	mg := g.(*mockGauge)
	if mg.value != 10.0 {
		t.Errorf("Gauge.Set value = %v, want 10.0", mg.value)
	}

	g.Inc()
	if mg.value != 11.0 {
		t.Errorf("Gauge.Inc value = %v, want 11.0", mg.value)
	}

	g.Dec()
	if mg.value != 10.0 {
		t.Errorf("Gauge.Dec value = %v, want 10.0", mg.value)
	}

	g.Add(5.0)
	if mg.value != 15.0 {
		t.Errorf("Gauge.Add value = %v, want 15.0", mg.value)
	}

	g.Sub(3.0)
	if mg.value != 12.0 {
		t.Errorf("Gauge.Sub value = %v, want 12.0", mg.value)
	}
}

type mockHistogram struct {
	observations []float64
}

func (m *mockHistogram) Observe(v float64) {
	m.observations = append(m.observations, v)
}

func TestHistogram_Interface(t *testing.T) {
	var h Histogram = &mockHistogram{}

	h.Observe(0.1)
	h.Observe(0.5)
	h.Observe(1.0)

	mh := h.(*mockHistogram)
	if len(mh.observations) != 3 {
		t.Errorf("Histogram observations count = %d, want 3", len(mh.observations))
	}
}

type mockCounterVec struct {
	counters map[string]*mockCounter
}

func (m *mockCounterVec) WithLabelValues(lvs ...string) Counter {
	key := ""
	for _, lv := range lvs {
		key += lv + ":"
	}
	if m.counters == nil {
		m.counters = make(map[string]*mockCounter)
	}
	if _, ok := m.counters[key]; !ok {
		m.counters[key] = &mockCounter{}
	}
	return m.counters[key]
}

func TestCounterVec_Interface(t *testing.T) {
	var cv CounterVec = &mockCounterVec{}

	c1 := cv.WithLabelValues("get", "ok")
	c2 := cv.WithLabelValues("set", "ok")

	c1.Inc()
	c1.Inc()
	c2.Add(3.0)

	c1Again := cv.WithLabelValues("get", "ok")
	c1Again.Inc()

	mcv := cv.(*mockCounterVec)
	if mcv.counters["get:ok:"].value != 3.0 {
		t.Errorf("CounterVec get value = %v, want 3.0", mcv.counters["get:ok:"].value)
	}
	if mcv.counters["set:ok:"].value != 3.0 {
		t.Errorf("CounterVec set value = %v, want 3.0", mcv.counters["set:ok:"].value)
	}
}

type mockHistogramVec struct {
	histograms map[string]*mockHistogram
}

func (m *mockHistogramVec) WithLabelValues(lvs ...string) Histogram {
	key := ""
	for _, lv := range lvs {
		key += lv + ":"
	}
	if m.histograms == nil {
		m.histograms = make(map[string]*mockHistogram)
	}
	if _, ok := m.histograms[key]; !ok {
		m.histograms[key] = &mockHistogram{}
	}
	return m.histograms[key]
}

func TestHistogramVec_Interface(t *testing.T) {
	var hv HistogramVec = &mockHistogramVec{}

	h1 := hv.WithLabelValues("get")
	h2 := hv.WithLabelValues("set")

	h1.Observe(0.1)
	h1.Observe(0.2)
	h2.Observe(0.5)

	mhv := hv.(*mockHistogramVec)
	if len(mhv.histograms["get:"].observations) != 2 {
		t.Errorf("HistogramVec get observations = %d, want 2", len(mhv.histograms["get:"].observations))
	}
	if len(mhv.histograms["set:"].observations) != 1 {
		t.Errorf("HistogramVec set observations = %d, want 1", len(mhv.histograms["set:"].observations))
	}
}

func TestRegistry_WithMocks(t *testing.T) {
	r := &Registry{
		ConnectionsActive: &mockGauge{},
		ConnectionsTotal:  &mockCounter{},
		OpsTotal:          &mockCounterVec{},
		OpDuration:        &mockHistogramVec{},
		KeysTotal:         &mockGauge{},
		StorageBytes:      &mockGauge{},
		StaleBytes:        &mockGauge{},
		CompactionsTotal:  &mockCounter{},
	}

	r.ConnectionsActive.Set(3)
	r.ConnectionsTotal.Inc()
	r.OpsTotal.WithLabelValues("get", "ok").Inc()
	r.OpDuration.WithLabelValues("get").Observe(0.01)
	r.KeysTotal.Set(9)
	r.CompactionsTotal.Inc()

	if r.ConnectionsActive.(*mockGauge).value != 3 {
		t.Error("ConnectionsActive not set correctly")
	}
	if r.ConnectionsTotal.(*mockCounter).value != 1 {
		t.Error("ConnectionsTotal not incremented")
	}
}
