package metrics

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	dto "github.com/prometheus/client_model/go"
)

// WriteTextfile dumps the registry in the Prometheus text exposition format
// to path, for collection by a node-exporter textfile directory. The write
// goes through a temp file and rename so the collector never reads a partial
// dump.
func (r *Registry) WriteTextfile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create metrics textfile: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Encode writes the gathered metric families to w in the text exposition
// format.
func (r *Registry) Encode(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, family := range families {
		if err := encodeFamily(w, family); err != nil {
			return err
		}
	}
	return nil
}

func encodeFamily(w io.Writer, family *dto.MetricFamily) error {
	name := family.GetName()
	if help := family.GetHelp(); help != "" {
		if _, err := fmt.Fprintf(w, "# HELP %s %s\n", name, help); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "# TYPE %s %s\n", name, typeName(family.GetType())); err != nil {
		return err
	}

	for _, m := range family.GetMetric() {
		labels := labelString(m.GetLabel())
		switch family.GetType() {
		case dto.MetricType_COUNTER:
			if _, err := fmt.Fprintf(w, "%s%s %s\n", name, labels, formatValue(m.GetCounter().GetValue())); err != nil {
				return err
			}
		case dto.MetricType_GAUGE:
			if _, err := fmt.Fprintf(w, "%s%s %s\n", name, labels, formatValue(m.GetGauge().GetValue())); err != nil {
				return err
			}
		case dto.MetricType_HISTOGRAM:
			if err := encodeHistogram(w, name, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func encodeHistogram(w io.Writer, name string, m *dto.Metric) error {
	h := m.GetHistogram()
	for _, bucket := range h.GetBucket() {
		if _, err := fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", name, formatValue(bucket.GetUpperBound()), bucket.GetCumulativeCount()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", name, h.GetSampleCount()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s_sum %s\n", name, formatValue(h.GetSampleSum())); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s_count %d\n", name, h.GetSampleCount())
	return err
}

func labelString(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	s := "{"
	for i, p := range pairs {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%s=%q", p.GetName(), p.GetValue())
	}
	return s + "}"
}

func typeName(t dto.MetricType) string {
	switch t {
	case dto.MetricType_COUNTER:
		return "counter"
	case dto.MetricType_GAUGE:
		return "gauge"
	case dto.MetricType_HISTOGRAM:
		return "histogram"
	default:
		return "untyped"
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
