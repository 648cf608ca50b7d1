package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// Format selects a report rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatMarkdown, FormatText:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown report format %q (want json, markdown, or text)", s)
	}
}

// Render writes the report to w in the requested format.
func Render(w io.Writer, r *model.AuditReport, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, r)
	case FormatMarkdown:
		return renderMarkdown(w, r)
	case FormatText:
		return renderText(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func renderJSON(w io.Writer, r *model.AuditReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

func renderMarkdown(w io.Writer, r *model.AuditReport) error {
	var b strings.Builder

	b.WriteString("# Architecture Audit Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	if r.Scope != "" {
		fmt.Fprintf(&b, "Scope: layer `%s`\n\n", r.Scope)
	}
	fmt.Fprintf(&b, "Total findings: **%d**\n\n", r.TotalFindings())

	b.WriteString("## Coverage\n\n")
	b.WriteString("| Layer | Node Types | Intra | Inter | Isolated | Isolation % | Density | Predicate Use |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, m := range r.Coverage {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d | %.1f | %.2f | %.2f |\n",
			m.LayerID, m.NodeTypeCount, m.IntraLayerRelCount, m.InterLayerRelCount,
			m.IsolatedCount, m.IsolationPercentage, m.Density, m.PredicateUtilization)
	}
	b.WriteString("\n")

	b.WriteString("## Gap Candidates\n\n")
	if len(r.Gaps) == 0 {
		b.WriteString("No gaps detected.\n\n")
	} else {
		b.WriteString("| Source | Predicate | Destination | Priority | Impact | Alignment |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, gap := range r.Gaps {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %.1f | %d |\n",
				gap.SourceType, gap.Predicate, gap.DestType, gap.Priority, gap.ImpactScore, gap.AlignmentScore)
		}
		b.WriteString("\n")
		for _, gap := range r.Gaps {
			fmt.Fprintf(&b, "- **%s → %s** (%s): %s\n", gap.SourceType, gap.DestType, gap.Predicate, gap.Reasoning)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Duplicate Candidates\n\n")
	if len(r.Duplicates) == 0 {
		b.WriteString("No duplicates detected.\n\n")
	} else {
		b.WriteString("| A | B | Confidence | Similarity | Siblings | Alignment |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, d := range r.Duplicates {
			fmt.Fprintf(&b, "| %s | %s | %s | %.2f | %d | %d |\n",
				d.RelationshipA, d.RelationshipB, d.Confidence, d.Similarity, d.SiblingCount, d.AlignmentScore)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Balance\n\n")
	if len(r.Balance.Issues) == 0 {
		b.WriteString("All layers balanced.\n\n")
	} else {
		for _, issue := range r.Balance.Issues {
			fmt.Fprintf(&b, "- `%s`: %s\n", issue.NodeTypeID, issue.Reasoning)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Connectivity\n\n")
	fmt.Fprintf(&b, "Components: %d (largest %d), isolated node types: %d\n\n",
		r.Connectivity.ComponentCount, r.Connectivity.LargestComponent, len(r.Connectivity.IsolatedTypes))
	for _, issue := range r.Connectivity.Issues {
		fmt.Fprintf(&b, "- [%s] %s\n", issue.Kind, issue.Detail)
	}
	b.WriteString("\n")

	if len(r.Completeness) > 0 {
		b.WriteString("## Completeness\n\n")
		for _, issue := range r.Completeness {
			fmt.Fprintf(&b, "- `%s`: %s\n", issue.File, issue.Reason)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderText(w io.Writer, r *model.AuditReport) error {
	var b strings.Builder

	b.WriteString("Architecture Audit Report\n")
	b.WriteString("=========================\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	if r.Scope != "" {
		fmt.Fprintf(&b, "Scope: layer %s\n", r.Scope)
	}
	fmt.Fprintf(&b, "Total findings: %d\n\n", r.TotalFindings())

	b.WriteString("Coverage:\n")
	for _, m := range r.Coverage {
		fmt.Fprintf(&b, "  %-16s types=%d intra=%d inter=%d isolated=%d isolation=%.1f%% density=%.2f predicates=%.2f\n",
			m.LayerID, m.NodeTypeCount, m.IntraLayerRelCount, m.InterLayerRelCount,
			m.IsolatedCount, m.IsolationPercentage, m.Density, m.PredicateUtilization)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Gap candidates: %d\n", len(r.Gaps))
	for _, gap := range r.Gaps {
		fmt.Fprintf(&b, "  [%s/%d] %s -(%s)-> %s: %s\n",
			gap.Priority, gap.AlignmentScore, gap.SourceType, gap.Predicate, gap.DestType, gap.Reasoning)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Duplicate candidates: %d\n", len(r.Duplicates))
	for _, d := range r.Duplicates {
		fmt.Fprintf(&b, "  [%s/%d] %s <> %s (similarity %.2f, %d sibling predicates)\n",
			d.Confidence, d.AlignmentScore, d.RelationshipA, d.RelationshipB, d.Similarity, d.SiblingCount)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Balance issues: %d\n", len(r.Balance.Issues))
	for _, issue := range r.Balance.Issues {
		fmt.Fprintf(&b, "  %s\n", issue.Reasoning)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Connectivity: %d components (largest %d), %d isolated\n",
		r.Connectivity.ComponentCount, r.Connectivity.LargestComponent, len(r.Connectivity.IsolatedTypes))
	for _, issue := range r.Connectivity.Issues {
		fmt.Fprintf(&b, "  [%s] %s\n", issue.Kind, issue.Detail)
	}

	if len(r.Completeness) > 0 {
		fmt.Fprintf(&b, "\nExcluded files: %d\n", len(r.Completeness))
		for _, issue := range r.Completeness {
			fmt.Fprintf(&b, "  %s: %s\n", issue.File, issue.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// LoadFile reads a structured report back from disk.
func LoadFile(path string) (*model.AuditReport, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var r model.AuditReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}
