package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	auditmodel "github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/report"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	overviewView view = iota
	coverageView
	gapsView
	duplicatesView
	balanceView
	connectivityView
	viewCount
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Up, k.Down, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type uiModel struct {
	report      *auditmodel.AuditReport
	currentView view
	tables      map[view]table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func initialModel(r *auditmodel.AuditReport) uiModel {
	tables := map[view]table.Model{
		coverageView:     coverageTable(r),
		gapsView:         gapsTable(r),
		duplicatesView:   duplicatesTable(r),
		balanceView:      balanceTable(r),
		connectivityView: connectivityTable(r),
	}

	return uiModel{
		report:      r,
		currentView: overviewView,
		tables:      tables,
		help:        help.New(),
		keys:        keys,
	}
}

func coverageTable(r *auditmodel.AuditReport) table.Model {
	columns := []table.Column{
		{Title: "Layer", Width: 16},
		{Title: "Types", Width: 6},
		{Title: "Intra", Width: 6},
		{Title: "Inter", Width: 6},
		{Title: "Isolation", Width: 10},
		{Title: "Density", Width: 8},
	}
	rows := make([]table.Row, 0, len(r.Coverage))
	for _, cm := range r.Coverage {
		rows = append(rows, table.Row{
			cm.LayerID,
			fmt.Sprintf("%d", cm.NodeTypeCount),
			fmt.Sprintf("%d", cm.IntraLayerRelCount),
			fmt.Sprintf("%d", cm.InterLayerRelCount),
			fmt.Sprintf("%.1f%%", cm.IsolationPercentage),
			fmt.Sprintf("%.2f", cm.Density),
		})
	}
	return newTable(columns, rows)
}

func gapsTable(r *auditmodel.AuditReport) table.Model {
	columns := []table.Column{
		{Title: "Source", Width: 24},
		{Title: "Predicate", Width: 14},
		{Title: "Destination", Width: 24},
		{Title: "Priority", Width: 8},
		{Title: "Align", Width: 6},
	}
	rows := make([]table.Row, 0, len(r.Gaps))
	for _, gap := range r.Gaps {
		rows = append(rows, table.Row{
			gap.SourceType,
			gap.Predicate,
			gap.DestType,
			string(gap.Priority),
			fmt.Sprintf("%d", gap.AlignmentScore),
		})
	}
	return newTable(columns, rows)
}

func duplicatesTable(r *auditmodel.AuditReport) table.Model {
	columns := []table.Column{
		{Title: "Relationship A", Width: 32},
		{Title: "Relationship B", Width: 32},
		{Title: "Confidence", Width: 10},
		{Title: "Similarity", Width: 10},
	}
	rows := make([]table.Row, 0, len(r.Duplicates))
	for _, dup := range r.Duplicates {
		rows = append(rows, table.Row{
			dup.RelationshipA,
			dup.RelationshipB,
			string(dup.Confidence),
			fmt.Sprintf("%.2f", dup.Similarity),
		})
	}
	return newTable(columns, rows)
}

func balanceTable(r *auditmodel.AuditReport) table.Model {
	columns := []table.Column{
		{Title: "Layer", Width: 16},
		{Title: "Node Type", Width: 28},
		{Title: "Rels", Width: 6},
		{Title: "Median", Width: 8},
		{Title: "Kind", Width: 14},
	}
	rows := make([]table.Row, 0, len(r.Balance.Issues))
	for _, issue := range r.Balance.Issues {
		kind := "underconnected"
		if issue.Overconnected {
			kind = "overconnected"
		}
		rows = append(rows, table.Row{
			issue.LayerID,
			issue.NodeTypeID,
			fmt.Sprintf("%d", issue.RelCount),
			fmt.Sprintf("%.1f", issue.LayerMedian),
			kind,
		})
	}
	return newTable(columns, rows)
}

func connectivityTable(r *auditmodel.AuditReport) table.Model {
	columns := []table.Column{
		{Title: "Kind", Width: 20},
		{Title: "Subject", Width: 32},
		{Title: "Detail", Width: 48},
	}
	rows := make([]table.Row, 0, len(r.Connectivity.Issues))
	for _, issue := range r.Connectivity.Issues {
		subject := issue.NodeTypeID
		if subject == "" {
			subject = issue.Relationship
		}
		rows = append(rows, table.Row{string(issue.Kind), subject, issue.Detail})
	}
	return newTable(columns, rows)
}

func (m uiModel) Init() tea.Cmd {
	return nil
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}
		}
	}

	if t, ok := m.tables[m.currentView]; ok {
		t, cmd = t.Update(msg)
		m.tables[m.currentView] = t
	}

	return m, cmd
}

func (m uiModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🔎 specaudit - Report Browser"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case overviewView:
		s.WriteString(m.renderOverview())
	case coverageView:
		s.WriteString(m.renderTableView("Layer Coverage"))
	case gapsView:
		s.WriteString(m.renderTableView("Gap Candidates"))
	case duplicatesView:
		s.WriteString(m.renderTableView("Duplicate Candidates"))
	case balanceView:
		s.WriteString(m.renderTableView("Balance Outliers"))
	case connectivityView:
		s.WriteString(m.renderTableView("Connectivity Issues"))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m uiModel) renderTabs() string {
	tabs := []string{"Overview", "Coverage", "Gaps", "Duplicates", "Balance", "Connectivity"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m uiModel) renderOverview() string {
	r := m.report

	scope := r.Scope
	if scope == "" {
		scope = "entire specification"
	}

	summary := fmt.Sprintf(`📊 Findings
━━━━━━━━━━━━━━━
Gaps:          %d
Duplicates:    %d
Balance:       %d
Connectivity:  %d
Completeness:  %d

Total:         %d`,
		len(r.Gaps),
		len(r.Duplicates),
		len(r.Balance.Issues),
		len(r.Connectivity.Issues),
		len(r.Completeness),
		r.TotalFindings(),
	)

	graph := fmt.Sprintf(`🕸  Graph
━━━━━━━━━━━━━━━
Scope:       %s
Generated:   %s
Components:  %d
Largest:     %d
Isolated:    %d`,
		scope,
		r.GeneratedAt.Format(time.RFC3339),
		r.Connectivity.ComponentCount,
		r.Connectivity.LargestComponent,
		len(r.Connectivity.IsolatedTypes),
	)

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		statsBoxStyle.Render(summary),
		statsBoxStyle.Render(graph),
	)

	out := contentStyle.Render(boxes)
	if len(r.Completeness) > 0 {
		out += "\n\n" + contentStyle.Render(
			warnStyle.Render(fmt.Sprintf("⚠ %d schema file(s) excluded from analysis; see the Completeness section of the report", len(r.Completeness))))
	}
	return out
}

func (m uiModel) renderTableView(title string) string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(title))
	s.WriteString("\n\n")

	t := m.tables[m.currentView]
	if len(t.Rows()) == 0 {
		s.WriteString(helpStyle.Render("No findings in this section 🎉"))
	} else {
		s.WriteString(t.View())
	}

	return contentStyle.Render(s.String())
}

func main() {
	specDir := flag.String("spec", "", "Specification root directory to audit")
	reportPath := flag.String("report", "", "Saved JSON report to browse")
	scope := flag.String("scope", "", "Restrict a fresh audit to one layer")
	flag.Parse()

	var r *auditmodel.AuditReport
	switch {
	case *reportPath != "":
		loaded, err := report.LoadFile(*reportPath)
		if err != nil {
			log.Fatalf("Failed to load report: %v", err)
		}
		r = loaded
	case *specDir != "":
		g, err := schema.Load(*specDir)
		if err != nil {
			log.Fatalf("Failed to load specification: %v", err)
		}
		r = report.Assemble(g, *scope, time.Now())
	default:
		log.Fatal("Provide -report <file> or -spec <dir>")
	}

	p := tea.NewProgram(initialModel(r), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
