package workspace

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// ShowFiles lists every generator file with its status.
	ShowFiles bool
}

const barWidth = 24

func renderView(workspace domain.Workspace, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Novelpia Prompt Maker"),
		s.header.Render(fmt.Sprintf("projects: %d", len(workspace.Projects))),
	}

	active, ok := workspace.ActiveProject()
	if !ok {
		lines = append(lines, s.empty.Render("No projects yet. Create one with: npmk project create <name>"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines,
		s.section.Render(renderProjects(workspace.Projects, active.ID, s)),
		s.section.Render(renderTabs(workspace.ActiveTab, s)),
		s.section.Render(renderActive(active, opts, s)),
	)

	if workspace.NavigationOpen {
		lines = append(lines, s.header.Render("navigation: open"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProjects(projects []domain.Project, activeID domain.ProjectID, s styles) string {
	lines := make([]string, 0, len(projects))
	for _, project := range projects {
		done, total := project.Generator.Progress()
		meta := fmt.Sprintf("%s %d/%d", project.Generator.Status, done, total)
		if turns := len(project.Director); turns > 0 {
			meta += fmt.Sprintf(" · %d turns", turns)
		}

		if project.ID == activeID {
			lines = append(lines, s.activeProject.Render(fmt.Sprintf("▸ %s (%s)", project.Name, project.ID))+"  "+s.detail.Render(meta))
			continue
		}
		lines = append(lines, s.project.Render(fmt.Sprintf("  %s (%s)", project.Name, project.ID))+"  "+s.header.Render(meta))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTabs(activeTab domain.Tab, s styles) string {
	tabs := make([]string, 0, len(domain.Tabs))
	for _, tab := range domain.Tabs {
		label := fmt.Sprintf("%s %s", tab.Step(), tab.Label())
		if tab == activeTab {
			tabs = append(tabs, s.activeTab.Render("["+label+"]"))
			continue
		}
		tabs = append(tabs, s.tab.Render(" "+label+" "))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top, s.badge.Render("STEP "+activeTab.Step()), " ", s.title.Render(activeTab.Label()))

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(tabs, s.header.Render("|")),
		header,
		s.header.Render(activeTab.Description()),
	)
}

func renderActive(project domain.Project, opts RenderOptions, s styles) string {
	generator := project.Generator
	done, total := generator.Progress()

	lines := []string{
		s.activeProject.Render("Project: " + project.Name),
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.detail.Render(fmt.Sprintf("generator: %s ", generator.Status)),
			renderProgressBar(done, total, s),
			s.detail.Render(fmt.Sprintf(" %d/%d", done, total)),
		),
	}

	if generator.Status == domain.AnalysisRunning && generator.CurrentFileIndex >= 0 && generator.CurrentFileIndex < len(generator.Files) {
		lines = append(lines, s.detail.Render("processing: "+generator.Files[generator.CurrentFileIndex].File.Name))
	}
	if generator.Error != "" {
		lines = append(lines, s.warning.Render("error: "+generator.Error))
	}
	if generator.Result != nil {
		lines = append(lines, s.detail.Render(fmt.Sprintf("result: %d characters", len(generator.Result.Characters))))
	}

	if opts.ShowFiles {
		for _, file := range generator.Files {
			lines = append(lines, s.header.Render(fmt.Sprintf("  %-10s %s", file.Status, file.File.Name)))
		}
	}

	lines = append(lines, s.detail.Render(fmt.Sprintf("director: %d turns", len(project.Director))))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProgressBar(done, total int, s styles) string {
	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(barWidth) * float64(done) / float64(total)))
	}
	filled = max(0, min(filled, barWidth))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", barWidth-filled)),
		s.barBracket.Render("]"),
	)
}
