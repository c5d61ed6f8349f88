package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/qadesk/cli/internal/api"
)

// ProjectsView browses projects and their releases using tview
type ProjectsView struct {
	owner *App
	flex  *tview.Flex
	list  *tview.List
	info  *tview.TextView

	projects []api.Project
	releases map[int64][]api.Release
}

// NewProjectsView creates a new projects view
func NewProjectsView(owner *App) *ProjectsView {
	pv := &ProjectsView{
		owner:    owner,
		releases: make(map[int64][]api.Release),
	}

	// Create list for projects
	pv.list = tview.NewList().
		ShowSecondaryText(true).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			pv.showProjectInfo(index)
		}).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			pv.loadReleases(index)
		})
	pv.list.SetBorder(true).SetTitle(" Projects ")

	// Create info text view
	pv.info = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	pv.info.SetBorder(true).SetTitle(" Details ")

	// Create main flex layout
	pv.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(
			tview.NewFlex().
				AddItem(pv.list, 0, 1, true).
				AddItem(pv.info, 0, 1, false),
			0, 1, true,
		).
		AddItem(
			tview.NewTextView().
				SetText("[yellow]a[white]: Add project | [yellow]n[white]: Add release | [yellow]d[white]: Delete | [yellow]r[white]: Reload | [yellow]Enter[white]: Releases").
				SetDynamicColors(true),
			1, 0, false,
		)

	// Set up input capture
	pv.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'a', 'A':
			pv.promptAddProject()
			return nil
		case 'n', 'N':
			pv.promptAddRelease()
			return nil
		case 'd', 'D':
			pv.deleteSelected()
			return nil
		case 'r', 'R':
			pv.reloadProjects()
			return nil
		}
		return event
	})

	// Load projects
	pv.reloadProjects()

	return pv
}

// GetPrimitive returns the tview primitive
func (pv *ProjectsView) GetPrimitive() tview.Primitive {
	return pv.flex
}

// reloadProjects reloads the project list from the backend
func (pv *ProjectsView) reloadProjects() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		projects, err := pv.owner.client.GetProjectsForUser(ctx, pv.owner.cfg.API.UploadedBy)
		pv.owner.app.QueueUpdateDraw(func() {
			if err != nil {
				pv.info.SetText(fmt.Sprintf("[red]Error loading projects: %v", err))
				return
			}
			pv.projects = projects
			pv.releases = make(map[int64][]api.Release)
			pv.list.Clear()

			for i, project := range projects {
				mainText := fmt.Sprintf("%d. %s", i+1, project.Name)
				pv.list.AddItem(mainText, project.Description, 0, nil)
			}

			if len(projects) == 0 {
				pv.info.SetText("[yellow]No projects found. Press 'a' to add one.")
				return
			}
			pv.showProjectInfo(pv.list.GetCurrentItem())
		})
	}()
}

// loadReleases fetches releases for the selected project
func (pv *ProjectsView) loadReleases(index int) {
	if index < 0 || index >= len(pv.projects) {
		return
	}
	project := pv.projects[index]

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		releases, err := pv.owner.client.GetReleasesByProject(ctx, project.ID)
		pv.owner.app.QueueUpdateDraw(func() {
			if err != nil {
				pv.info.SetText(fmt.Sprintf("[red]Error loading releases: %v", err))
				return
			}
			pv.releases[project.ID] = releases
			pv.showProjectInfo(index)
		})
	}()
}

// showProjectInfo displays details and known releases for a project
func (pv *ProjectsView) showProjectInfo(index int) {
	if index < 0 || index >= len(pv.projects) {
		return
	}

	project := pv.projects[index]
	var infoText strings.Builder
	infoText.WriteString(fmt.Sprintf("[white]Project: [yellow]%s[white]\n", project.Name))
	if project.Description != "" {
		infoText.WriteString(fmt.Sprintf("Description: %s\n", project.Description))
	}
	if project.CreatedBy != "" {
		infoText.WriteString(fmt.Sprintf("Created by: [cyan]%s[white]\n", project.CreatedBy))
	}
	if project.CreatedAt != "" {
		infoText.WriteString(fmt.Sprintf("Created: [gray]%s[white]\n", project.CreatedAt))
	}

	if releases, ok := pv.releases[project.ID]; ok {
		infoText.WriteString(fmt.Sprintf("\n[yellow]Releases (%d):[white]\n", len(releases)))
		for _, release := range releases {
			infoText.WriteString(fmt.Sprintf("  - %s", release.Name))
			if release.StartDate != "" || release.EndDate != "" {
				infoText.WriteString(fmt.Sprintf(" [gray](%s → %s)[white]", release.StartDate, release.EndDate))
			}
			infoText.WriteString("\n")
		}
	} else {
		infoText.WriteString("\n[gray]Press Enter to load releases")
	}

	pv.info.SetText(infoText.String())
}

// deleteSelected deletes the selected project
func (pv *ProjectsView) deleteSelected() {
	selected := pv.list.GetCurrentItem()
	if selected < 0 || selected >= len(pv.projects) {
		return
	}

	project := pv.projects[selected]
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := pv.owner.client.DeleteProject(ctx, project.ID)
		pv.owner.app.QueueUpdateDraw(func() {
			if err != nil {
				pv.info.SetText(fmt.Sprintf("[red]Error deleting project: %v", err))
				return
			}
			pv.info.SetText("[green]Project deleted successfully!")
		})
		pv.reloadProjects()
	}()
}

// promptAddProject shows the add-project form
func (pv *ProjectsView) promptAddProject() {
	var name, description string
	form := tview.NewForm().
		AddInputField("Name", "", 0, nil, func(text string) { name = text }).
		AddInputField("Description", "", 0, nil, func(text string) { description = text }).
		AddButton("Create", func() {
			pv.closeForm()
			pv.addProject(name, description)
		}).
		AddButton("Cancel", func() {
			pv.closeForm()
		})
	form.SetBorder(true).SetTitle(" New Project ")

	pv.owner.pages.AddPage("projectform", modal(form, 60, 9), true, true)
	pv.owner.app.SetFocus(form)
}

// promptAddRelease shows the add-release form for the selected project
func (pv *ProjectsView) promptAddRelease() {
	selected := pv.list.GetCurrentItem()
	if selected < 0 || selected >= len(pv.projects) {
		return
	}
	project := pv.projects[selected]

	var name, description, start, end string
	form := tview.NewForm().
		AddInputField("Name", "", 0, nil, func(text string) { name = text }).
		AddInputField("Description", "", 0, nil, func(text string) { description = text }).
		AddInputField("Start date (YYYY-MM-DD)", "", 0, nil, func(text string) { start = text }).
		AddInputField("End date (YYYY-MM-DD)", "", 0, nil, func(text string) { end = text }).
		AddButton("Create", func() {
			pv.closeForm()
			pv.addRelease(project.ID, name, description, start, end)
		}).
		AddButton("Cancel", func() {
			pv.closeForm()
		})
	form.SetBorder(true).SetTitle(fmt.Sprintf(" New Release for %s ", project.Name))

	pv.owner.pages.AddPage("projectform", modal(form, 60, 13), true, true)
	pv.owner.app.SetFocus(form)
}

func (pv *ProjectsView) closeForm() {
	pv.owner.pages.RemovePage("projectform")
	pv.owner.pages.SwitchToPage("projects")
}

// addProject creates a project on the backend
func (pv *ProjectsView) addProject(name, description string) {
	if strings.TrimSpace(name) == "" {
		pv.info.SetText("[red]Project name is required")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err := pv.owner.client.AddProject(ctx, api.ProjectRequest{
			Name:        name,
			Description: description,
			CreatedBy:   pv.owner.cfg.API.UploadedBy,
		})
		pv.owner.app.QueueUpdateDraw(func() {
			if err != nil {
				pv.info.SetText(fmt.Sprintf("[red]Error creating project: %v", err))
				return
			}
			pv.info.SetText("[green]Project created successfully!")
		})
		pv.reloadProjects()
	}()
}

// addRelease creates a release on the backend
func (pv *ProjectsView) addRelease(projectID int64, name, description, start, end string) {
	if strings.TrimSpace(name) == "" {
		pv.info.SetText("[red]Release name is required")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_, err := pv.owner.client.AddRelease(ctx, api.ReleaseRequest{
			ProjectID:   projectID,
			Name:        name,
			Description: description,
			StartDate:   start,
			EndDate:     end,
		})
		pv.owner.app.QueueUpdateDraw(func() {
			if err != nil {
				pv.info.SetText(fmt.Sprintf("[red]Error creating release: %v", err))
				return
			}
			pv.info.SetText("[green]Release created successfully!")
		})
		pv.reloadProjects()
	}()
}
