package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/qadesk/cli/internal/upload"
)

// DashboardView shows overall status and statistics using tview
type DashboardView struct {
	owner  *App
	flex   *tview.Flex
	status *tview.TextView
	stats  *tview.TextView
	menu   *tview.List

	statsData DashboardStats
}

// DashboardStats contains statistics about the remote system
type DashboardStats struct {
	TotalDocuments int
	TotalSize      int64
	ByType         map[string]int
	ActiveUploads  int
	Reachable      bool
	LastError      string
}

// NewDashboardView creates a new dashboard view
func NewDashboardView(owner *App) *DashboardView {
	dv := &DashboardView{
		owner:     owner,
		statsData: DashboardStats{ByType: map[string]int{}},
	}

	// Create status text view
	dv.status = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	dv.status.SetBorder(true).SetTitle(" Status ")

	// Create stats text view
	dv.stats = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	dv.stats.SetBorder(true).SetTitle(" Statistics ")

	// Create menu list
	dv.menu = tview.NewList().
		AddItem("Chat Console", "Ask questions about uploaded documents", '1', func() {
			owner.pages.SwitchToPage("chat")
		}).
		AddItem("Documents", "Upload and manage documents", '2', func() {
			owner.pages.SwitchToPage("documents")
		}).
		AddItem("Projects", "Manage projects and releases", '3', func() {
			owner.pages.SwitchToPage("projects")
		}).
		AddItem("Settings", "View application settings", '4', func() {
			owner.pages.SwitchToPage("settings")
		}).
		AddItem("Quit", "Press to exit", 'q', func() {
			owner.Stop()
		})
	dv.menu.SetBorder(true).SetTitle(" Navigation ")

	// Create main flex layout
	dv.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(dv.status, 3, 0, false).
		AddItem(
			tview.NewFlex().
				AddItem(dv.stats, 0, 1, false).
				AddItem(dv.menu, 0, 1, true),
			0, 1, true,
		)

	// Update stats periodically
	go dv.updateStatsLoop()

	return dv
}

// GetPrimitive returns the tview primitive
func (dv *DashboardView) GetPrimitive() tview.Primitive {
	return dv.flex
}

// updateStatsLoop updates statistics periodically
func (dv *DashboardView) updateStatsLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	dv.updateStats()
	dv.owner.app.QueueUpdateDraw(func() { dv.render() })

	for range ticker.C {
		dv.updateStats()
		dv.owner.app.QueueUpdateDraw(func() { dv.render() })
	}
}

// updateStats fetches current statistics from the backend
func (dv *DashboardView) updateStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats := DashboardStats{
		ByType:        map[string]int{},
		ActiveUploads: dv.owner.coordinator.ActivePolls(),
	}

	docs, err := dv.owner.client.ListDocuments(ctx)
	if err != nil {
		stats.Reachable = false
		stats.LastError = err.Error()
		dv.statsData = stats
		return
	}

	stats.Reachable = true
	stats.TotalDocuments = len(docs)
	for _, doc := range docs {
		stats.TotalSize += doc.FileSize
		stats.ByType[doc.FileType]++
	}

	dv.statsData = stats
}

// render updates the display
func (dv *DashboardView) render() {
	// Update status
	if dv.statsData.Reachable {
		dv.status.SetText(fmt.Sprintf("[green]●[white] Connected to %s", dv.owner.cfg.API.BaseURL))
	} else {
		text := fmt.Sprintf("[red]●[white] Backend unreachable (%s)", dv.owner.cfg.API.BaseURL)
		if dv.statsData.LastError != "" {
			text += fmt.Sprintf(" [gray]%s", dv.statsData.LastError)
		}
		dv.status.SetText(text)
	}

	// Update stats
	statsText := fmt.Sprintf(`Documents: [yellow]%d[white]
Total size: [yellow]%s[white]
Active uploads: [yellow]%d[white]`,
		dv.statsData.TotalDocuments,
		upload.FormatFileSize(dv.statsData.TotalSize),
		dv.statsData.ActiveUploads,
	)
	for fileType, count := range dv.statsData.ByType {
		statsText += fmt.Sprintf("\n  %s: [yellow]%d[white]", fileType, count)
	}
	dv.stats.SetText(statsText)
}
