package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rivo/tview"

	"github.com/qadesk/cli/config"
	"github.com/qadesk/cli/internal/api"
	"github.com/qadesk/cli/internal/upload"
)

// App represents the main TUI application using tview
type App struct {
	app         *tview.Application
	pages       *tview.Pages
	client      *api.Client
	coordinator *upload.Coordinator
	cfg         *config.Config
	sessionID   string

	// Views
	dashboardView *DashboardView
	chatView      *ChatView
	documentsView *DocumentsView
	projectsView  *ProjectsView
	settingsView  *SettingsView
}

// NewApp creates a new TUI application
func NewApp(cfg *config.Config) (*App, error) {
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token)

	coordinator := upload.NewCoordinator(
		client,
		cfg.API.UploadedBy,
		upload.WithPollInterval(time.Duration(cfg.Upload.PollIntervalSeconds)*time.Second),
		upload.WithMaxRetries(cfg.Upload.MaxRetries),
		upload.WithFallback(upload.NewSimulator()),
	)

	app := &App{
		client:      client,
		coordinator: coordinator,
		cfg:         cfg,
		sessionID:   uuid.NewString(),
	}

	// Initialize tview application
	app.app = tview.NewApplication()
	app.pages = tview.NewPages()

	// Initialize views
	app.dashboardView = NewDashboardView(app)
	app.chatView = NewChatView(app)
	app.documentsView = NewDocumentsView(app)
	app.projectsView = NewProjectsView(app)
	app.settingsView = NewSettingsView(app)

	// Add pages
	app.pages.AddPage("dashboard", app.dashboardView.GetPrimitive(), true, true)
	app.pages.AddPage("chat", app.chatView.GetPrimitive(), true, false)
	app.pages.AddPage("documents", app.documentsView.GetPrimitive(), true, false)
	app.pages.AddPage("projects", app.projectsView.GetPrimitive(), true, false)
	app.pages.AddPage("settings", app.settingsView.GetPrimitive(), true, false)

	// Set root
	app.app.SetRoot(app.pages, true).SetFocus(app.pages)

	// Set focus to chat input when switching to chat page
	app.pages.SetChangedFunc(func() {
		name, _ := app.pages.GetFrontPage()
		if name == "chat" {
			app.app.SetFocus(app.chatView.input)
		}
	})

	// Set up global key handlers
	app.setupGlobalKeys()

	return app, nil
}

// setupGlobalKeys sets up global keyboard shortcuts
func (a *App) setupGlobalKeys() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		name, _ := a.pages.GetFrontPage()

		// Pages with free-text input handle their own keys; only intercept
		// Esc and Ctrl+C there
		if name == "chat" || name == "settings" || name == "projects" || name == "upload" || name == "projectform" {
			switch event.Key() {
			case tcell.KeyCtrlC:
				a.Stop()
				return nil
			case tcell.KeyEsc:
				a.pages.SwitchToPage("dashboard")
				return nil
			}
			return event
		}

		switch event.Key() {
		case tcell.KeyCtrlC:
			a.Stop()
			return nil
		case tcell.KeyEsc:
			if name == "dashboard" {
				a.Stop()
				return nil
			}
			// Return to dashboard
			a.pages.SwitchToPage("dashboard")
			return nil
		}

		// Number keys for navigation (only when not in an input field)
		switch event.Rune() {
		case '0':
			a.pages.SwitchToPage("dashboard")
			return nil
		case '1':
			a.pages.SwitchToPage("chat")
			return nil
		case '2':
			a.pages.SwitchToPage("documents")
			return nil
		case '3':
			a.pages.SwitchToPage("projects")
			return nil
		case '4':
			a.pages.SwitchToPage("settings")
			return nil
		}

		return event
	})
}

// Stop cancels active uploads and exits the application
func (a *App) Stop() {
	a.coordinator.CancelAllUploads()
	a.app.Stop()
}

// Run starts the TUI application
func (a *App) Run() error {
	defer a.coordinator.CancelAllUploads()
	return a.app.Run()
}
