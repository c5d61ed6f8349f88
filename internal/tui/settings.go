package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/tview"
)

// SettingsView displays and allows editing settings using tview
type SettingsView struct {
	owner *App
	flex  *tview.Flex
	form  *tview.Form
	text  *tview.TextView
}

// NewSettingsView creates a new settings view
func NewSettingsView(owner *App) *SettingsView {
	sv := &SettingsView{owner: owner}
	cfg := owner.cfg

	// Create form for editing connection settings
	sv.form = tview.NewForm().
		AddInputField("API base URL", cfg.API.BaseURL, 0, nil, func(text string) {
			cfg.API.BaseURL = strings.TrimSpace(text)
		}).
		AddPasswordField("API token", cfg.API.Token, 0, '*', func(text string) {
			cfg.API.Token = strings.TrimSpace(text)
		}).
		AddInputField("Uploaded by", cfg.API.UploadedBy, 0, nil, func(text string) {
			cfg.API.UploadedBy = text
		}).
		AddInputField("Poll interval (seconds)", strconv.Itoa(cfg.Upload.PollIntervalSeconds), 4, nil, func(text string) {
			if v, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && v > 0 {
				cfg.Upload.PollIntervalSeconds = v
			}
		}).
		AddButton("Save", func() {
			sv.saveSettings()
		})
	sv.form.SetBorder(true).SetTitle(" Connection ")

	// Create info text view
	sv.text = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	sv.text.SetBorder(true).SetTitle(" Current Settings ")

	// Create main flex layout
	sv.flex = tview.NewFlex().
		AddItem(sv.form, 0, 1, true).
		AddItem(sv.text, 0, 1, false)

	sv.render()

	return sv
}

// GetPrimitive returns the tview primitive
func (sv *SettingsView) GetPrimitive() tview.Primitive {
	return sv.flex
}

// saveSettings saves the settings. Connection changes take effect on the
// next start; the running client keeps its current base URL and token.
func (sv *SettingsView) saveSettings() {
	if err := sv.owner.cfg.Save(); err != nil {
		sv.text.SetText(fmt.Sprintf("[red]Error saving settings: %v", err))
		return
	}

	sv.render()
	sv.text.SetText(sv.text.GetText(false) + "\n[green]Settings saved. Restart to apply connection changes.")
}

// render updates the settings display
func (sv *SettingsView) render() {
	cfg := sv.owner.cfg

	token := "(not set)"
	if cfg.API.Token != "" {
		token = "(set)"
	}

	settingsText := fmt.Sprintf(`[white]API:
  Base URL: [cyan]%s[white]
  Token: [cyan]%s[white]
  Uploaded by: [cyan]%s[white]

Upload:
  Poll interval: [cyan]%ds[white]
  Max retries: [cyan]%d[white]

Chat:
  Session: [cyan]%s[white]`,
		cfg.API.BaseURL,
		token,
		cfg.API.UploadedBy,
		cfg.Upload.PollIntervalSeconds,
		cfg.Upload.MaxRetries,
		sv.owner.sessionID,
	)

	sv.text.SetText(settingsText)
}
