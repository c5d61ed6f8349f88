package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/qadesk/cli/internal/api"
	"github.com/qadesk/cli/internal/upload"
)

// DocumentsView manages remote documents using tview
type DocumentsView struct {
	app      *tview.Flex
	owner    *App
	list     *tview.List
	info     *tview.TextView
	progress *tview.TextView

	documents []api.Document

	mu       sync.Mutex
	tracked  map[string]upload.Progress
	trackSeq []string
}

// NewDocumentsView creates a new documents view
func NewDocumentsView(owner *App) *DocumentsView {
	dv := &DocumentsView{
		owner:   owner,
		tracked: make(map[string]upload.Progress),
	}

	// Create list for documents
	dv.list = tview.NewList().
		ShowSecondaryText(true).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			dv.showDocumentInfo(index)
		})
	dv.list.SetBorder(true).SetTitle(" Documents ")

	// Create info text view
	dv.info = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	dv.info.SetBorder(true).SetTitle(" Info ")

	// Create upload progress text view
	dv.progress = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	dv.progress.SetBorder(true).SetTitle(" Uploads ")

	// Create main flex layout
	dv.app = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(
			tview.NewFlex().
				AddItem(dv.list, 0, 2, true).
				AddItem(dv.info, 0, 1, false),
			0, 2, true,
		).
		AddItem(dv.progress, 0, 1, false).
		AddItem(
			tview.NewTextView().
				SetText("[yellow]u[white]: Upload | [yellow]d[white]: Delete | [yellow]r[white]: Reload").
				SetDynamicColors(true),
			1, 0, false,
		)

	// Set up input capture
	dv.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'u', 'U':
			dv.promptUpload()
			return nil
		case 'd', 'D':
			dv.deleteSelected()
			return nil
		case 'r', 'R':
			dv.reloadDocuments()
			return nil
		}
		return event
	})

	// Load documents
	dv.reloadDocuments()

	return dv
}

// GetPrimitive returns the tview primitive
func (dv *DocumentsView) GetPrimitive() tview.Primitive {
	return dv.app
}

// reloadDocuments reloads the document list from the backend
func (dv *DocumentsView) reloadDocuments() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		docs, err := dv.owner.client.ListDocuments(ctx)
		dv.owner.app.QueueUpdateDraw(func() {
			if err != nil {
				dv.info.SetText(fmt.Sprintf("[red]Error loading documents: %v", err))
				return
			}
			dv.documents = docs
			dv.list.Clear()

			for i, doc := range docs {
				mainText := fmt.Sprintf("%d. %s", i+1, doc.Name)
				secondaryText := fmt.Sprintf("%s | %s | %s",
					doc.FileType,
					upload.FormatFileSize(doc.FileSize),
					doc.UploadedBy,
				)
				dv.list.AddItem(mainText, secondaryText, 0, nil)
			}

			if len(docs) == 0 {
				dv.info.SetText("[yellow]No documents found. Press 'u' to upload a document.")
				return
			}
			selected := dv.list.GetCurrentItem()
			if selected >= 0 && selected < len(docs) {
				dv.showDocumentInfo(selected)
			} else {
				dv.info.SetText(fmt.Sprintf("[white]Total: %d documents", len(docs)))
			}
		})
	}()
}

// showDocumentInfo displays information about the selected document
func (dv *DocumentsView) showDocumentInfo(index int) {
	if index < 0 || index >= len(dv.documents) {
		return
	}

	doc := dv.documents[index]
	var infoText strings.Builder
	infoText.WriteString(fmt.Sprintf("[white]File: [yellow]%s[white]\n", doc.Name))
	infoText.WriteString(fmt.Sprintf("Type: [cyan]%s[white]\n", doc.FileType))
	infoText.WriteString(fmt.Sprintf("Size: [cyan]%s[white]\n", upload.FormatFileSize(doc.FileSize)))
	infoText.WriteString(fmt.Sprintf("Uploaded by: [cyan]%s[white]\n", doc.UploadedBy))
	infoText.WriteString(fmt.Sprintf("Uploaded: [gray]%s[white]\n", doc.UploadDate))
	infoText.WriteString(fmt.Sprintf("Path: [gray]%s[white]", doc.FilePath))

	dv.info.SetText(infoText.String())
}

// deleteSelected deletes the selected document
func (dv *DocumentsView) deleteSelected() {
	selected := dv.list.GetCurrentItem()
	if selected < 0 || selected >= len(dv.documents) {
		return
	}

	doc := dv.documents[selected]
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := dv.owner.client.DeleteDocument(ctx, doc.ID)
		dv.owner.app.QueueUpdateDraw(func() {
			if err != nil {
				dv.info.SetText(fmt.Sprintf("[red]Error deleting document: %v", err))
				return
			}
			dv.info.SetText("[green]Document deleted successfully!")
		})
		dv.reloadDocuments()
	}()
}

// promptUpload shows a small form asking for file paths to upload
func (dv *DocumentsView) promptUpload() {
	var paths string
	form := tview.NewForm().
		AddInputField("File paths (comma separated)", "", 0, nil, func(text string) {
			paths = text
		}).
		AddButton("Upload", func() {
			dv.owner.pages.RemovePage("upload")
			dv.owner.pages.SwitchToPage("documents")
			dv.startUpload(paths)
		}).
		AddButton("Cancel", func() {
			dv.owner.pages.RemovePage("upload")
			dv.owner.pages.SwitchToPage("documents")
		})
	form.SetBorder(true).SetTitle(" Upload Documents ")

	dv.owner.pages.AddPage("upload", modal(form, 70, 9), true, true)
	dv.owner.app.SetFocus(form)
}

// startUpload validates and uploads the given paths with live progress
func (dv *DocumentsView) startUpload(raw string) {
	var files []upload.File
	for _, part := range strings.Split(raw, ",") {
		path := strings.TrimSpace(part)
		if path == "" {
			continue
		}
		file, err := upload.FromPath(path)
		if err != nil {
			dv.info.SetText(fmt.Sprintf("[red]%v", err))
			return
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return
	}

	infos := make([]upload.FileInfo, len(files))
	for i, f := range files {
		infos[i] = f.Info()
	}
	if err := upload.Validate(infos); err != nil {
		dv.info.SetText(fmt.Sprintf("[red]%v", err))
		return
	}

	go func() {
		_, err := dv.owner.coordinator.UploadFiles(context.Background(), files, dv.onProgress)
		dv.owner.app.QueueUpdateDraw(func() {
			if err != nil {
				dv.info.SetText(fmt.Sprintf("[red]Upload failed: %v", err))
				return
			}
			dv.info.SetText("[green]Upload accepted, processing on server...")
		})
		dv.reloadDocuments()
	}()
}

// onProgress records a progress snapshot and refreshes the uploads pane.
// Snapshots arrive from upload and polling goroutines.
func (dv *DocumentsView) onProgress(p upload.Progress) {
	dv.mu.Lock()
	if _, ok := dv.tracked[p.FileID]; !ok {
		dv.trackSeq = append(dv.trackSeq, p.FileID)
	}
	dv.tracked[p.FileID] = p
	dv.mu.Unlock()

	dv.owner.app.QueueUpdateDraw(func() {
		dv.renderProgress()
		if p.Stage == api.StageCompleted {
			dv.reloadDocuments()
		}
	})
}

// renderProgress redraws the uploads pane from tracked snapshots
func (dv *DocumentsView) renderProgress() {
	dv.mu.Lock()
	snapshots := make([]upload.Progress, 0, len(dv.trackSeq))
	for _, id := range dv.trackSeq {
		snapshots = append(snapshots, dv.tracked[id])
	}
	dv.mu.Unlock()

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].FileName < snapshots[j].FileName
	})

	var lines []string
	for _, p := range snapshots {
		lines = append(lines, formatProgressLine(p))
	}
	if len(lines) == 0 {
		dv.progress.SetText("No active uploads")
		return
	}
	dv.progress.SetText(strings.Join(lines, "\n"))
}

// formatProgressLine renders one upload's current stage
func formatProgressLine(p upload.Progress) string {
	color := "[yellow]"
	switch p.Stage {
	case api.StageCompleted:
		color = "[green]"
	case api.StageError:
		color = "[red]"
	}

	line := fmt.Sprintf("%s%s[white] %s %3d%% %s", color, p.Stage, progressBar(p.Percent), p.Percent, p.FileName)
	if p.Message != "" {
		line += fmt.Sprintf(" [gray]%s[white]", p.Message)
	}
	if p.Err != "" {
		line += fmt.Sprintf(" [red]%s[white]", p.Err)
	}
	return line
}

// progressBar creates a text-based progress bar
func progressBar(percent int) string {
	width := 20
	filled := percent * width / 100
	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}
	return bar.String()
}

// modal centers a primitive inside a fixed-size box
func modal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(
			tview.NewFlex().SetDirection(tview.FlexRow).
				AddItem(nil, 0, 1, false).
				AddItem(p, height, 1, true).
				AddItem(nil, 0, 1, false),
			width, 1, true,
		).
		AddItem(nil, 0, 1, false)
}
