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

// ChatView handles the chat interface using tview
type ChatView struct {
	app      *App
	flex     *tview.Flex
	messages *tview.TextView
	input    *tview.TextArea

	messagesData []Message
	loading      bool
}

// Message represents a chat message
type Message struct {
	Role      string
	Content   string
	Sources   []api.SourceReference
	Streaming bool
}

// NewChatView creates a new chat view
func NewChatView(app *App) *ChatView {
	cv := &ChatView{
		app:          app,
		messagesData: []Message{},
	}

	// Create messages text view
	cv.messages = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetScrollable(true)
	cv.messages.SetBorder(true).SetTitle(" Chat ")

	// Create input text area (supports multi-line and wrapping)
	cv.input = tview.NewTextArea().
		SetPlaceholder("Ask about your documents... (Ctrl+Enter to send)").
		SetWrap(true)

	// Handle Ctrl+Enter to send message
	cv.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter && event.Modifiers()&tcell.ModCtrl != 0 {
			cv.sendMessage()
			return nil
		}
		return event
	})

	// Create main flex layout
	cv.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(cv.messages, 0, 1, false).
		AddItem(cv.input, 3, 0, true)

	return cv
}

// GetPrimitive returns the tview primitive
func (cv *ChatView) GetPrimitive() tview.Primitive {
	return cv.flex
}

// sendMessage sends a message and streams the response
func (cv *ChatView) sendMessage() {
	userMsg := cv.input.GetText()
	if strings.TrimSpace(userMsg) == "" || cv.loading {
		return
	}

	// Clear input
	cv.input.SetText("", false)
	cv.loading = true

	// Add user message
	cv.messagesData = append(cv.messagesData, Message{
		Role:    "user",
		Content: userMsg,
	})

	// Add placeholder for the streaming assistant message
	cv.messagesData = append(cv.messagesData, Message{
		Role:      "assistant",
		Streaming: true,
	})
	cv.renderMessages()

	// Stream the response asynchronously
	go cv.streamResponse(userMsg)
}

// streamResponse streams the assistant's answer into the last message
func (cv *ChatView) streamResponse(userMsg string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	req := api.ChatRequest{
		UserMessage: userMsg,
		SessionID:   cv.app.sessionID,
	}

	cv.app.client.StreamChatMessage(ctx, req,
		func(chunk string) {
			cv.app.app.QueueUpdateDraw(func() {
				last := &cv.messagesData[len(cv.messagesData)-1]
				last.Content += chunk
				cv.renderMessages()
			})
		},
		func() {
			cv.app.app.QueueUpdateDraw(func() {
				last := &cv.messagesData[len(cv.messagesData)-1]
				last.Streaming = false
				cv.loading = false
				cv.renderMessages()
			})
		},
		func(errMsg string) {
			cv.app.app.QueueUpdateDraw(func() {
				last := &cv.messagesData[len(cv.messagesData)-1]
				last.Content = fmt.Sprintf("[red]Error: %s", errMsg)
				last.Streaming = false
				cv.loading = false
				cv.renderMessages()
			})
		},
		func(sources []map[string]any) {
			refs := api.MapSources(sources)
			cv.app.app.QueueUpdateDraw(func() {
				last := &cv.messagesData[len(cv.messagesData)-1]
				last.Sources = refs
				cv.renderMessages()
			})
		},
	)
}

// renderMessages updates the messages display
func (cv *ChatView) renderMessages() {
	var lines []string
	for _, msg := range cv.messagesData {
		if msg.Role == "user" {
			lines = append(lines, fmt.Sprintf("[cyan]You: %s[white]", msg.Content))
			continue
		}

		content := cv.formatMarkdown(msg.Content)
		if msg.Streaming && msg.Content == "" {
			content = "[yellow]Thinking..."
		}
		lines = append(lines, fmt.Sprintf("[white]AI: %s[white]", content))

		if len(msg.Sources) > 0 && !msg.Streaming {
			lines = append(lines, "")
			lines = append(lines, fmt.Sprintf("[yellow]Sources (%d):[white]", len(msg.Sources)))
			for _, src := range msg.Sources {
				lines = append(lines, formatSource(src))
			}
		}
	}
	cv.messages.SetText(strings.Join(lines, "\n"))
	cv.messages.ScrollToEnd()
}

// formatSource renders one source reference line
func formatSource(src api.SourceReference) string {
	detail := fmt.Sprintf("%.0f%%", src.Confidence*100)
	if src.Page > 0 {
		detail = fmt.Sprintf("p.%d, %s", src.Page, detail)
	}
	return fmt.Sprintf("  [gray]- %s (%s)[white]", src.Document, detail)
}

// formatMarkdown converts markdown syntax to tview color codes
func (cv *ChatView) formatMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var formatted []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "### "),
			strings.HasPrefix(trimmed, "## "),
			strings.HasPrefix(trimmed, "# "):
			header := strings.TrimLeft(trimmed, "# ")
			formatted = append(formatted, fmt.Sprintf("[yellow]%s[white]", header))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			bullet := strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
			formatted = append(formatted, fmt.Sprintf("  [gray]•[white] %s", processBold(bullet)))
		default:
			formatted = append(formatted, processBold(line))
		}
	}

	return strings.Join(formatted, "\n")
}

// processBold converts **bold** markdown to [yellow]bold[white] tview format
func processBold(text string) string {
	var result strings.Builder
	i := 0
	boldOpen := false

	for i < len(text) {
		if i < len(text)-1 && text[i] == '*' && text[i+1] == '*' {
			if boldOpen {
				result.WriteString("[white]")
			} else {
				result.WriteString("[yellow]")
			}
			boldOpen = !boldOpen
			i += 2
		} else {
			result.WriteByte(text[i])
			i++
		}
	}

	if boldOpen {
		result.WriteString("[white]")
	}

	return result.String()
}
