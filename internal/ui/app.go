package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"SlideBoard/internal/export"
	"SlideBoard/internal/session"
	"SlideBoard/internal/state"
)

type Options struct {
	Title   string
	Role    session.Role
	Session *session.Session
	Relay   string // shown in the status bar
	// Start launches the session and its transport. It runs after the window
	// is wired to the session, before the event loop.
	Start func()
}

// Run opens the client window and blocks until it is closed or ctx ends.
func Run(ctx context.Context, o Options) {
	a := app.New()
	w := a.NewWindow(o.Title)
	w.Resize(fyne.NewSize(1024, 640))

	post := func(cmd any) {
		select {
		case o.Session.Inbox <- cmd:
		default:
			slog.Debug("session busy, dropping ui event", "command", fmt.Sprintf("%T", cmd))
		}
	}

	board := NewBoardWidget(post, o.Role == session.RoleTablet)
	status := widget.NewLabel(statusText(o.Relay, session.Status{Zoom: 1}))

	var top fyne.CanvasObject
	var bar *toolbar
	if o.Role == session.RoleTablet {
		bar = newToolbar(w, post, func() { exportBoards(w, post) })
		top = bar.object
	}

	o.Session.OnFrame = board.SetFrame
	o.Session.OnStatus = func(st session.Status) {
		fyne.Do(func() {
			status.SetText(statusText(o.Relay, st))
			board.SetZoom(st.Zoom)
			if bar != nil {
				bar.apply(st)
			}
		})
	}

	w.SetContent(container.NewBorder(top, status, nil, nil, board))

	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()
	if o.Start != nil {
		o.Start()
	}
	w.ShowAndRun()
}

func statusText(relay string, st session.Status) string {
	return fmt.Sprintf("Board %s  |  %s %s", boardText(st.Board), relay, st.Link)
}

// exportBoards asks the session for a copy of every board and saves it as a
// PDF where the user picks.
func exportBoards(w fyne.Window, post func(any)) {
	reply := make(chan *state.Store, 1)
	post(session.Snapshot{Reply: reply})

	var boards *state.Store
	select {
	case boards = <-reply:
	case <-time.After(2 * time.Second):
		dialog.ShowError(errors.New("the board is busy, try again"), w)
		return
	}

	save := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if wc == nil {
			return
		}
		go func() {
			pages, err := export.WritePDF(wc, boards)
			if cerr := wc.Close(); err == nil {
				err = cerr
			}
			fyne.Do(func() {
				if err != nil {
					slog.Warn("pdf export failed", "error", err)
					dialog.ShowError(err, w)
					return
				}
				slog.Info("pdf exported", "pages", pages, "uri", wc.URI().String())
				dialog.ShowInformation("Export", fmt.Sprintf("Saved %d page(s).", pages), w)
			})
		}()
	}, w)
	save.SetFileName("slideboard.pdf")
	save.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	save.Show()
}
