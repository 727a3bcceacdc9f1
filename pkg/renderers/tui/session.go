// Package tui drives the list from an interactive prompt session. Every
// action is turned into DOM events dispatched on the mounted tree, so the
// list reacts exactly as it does in a browser.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-todolist/internal/logging"
	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/render"
	"github.com/goliatone/go-todolist/pkg/renderers/text"
	"github.com/goliatone/go-todolist/pkg/todo"
	"github.com/goliatone/go-todolist/pkg/widget"
)

// Menu entries, in display order.
const (
	ActionAdd    = "Add item"
	ActionToggle = "Toggle item"
	ActionDelete = "Delete item"
	ActionQuit   = "Quit"
)

// Actions lists the main menu.
var Actions = []string{ActionAdd, ActionToggle, ActionDelete, ActionQuit}

// Session runs the prompt loop for one mounted list.
type Session struct {
	list     *widget.List
	doc      *dom.Document
	driver   PromptDriver
	renderer render.Renderer
	theme    Theme
	logger   *log.Logger
}

// NewSession mounts list into a fresh document and prepares the loop. The
// survey driver is used unless WithPromptDriver says otherwise.
func NewSession(list *widget.List, opts ...Option) (*Session, error) {
	if list == nil {
		return nil, errors.New("tui: list is required")
	}
	s := &Session{
		list:     list,
		doc:      dom.NewDocument(),
		renderer: text.New(),
		theme:    Theme{InfoPrefix: "", ErrorPrefix: "! "},
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	list.Mount(s.doc)
	s.doc.Ready()
	return s, nil
}

// Document returns the document the list is mounted in.
func (s *Session) Document() *dom.Document { return s.doc }

// Run shows the list and the menu until the user quits. It returns nil on
// Quit and ErrAborted when the user interrupts a prompt.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.show(ctx); err != nil {
			return err
		}
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message: "What next?",
			Options: Actions,
		})
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(Actions) {
			return fmt.Errorf("tui: invalid menu choice %d", choice)
		}

		action := Actions[choice]
		s.logger.Debug("prompt action", "action", action)
		switch action {
		case ActionAdd:
			err = s.add(ctx)
		case ActionToggle:
			err = s.toggle(ctx)
		case ActionDelete:
			err = s.remove(ctx)
		case ActionQuit:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) show(ctx context.Context) error {
	out, err := s.renderer.Render(ctx, s.list.Node(), render.RenderOptions{})
	if err != nil {
		return fmt.Errorf("tui: render list: %w", err)
	}
	return s.driver.Info(ctx, string(out))
}

func (s *Session) add(ctx context.Context) error {
	value, err := s.driver.Input(ctx, InputConfig{Message: "New item"})
	if err != nil {
		return err
	}
	if err := s.dispatch(ctx, widget.IDInput, &dom.Event{Type: dom.EventInput, Value: value}); err != nil {
		return err
	}
	before := s.list.State().Len()
	if err := s.dispatch(ctx, widget.IDAddButton, &dom.Event{Type: dom.EventClick}); err != nil {
		return err
	}
	if s.list.State().Len() == before {
		return s.driver.Info(ctx, s.theme.ErrorPrefix+"Nothing to add")
	}
	return nil
}

func (s *Session) toggle(ctx context.Context) error {
	item, ok, err := s.pick(ctx, "Toggle which item?")
	if err != nil || !ok {
		return err
	}
	return s.dispatch(ctx, widget.ToggleID(item.ID), &dom.Event{
		Type:    dom.EventChange,
		Checked: !item.Completed,
	})
}

func (s *Session) remove(ctx context.Context) error {
	item, ok, err := s.pick(ctx, "Delete which item?")
	if err != nil || !ok {
		return err
	}
	click := func() error {
		return s.dispatch(ctx, widget.DeleteID(item.ID), &dom.Event{Type: dom.EventClick})
	}
	if !s.list.ConfirmDelete() {
		return click()
	}

	// first click arms the button unless a previous click already did
	if !item.ConfirmDelete {
		if err := click(); err != nil {
			return err
		}
		if err := s.show(ctx); err != nil {
			return err
		}
	}
	confirmed, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Delete %q?", item.Name),
	})
	if err != nil {
		return err
	}
	if confirmed {
		return click()
	}
	_, err = s.list.CancelDelete(ctx, item.ID)
	return err
}

func (s *Session) pick(ctx context.Context, message string) (todo.Item, bool, error) {
	state := s.list.State()
	if state.Len() == 0 {
		return todo.Item{}, false, s.driver.Info(ctx, s.theme.InfoPrefix+"The list is empty")
	}
	options := make([]string, 0, state.Len())
	for _, item := range state.Items {
		box := "[ ]"
		if item.Completed {
			box = "[x]"
		}
		options = append(options, box+" "+item.Name)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return todo.Item{}, false, err
	}
	if idx < 0 || idx >= len(state.Items) {
		return todo.Item{}, false, fmt.Errorf("tui: invalid item choice %d", idx)
	}
	return state.Items[idx], true, nil
}

func (s *Session) dispatch(ctx context.Context, id string, ev *dom.Event) error {
	target := s.doc.ElementByID(id)
	if target == nil {
		return fmt.Errorf("%w: #%s", ErrTargetMissing, id)
	}
	target.Dispatch(ev.WithContext(ctx))
	return nil
}
