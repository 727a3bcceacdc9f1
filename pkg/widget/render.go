package widget

import (
	"github.com/goliatone/go-todolist/pkg/dom"
	"github.com/goliatone/go-todolist/pkg/todo"
)

// Element ids and classes of the rendered tree.
const (
	ClassRoot      = "todo-list"
	ClassAddTodo   = "add-todo"
	ClassCompleted = "completed"
	ClassDelete    = "todo-delete"
	ClassArmed     = "armed"
	IDInput        = "new-todo"
	IDAddButton    = "add-btn"
	IDItems        = "todos"
)

// ToggleID returns the element id of an item's checkbox.
func ToggleID(itemID string) string { return "toggle-" + itemID }

// DeleteID returns the element id of an item's delete button.
func DeleteID(itemID string) string { return "delete-" + itemID }

type row struct {
	item todo.Item
	node *dom.Node
}

// Render builds a fresh tree from the current state.
func (l *List) Render() *dom.Node {
	return dom.CreateElement("div", dom.Attributes{"class": ClassRoot}, []any{
		dom.CreateElement("h1", nil, l.opts.heading, nil),
		l.renderAddTodo(),
		dom.CreateElement("ul", dom.Attributes{"id": IDItems}, l.renderRows(), nil),
	}, nil)
}

func (l *List) renderAddTodo() *dom.Node {
	input := dom.CreateElement("input", dom.Attributes{
		"id":           IDInput,
		"type":         "text",
		"placeholder":  l.opts.placeholder,
		"value":        l.state.PendingInput,
		"autocomplete": "off",
	}, nil, dom.Events{
		dom.EventInput: l.onInput,
	})
	button := dom.CreateElement("button", dom.Attributes{
		"id":   IDAddButton,
		"type": "button",
	}, l.opts.addLabel, dom.Events{
		dom.EventClick: l.onAdd,
	})
	return dom.CreateElement("div", dom.Attributes{"class": ClassAddTodo}, []*dom.Node{input, button}, nil)
}

func (l *List) renderRows() []*dom.Node {
	rows := make([]*dom.Node, 0, len(l.state.Items))
	if !l.opts.keyedRows {
		for _, item := range l.state.Items {
			rows = append(rows, l.renderRow(item))
		}
		return rows
	}

	keep := make([]string, 0, len(l.state.Items))
	for _, item := range l.state.Items {
		keep = append(keep, item.ID)
		r := l.rows.Get(item.ID, func() *row {
			return &row{item: item, node: l.renderRow(item)}
		})
		if r.item != item {
			r.item = item
			r.node = l.renderRow(item)
		}
		rows = append(rows, r.node)
	}
	l.rows.Retain(keep)
	return rows
}

func (l *List) renderRow(item todo.Item) *dom.Node {
	checkboxAttrs := dom.Attributes{
		"id":      ToggleID(item.ID),
		"type":    "checkbox",
		"data-id": item.ID,
	}
	if item.Completed {
		checkboxAttrs["checked"] = ""
	}
	checkbox := dom.CreateElement("input", checkboxAttrs, nil, dom.Events{
		dom.EventChange: l.onToggle(item.ID),
	})

	labelAttrs := dom.Attributes{"for": ToggleID(item.ID)}
	if item.Completed {
		labelAttrs["class"] = ClassCompleted
	}
	label := dom.CreateElement("label", labelAttrs, item.Name, nil)

	deleteAttrs := dom.Attributes{
		"id":      DeleteID(item.ID),
		"type":    "button",
		"class":   ClassDelete,
		"data-id": item.ID,
	}
	if item.ConfirmDelete {
		deleteAttrs["class"] = ClassDelete + " " + ClassArmed
		deleteAttrs["style"] = "color: " + l.opts.theme.Token(TokenDeleteConfirmColor, "red")
		deleteAttrs["title"] = "Click again to delete"
	}
	del := dom.CreateElement("button", deleteAttrs, l.opts.deleteLabel, dom.Events{
		dom.EventClick: l.onDelete(item.ID),
	})

	return dom.CreateElement("li", dom.Attributes{"data-id": item.ID}, []*dom.Node{checkbox, label, del}, nil)
}

func (l *List) onInput(ev *dom.Event) {
	// errors are logged by commit
	_ = l.SetInput(ev.Context(), ev.Value)
}

func (l *List) onAdd(ev *dom.Event) {
	_, _ = l.Add(ev.Context())
}

func (l *List) onToggle(id string) dom.Handler {
	return func(ev *dom.Event) {
		_, _ = l.Toggle(ev.Context(), id)
	}
}

func (l *List) onDelete(id string) dom.Handler {
	return func(ev *dom.Event) {
		_, _ = l.RequestDelete(ev.Context(), id)
	}
}
