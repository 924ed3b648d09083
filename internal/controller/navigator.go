package controller

import "context"

// View identifies a screen the presentation layer can show.
type View int

const (
	// ViewList is the contact list.
	ViewList View = iota + 1
	// ViewEdit is the create/edit form bound to the current item.
	ViewEdit
)

// String returns the view name used in logs.
func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Navigator moves the presentation layer between views.
type Navigator interface {
	// Push shows v on top of the current view.
	Push(ctx context.Context, v View) error
	// Pop returns to the previous view.
	Pop(ctx context.Context) error
}
