// Package controller mediates between presentation-layer commands and the
// contact store.
//
// The Controller holds two pieces of state:
//   - the contact list mirror (property "ContactsInfo"), shown by the list view
//   - the current item (property "CurrentItem"), the contact being created or
//     edited
//
// and exposes five commands that map 1:1 to user actions: CreateNew,
// SelectForEdit, SaveNew, SaveEdit and DeleteCurrent.
//
// # Refresh policy
//
// Commands never edit the list mirror. The presentation layer calls Refresh
// whenever the list view becomes visible, which reloads the whole table.
// The store stays the only source of truth.
//
// # Failures
//
// When a store call fails the command returns the error, records it as
// LastError (property "LastError") and does not navigate, so the user stays
// on the edit view with the error shown. A successful command clears
// LastError.
//
// Navigation goes through an injected Navigator; the controller never
// reaches for global application state.
package controller
