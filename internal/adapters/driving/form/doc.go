// Package form collects a design request from the terminal.
//
// The form is a bubbletea program with one field per request parameter.
// Cancelling it returns domain.ErrInputCancelled before any request is sent.
package form
