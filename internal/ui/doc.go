// Package ui renders command lifecycle events for people watching the console.
//
// Structured diagnostics keep flowing through the executor's logger; the
// console logger here only receives the short, plain-language lines.
package ui
