// Package ui holds the confirmation prompts shown before destructive schema
// operations.
package ui
