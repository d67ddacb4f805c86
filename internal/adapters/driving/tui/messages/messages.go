// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the scenario form and treaty results.
	ViewSearch
	// ViewBriefing shows a generated briefing.
	ViewBriefing
	// ViewIndex shows index statistics and parse warnings.
	ViewIndex
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings shows and edits retrieval and evaluation settings.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewBriefing:
		return "briefing"
	case ViewIndex:
		return "index"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SearchCompleted carries retrieval results back to the model.
type SearchCompleted struct {
	Result domain.RetrievalResult
	Err    error
}

// BriefingRequested asks the app to generate a briefing for a scenario.
type BriefingRequested struct {
	Query domain.RetrievalQuery
}

// BriefingCompleted carries a generated briefing.
type BriefingCompleted struct {
	Briefing *domain.Briefing
	Err      error
}

// StatsLoaded carries index statistics once the index is ready.
type StatsLoaded struct {
	Stats domain.IndexStats
	Err   error
}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved is sent after a setting changes. Settings holds the
// reloaded values when the save succeeded.
type SettingsSaved struct {
	Settings *domain.AppSettings
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
