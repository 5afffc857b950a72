package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which secondary columns are hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show borrower names.
	LayoutWideWidth = 130
)

// Timing constants.
const (
	// DefaultFetchTimeout bounds every request issued from the UI.
	DefaultFetchTimeout = 10 * time.Second

	// FlashDuration is how long a status message stays in the header.
	FlashDuration = 5 * time.Second

	// DefaultUIInterval is the clock tick that refreshes relative dates and
	// expires flash messages.
	DefaultUIInterval = time.Second
)

// chromeHeight is the number of rows taken by the header and command bar.
const chromeHeight = 2
