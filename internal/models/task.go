package models

// Task is a single to-do entry, stored as a child of its owner's user document.
type Task struct {
	// ID is the document ID assigned by the store. Not used for matching.
	ID string

	// Label is a short free-form category (e.g., "home", "work").
	Label string

	// Item is the task headline. Required.
	Item string

	// FullDescription is the optional long-form text.
	FullDescription string
}
