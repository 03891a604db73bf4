package screen

// DueCountMsg tells the app how many items are due, for the header.
type DueCountMsg struct {
	Due int
}
