package main

// activateMsg asks the app to show the named module.
type activateMsg struct {
	name string
}
