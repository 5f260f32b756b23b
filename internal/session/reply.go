package session

// Button is a single inline keyboard button attached to a reply.
// Data is the callback token sent back when the button is pressed.
type Button struct {
	Label string
	Data  string
}

// Reply is the outbound answer produced by a state handler or command:
// display text plus an ordered list of inline buttons.
type Reply struct {
	Text    string
	Buttons []Button
}
