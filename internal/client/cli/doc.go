// Package cli is the terminal front end of the notification client.
//
// The REPL renders the current screen of the state machine and maps each
// input line to one of the actions the screen offers. On the login and
// channel screens a line that is not a command fills the current field and
// an empty line submits it.
//
// The REPL is started via App.Run(ctx, in), which blocks until the user
// exits or input ends.
package cli
