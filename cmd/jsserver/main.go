// Command jsserver type-checks JSON-encoded scripting-language programs and
// can serve the same inference engine over the language server protocol.
package main

import "github.com/pjlast/jsserver/cmd/jsserver/commands"

func main() {
	commands.Execute()
}
