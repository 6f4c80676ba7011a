// ABOUTME: Entry point for the pacify-defy CLI
// ABOUTME: All behavior lives in the commands package
package main

import "github.com/pacify-defy/pacify-defy/cmd/pacify-defy/commands"

func main() {
	commands.Execute()
}
