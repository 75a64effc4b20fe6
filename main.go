// Command channelwatch is the entry point for the channel watcher service.
package main

import "channelwatch/cmd"

func main() {
	cmd.Execute()
}
