package main

import (
	"runtime"

	"github.com/bryanchriswhite/clipkiosk/cmd/clipkiosk/commands"
)

func init() {
	// SDL and the GL context must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	commands.Execute()
}
