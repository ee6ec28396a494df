// FilePath: cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	nuts "github.com/vaudience/go-nuts"

	"github.com/connectedsmarties/hub/internal/config"
	"github.com/connectedsmarties/hub/internal/server"
)

func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting ConnectedSmarties Hub v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"   _____                      __  _          ",
		"  / ___/____ ___  ____ ______/ /_(_)__  _____",
		"  \\__ \\/ __ `__ \\/ __ `/ ___/ __/ / _ \\/ ___/",
		" ___/ / / / / / / /_/ / /  / /_/ /  __(__  ) ",
		"/____/_/ /_/ /_/\\__,_/_/   \\__/_/\\___/____/  ",
		"...........................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}
