package main

import (
	"os"

	"github.com/taskmaster/dashboard/cmd/dashboard/commands"
)

// @title Project Dashboard API
// @version 1.0
// @description Tasks, meetings, projects and team state for the project dashboard

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
