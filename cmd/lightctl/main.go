package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"smartlight/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "base URL of the lightd server")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}
	p := tea.NewProgram(tui.NewModel(*server, client))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "lightctl:", err)
		os.Exit(1)
	}
}
