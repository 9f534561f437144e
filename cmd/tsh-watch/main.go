// Command tsh-watch shows a live view of a tsh session's jobs through its
// status API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattjoyce/tsh/internal/config"
	"github.com/mattjoyce/tsh/internal/tui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("tsh-watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "tsh configuration file (for api.listen and api.token)")
	addr := fs.String("addr", "", "API address, overrides the config (host:port)")
	token := fs.String("token", "", "API bearer token, overrides the config")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	model, err := newModel(*configPath, *addr, *token)
	if err != nil {
		fmt.Fprintf(stderr, "tsh-watch: %v\n", err)
		return 1
	}

	if _, err := tea.NewProgram(model).Run(); err != nil {
		fmt.Fprintf(stderr, "tsh-watch: %v\n", err)
		return 1
	}
	return 0
}

func newModel(configPath, addr, token string) (tui.Model, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return tui.Model{}, err
	}
	if addr == "" {
		addr = cfg.API.Listen
	}
	if token == "" {
		token = cfg.API.Token
	}
	return tui.New(tui.NewClient("http://"+addr, token)), nil
}
