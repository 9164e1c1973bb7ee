package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/rosterkeeper/internal/client/client"
	"github.com/dmitrijs2005/rosterkeeper/internal/client/config"
	"github.com/dmitrijs2005/rosterkeeper/internal/client/services"
)

type App struct {
	config   *config.Config
	verifier services.VerifierService
}

func NewApp(c *config.Config) *App {
	apiClient := client.NewRosterClient(c.ServerEndpointAddr, c.RequestTimeout)
	vs := services.NewVerifierService(apiClient)

	return &App{config: c, verifier: vs}
}

// Run starts the interactive loop and blocks until the user exits or stdin
// reaches EOF.
func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.verifier.Close() }()

	printlnFn("Roster verifier CLI (type 'help' for commands)")
	printlnFn("Server:", a.config.ServerEndpointAddr)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, scanner)
}
