package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/dmitrijs2005/rosterkeeper/internal/export"
)

// formatUser renders one verified record as a single list row.
func formatUser(u export.User) string {
	return fmt.Sprintf("%d\t%s\t%s\t%s\t%s", u.ID, u.Email, u.Role, u.Status, u.CreatedAt)
}

// List prints every roster record that passes signature verification.
// Records failing the check never appear in the output.
func (a *App) List(ctx context.Context) error {
	users, err := a.verifier.List(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if len(users) == 0 {
		printlnFn("No verified records.")
		return nil
	}

	for _, u := range users {
		printlnFn(formatUser(u))
	}
	return nil
}

// Key prints the server's public key PEM.
func (a *App) Key(ctx context.Context) error {
	pem, err := a.verifier.PublicKey(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn(pem)
	return nil
}

// Save downloads the raw export snapshot into path.
func (a *App) Save(ctx context.Context, path string) error {
	if err := a.verifier.SaveExport(ctx, path); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Snapshot saved to:", path)
	return nil
}

// Ping reports whether the backend answers its health probe.
func (a *App) Ping(ctx context.Context) error {
	if err := a.verifier.Ping(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	printlnFn("Server is up.")
	return nil
}
