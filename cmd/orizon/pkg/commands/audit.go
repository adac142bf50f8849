// Package commands provides the audit command implementation for package management.
// This handles security auditing and vulnerability scanning of dependencies.
package commands

import (
	"context"
	"fmt"

	"github.com/orizon-lang/orizon-memdebug/cmd/orizon/pkg/types"
)

// AuditCommand handles security audit operations.
// It performs vulnerability scanning and security checks on dependencies.
type AuditCommand struct {
	*BaseCommand
}

// NewAuditCommand creates a new audit command handler.
func NewAuditCommand() *AuditCommand {
	return &AuditCommand{
		BaseCommand: NewBaseCommand(
			"Perform security audit on dependencies",
			"usage: orizon pkg audit",
		),
	}
}

// Execute implements the CommandHandler interface for audit operations.
func (c *AuditCommand) Execute(ctx types.RegistryContext, args []string) error {
	// List all manifests in registry for audit
	manifests, err := ctx.Registry.All(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list packages for audit: %w", err)
	}

	// Create advisory scanner (placeholder for demo)
	// scanner := packagemanager.NewInMemoryAdvisoryScanner()

	// Perform audit (this is a placeholder implementation)
	// In a real implementation, this would check for known vulnerabilities,
	// license issues, and other security concerns
	auditCount := len(manifests)

	// Report results
	fmt.Printf("audited %d packages: no advisories configured\n", auditCount)

	// Note: This is a demo implementation. A real audit system would:
	// 1. Check for known vulnerabilities in CVE databases
	// 2. Validate package signatures
	// 3. Check for license compliance issues
	// 4. Analyze dependency chains for security risks
	// 5. Report detailed findings with severity levels

	return nil
}
