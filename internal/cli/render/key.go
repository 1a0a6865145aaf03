package render

import (
	"fmt"
	"io"

	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// KeyRenderer renders deployer key operations. The key itself is never printed.
type KeyRenderer struct {
	out io.Writer
}

// NewKeyRenderer creates a new key renderer
func NewKeyRenderer(out io.Writer) *KeyRenderer {
	return &KeyRenderer{out: out}
}

// Render renders the key operation result
func (r *KeyRenderer) Render(result *usecase.ManageKeyResult) error {
	switch result.Operation {
	case "set":
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Stored deployer key for %s in the OS keyring", result.Address)))
	case "delete":
		fmt.Fprintln(r.out, FormatSuccess("Removed deployer key from the OS keyring"))
	case "show":
		if result.Source == usecase.KeySourceNone {
			fmt.Fprintln(r.out, FormatWarning("No deployer key: set DEPLOYER_PK or run 'aadeploy key set'"))
			return nil
		}
		fmt.Fprintf(r.out, "Deployer: %s (from %s)\n", result.Address, result.Source)
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
	return nil
}
