package citrigger

import (
	"fmt"
	"io"
	"net/http"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

// New selects the trigger for the configured provider.
// Dry runs write to w; Jenkins requires a URL and a job.
func New(cfg *contract.Config, w io.Writer) (contract.CITrigger, error) {
	switch cfg.CIProvider {
	case contract.DryRunProvider:
		return NewDryRunTrigger(w), nil
	case contract.JenkinsProvider, "":
		if cfg.CIURL == "" || cfg.CIJob == "" {
			return nil, fmt.Errorf("jenkins trigger requires --ci-url and --ci-job (or use --ci-dry-run)")
		}
		client := &http.Client{Timeout: cfg.CITimeout}
		return NewJenkinsTrigger(cfg.CIURL, cfg.CIJob, cfg.CIUser, cfg.CIToken, client), nil
	default:
		return nil, fmt.Errorf("unsupported ci provider '%s'", cfg.CIProvider)
	}
}
