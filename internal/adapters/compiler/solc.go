package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/eth-infinitism/aadeploy/internal/domain/config"
	"github.com/eth-infinitism/aadeploy/internal/domain/models"
	"github.com/eth-infinitism/aadeploy/internal/usecase"
)

// solcJsScript loads a soljson build and runs the standard JSON interface on stdin
const solcJsScript = `const fs = require('fs');
const soljson = require(process.argv[1]);
const compile = soljson.cwrap('solidity_compile', 'string', ['string', 'number', 'number']);
process.stdout.write(compile(fs.readFileSync(0, 'utf8'), 0, 0));`

// SolcAdapter runs solc builds through the standard JSON interface
type SolcAdapter struct {
	log         *slog.Logger
	projectRoot string
	nodePath    string
}

// NewSolcAdapter creates a new compiler runner
func NewSolcAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *SolcAdapter {
	return &SolcAdapter{
		log:         log.With("component", "SolcAdapter"),
		projectRoot: cfg.ProjectRoot,
		nodePath:    "node",
	}
}

// Compile feeds the input to the build and decodes its output. Native builds
// run as "solc --standard-json", soljson builds run under node.
func (s *SolcAdapter) Compile(ctx context.Context, build *config.CompilerBuild, input *models.CompilerInput) (*models.CompilerOutput, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode compiler input: %w", err)
	}

	var cmd *exec.Cmd
	if build.IsSolcJs {
		cmd = exec.CommandContext(ctx, s.nodePath, "-e", solcJsScript, build.CompilerPath)
	} else {
		cmd = exec.CommandContext(ctx, build.CompilerPath, "--standard-json")
	}
	cmd.Dir = s.projectRoot
	cmd.Stdin = bytes.NewReader(data)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	s.log.Debug("running solc", "version", build.LongVersion, "solcjs", build.IsSolcJs, "sources", len(input.Sources))

	if err := cmd.Run(); err != nil {
		s.log.Error("solc failed", "error", err, "stderr", stderr.String())
		return nil, fmt.Errorf("solc %s failed: %w\nOutput: %s", build.LongVersion, err, strings.TrimSpace(stderr.String()))
	}

	s.log.Debug("solc completed", "version", build.LongVersion, "duration", time.Since(start))

	var output models.CompilerOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, fmt.Errorf("failed to parse solc %s output: %w", build.LongVersion, err)
	}
	return &output, nil
}

// Ensure the adapter implements the interface
var _ usecase.SolidityCompiler = (*SolcAdapter)(nil)
