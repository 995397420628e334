// Package solparser obtains the syntax tree for a contract file. Parsing
// itself is delegated to an external Solidity parser that prints the AST as
// JSON; this package only runs it and decodes the result.
package solparser

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/metagov/dao-governance-surfaces/internal/solidity"
)

// DefaultCommand is the external parser invoked when none is configured.
// It must accept a file path argument and print the source unit as JSON
// with line locations on stdout.
const DefaultCommand = "solidity-parse"

// astSuffix is the extension of pre-generated AST files consumed by
// FileParser.
const astSuffix = ".ast.json"

// Parser supplies the syntax tree of one contract file.
type Parser interface {
	Parse(ctx context.Context, path string) (*solidity.SourceUnit, error)
}

// ExecParser shells out to an external parser command.
type ExecParser struct {
	command string
	args    []string
	logger  hclog.Logger
}

// NewExecParser creates a parser around the given command and fixed
// arguments; the contract file path is appended per invocation. An empty
// command falls back to DefaultCommand.
func NewExecParser(command string, args []string, logger hclog.Logger) *ExecParser {
	if command == "" {
		command = DefaultCommand
	}
	return &ExecParser{command: command, args: args, logger: logger}
}

// Parse runs the external command on the file and decodes its stdout.
// Failures are fatal to this file only; batch callers log and continue.
func (p *ExecParser) Parse(ctx context.Context, path string) (*solidity.SourceUnit, error) {
	args := append(append([]string{}, p.args...), path)
	cmd := exec.CommandContext(ctx, p.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	p.logger.Debug("running external parser", "command", p.command, "path", path)
	if err := cmd.Run(); err != nil {
		p.logger.Error("external parser failed", "command", p.command, "path", path, "stderr", strings.TrimSpace(stderr.String()))
		return nil, fmt.Errorf("parser %q failed on %q: %w", p.command, path, err)
	}

	unit, err := solidity.ParseSourceUnit(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parser %q produced invalid output for %q: %w", p.command, path, err)
	}
	return unit, nil
}

// FileParser reads a pre-generated AST file sitting next to the source
// (`Foo.sol` -> `Foo.ast.json`). Used for offline runs and tests.
type FileParser struct{}

// Parse loads and decodes the sibling AST file.
func (FileParser) Parse(_ context.Context, path string) (*solidity.SourceUnit, error) {
	astPath := strings.TrimSuffix(path, filepath.Ext(path)) + astSuffix
	data, err := os.ReadFile(astPath)
	if err != nil {
		return nil, fmt.Errorf("no pre-generated AST for %q: %w", path, err)
	}
	unit, err := solidity.ParseSourceUnit(data)
	if err != nil {
		return nil, fmt.Errorf("invalid AST file %q: %w", astPath, err)
	}
	return unit, nil
}
