// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --yolo, --model, --plan, --print, --thinking, --version, --update

package main

import "flag"

type cliArgs struct {
	yolo            bool
	model           string
	plan            bool
	print           bool
	thinking        bool
	version         bool
	update          bool
	baseURL         string
	prompt          string
	style           string
	outputFormat    string
	inputFormat     string
	jsonSchema      string
	maxTurns        int
	maxBudget       float64
	verbose         bool
	dangerouslySkip bool
	permissionMode  string
	allowedTools    string
	disallowedTools string
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.BoolVar(&args.yolo, "yolo", false, "Skip all permission prompts")
	flag.StringVar(&args.model, "model", "", "Model to use (e.g., claude-sonnet-4-20250514)")
	flag.BoolVar(&args.plan, "plan", false, "Start in plan mode")
	flag.BoolVar(&args.print, "print", false, "Non-interactive print mode")
	flag.BoolVar(&args.thinking, "thinking", false, "Enable thinking/reasoning")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")
	flag.BoolVar(&args.update, "update", false, "Self-update to latest version")
	flag.StringVar(&args.baseURL, "base-url", "", "Custom API base URL")
	flag.StringVar(&args.prompt, "p", "", "Run a single prompt non-interactively and exit")
	flag.StringVar(&args.style, "style", "", "Response style hint for the system prompt")
	flag.StringVar(&args.outputFormat, "output-format", "", "Print-mode output format: text, json, stream-json")
	flag.StringVar(&args.inputFormat, "input-format", "", "Print-mode input format: text or stream-json")
	flag.StringVar(&args.jsonSchema, "json-schema", "", "JSON Schema the final text response must validate against (print mode)")
	flag.IntVar(&args.maxTurns, "max-turns", 0, "Maximum agent turns before print mode aborts (0 = unbounded)")
	flag.Float64Var(&args.maxBudget, "max-budget", 0, "Maximum USD cost before print mode aborts (0 = unbounded)")
	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.dangerouslySkip, "dangerously-skip-permissions", false, "Skip every permission check (yolo, explicit form)")
	flag.StringVar(&args.permissionMode, "permission-mode", "", "Permission mode: normal, plan, acceptEdits, yolo")
	flag.StringVar(&args.allowedTools, "allowedTools", "", "Comma-separated glob rules to add as allow rules")
	flag.StringVar(&args.disallowedTools, "disallowedTools", "", "Comma-separated tool names to remove from the registry")

	flag.Parse()
	return args
}

// remaining returns the non-flag command-line arguments.
func (a cliArgs) remaining() []string {
	return flag.Args()
}
