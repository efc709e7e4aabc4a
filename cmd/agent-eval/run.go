package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/agent-eval/internal/agent"
	"github.com/stellarlinkco/agent-eval/internal/config"
	"github.com/stellarlinkco/agent-eval/internal/llm"
	"github.com/stellarlinkco/agent-eval/internal/mock"
	"github.com/stellarlinkco/agent-eval/internal/scoring"
	"github.com/stellarlinkco/agent-eval/internal/testcase"
)

var errCasesFailed = errors.New("agent-eval: cases failed")

type runOptions struct {
	suitePath string
	dir       string
	provider  string
	threshold float64
	output    string
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run evaluation suites",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(st.configPath)
			if err != nil {
				return err
			}
			st.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.suitePath, "suite", "", "path to a single suite file")
	cmd.Flags().StringVar(&opts.dir, "dir", defaultSuitesDir, "directory of suite files")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "provider name (overrides config default)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0.7, "minimum passing score between 0 and 1")
	cmd.Flags().StringVar(&opts.output, "output", "table", "output format: table|json")

	return cmd
}

type caseResult struct {
	Suite      string           `json:"suite"`
	CaseID     string           `json:"case_id"`
	Status     agent.Status     `json:"status"`
	Score      float64          `json:"score"`
	Passed     bool             `json:"passed"`
	Iterations int              `json:"iterations"`
	Tokens     int              `json:"tokens"`
	Cost       float64          `json:"cost"`
	Issues     []string         `json:"issues,omitempty"`
	Details    *scoring.Details `json:"details,omitempty"`
	Error      string           `json:"error,omitempty"`
}

func runSuites(cmd *cobra.Command, st *cliState, opts *runOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}
	if opts.threshold < 0 || opts.threshold > 1 {
		return fmt.Errorf("run: threshold must be between 0 and 1 (got %v)", opts.threshold)
	}
	format := parseOutputFormat(opts.output)
	if format == "" {
		return fmt.Errorf("run: invalid --output %q (expected table|json)", opts.output)
	}

	suites, err := loadSuites(opts)
	if err != nil {
		return err
	}
	if len(suites) == 0 {
		return fmt.Errorf("run: no suites found")
	}

	provider, err := resolveProvider(st.cfg, opts.provider)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := agent.NewRunner(provider)

	var results []caseResult
	anyFailed := false
	for _, suite := range suites {
		tools := suite.ToolSchemas()
		mocks := suite.MockConfigs()

		for i := range suite.Cases {
			c := &suite.Cases[i]
			res := runCase(ctx, runner, st.cfg, suite, c, tools, mocks)
			res.Passed = res.Error == "" && res.Score >= opts.threshold
			if !res.Passed {
				anyFailed = true
			}
			results = append(results, res)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Suite != results[j].Suite {
			return results[i].Suite < results[j].Suite
		}
		return results[i].CaseID < results[j].CaseID
	})

	if err := printResults(cmd, results, format, opts.threshold); err != nil {
		return err
	}

	if anyFailed {
		return errCasesFailed
	}
	return nil
}

func runCase(
	ctx context.Context,
	runner *agent.Runner,
	cfg *config.Config,
	suite *testcase.Suite,
	c *testcase.Case,
	tools []llm.ToolSchema,
	mocks map[string]*mock.Config,
) caseResult {
	out := caseResult{Suite: suite.Suite, CaseID: c.ID}

	maxIterations := c.MaxIterations
	if maxIterations <= 0 {
		maxIterations = cfg.Agent.MaxIterations
	}

	params := llm.Params{MaxTokens: c.MaxTokens}
	if c.Temperature != nil {
		params.Temperature = *c.Temperature
	}

	result, err := runner.Run(ctx, &agent.RunRequest{
		Content:       c.Prompt,
		SystemPrompt:  c.SystemPrompt,
		Params:        params,
		Tools:         tools,
		MockConfigs:   mocks,
		UseMock:       c.Mocked(),
		MaxIterations: maxIterations,
	})
	if err != nil {
		out.Error = err.Error()
		return out
	}

	out.Status = result.Status
	out.Iterations = result.Metrics.TotalIterations
	out.Tokens = result.Metrics.TotalTokens
	out.Cost = result.Metrics.EstimatedCost
	if result.Status == agent.StatusError {
		out.Error = result.ErrorMessage
		return out
	}

	score, details, err := scoring.Evaluate(&scoring.Input{
		Output:              result.Output,
		ExpectedOutput:      c.ExpectedOutput,
		ToolCalls:           toolCallMaps(result.ToolCallHistory),
		ExpectedToolCalls:   c.ExpectedToolCalls,
		Criteria:            c.Criteria,
		Weights:             c.Weights,
		ConversationHistory: result.Conversation,
		ToolCallHistory:     result.ToolCallHistory,
	})
	if err != nil {
		out.Error = err.Error()
		return out
	}

	out.Score = score
	out.Details = details
	out.Issues = details.Issues
	return out
}

func loadSuites(opts *runOptions) ([]*testcase.Suite, error) {
	if strings.TrimSpace(opts.suitePath) != "" {
		s, err := testcase.LoadFromFile(opts.suitePath)
		if err != nil {
			return nil, err
		}
		return []*testcase.Suite{s}, nil
	}
	return testcase.LoadFromDir(opts.dir)
}

var resolveProvider = resolveProviderFromConfig

func resolveProviderFromConfig(cfg *config.Config, name string) (llm.Provider, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return llm.DefaultProviderFromConfig(cfg)
	}
	reg, err := llm.NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	p, ok := reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("provider %q not configured (available: %s)", name, strings.Join(reg.Names(), ", "))
	}
	return p, nil
}

func toolCallMaps(records []agent.ToolCallRecord) []map[string]any {
	if len(records) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		out = append(out, map[string]any{
			"name":      rec.ToolName,
			"arguments": rec.Arguments,
		})
	}
	return out
}
