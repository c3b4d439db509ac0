package script

import (
	"context"
	"strconv"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xchain/lib/infra"
	"github.com/benz9527/xchain/lib/list"
	"github.com/benz9527/xchain/xlog"
)

// ContextKeyScript carries the running script name in the context.
const ContextKeyScript = "script"

type StepReport struct {
	Index int
	Op    Op
	// Result is the textual result of the op, empty if the op returns nothing.
	Result string
	// Chain is the rendered chain after the step.
	Chain string
	Err   error
}

type Report struct {
	Name  string
	Steps []StepReport
	Final string
	Len   int64
}

func (r *Report) Failed() []StepReport {
	return lo.Filter(r.Steps, func(step StepReport, _ int) bool {
		return step.Err != nil
	})
}

type Runner struct {
	logger          xlog.XLogger
	continueOnError bool
}

type RunnerOption func(*Runner)

func WithRunnerLogger(logger xlog.XLogger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithContinueOnError keeps running the remaining steps after a failed one.
func WithContinueOnError(enabled bool) RunnerOption {
	return func(r *Runner) {
		r.continueOnError = enabled
	}
}

func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, o := range opts {
		if o != nil {
			o(r)
		}
	}
	if r.logger == nil {
		r.logger = xlog.NewXLogger(xlog.WithXLoggerLevel(xlog.LogLevelError))
	}
	return r
}

// Run replays the steps on a chain built from the script elements.
// All the step errors are combined into the returned error.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, xlog.ContextKey(ContextKeyScript), s.Name)

	chain := list.NewChain(s.Elements...)
	report := &Report{
		Name:  s.Name,
		Steps: make([]StepReport, 0, len(s.Steps)),
	}
	r.logger.InfoContext(ctx, "chain script started",
		zap.Int("steps", len(s.Steps)),
		zap.String("chain", chain.String()),
	)

	var merr error
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(err, "chain script interrupted"))
			break
		}
		result, err := apply(chain, step)
		stepReport := StepReport{
			Index:  i,
			Op:     step.Op,
			Result: result,
			Chain:  chain.String(),
			Err:    err,
		}
		report.Steps = append(report.Steps, stepReport)
		if err != nil {
			r.logger.ErrorStackContext(ctx, err, "chain step failed",
				zap.Int("step", i),
				zap.String("op", string(step.Op)),
			)
			merr = multierr.Append(merr, err)
			if !r.continueOnError {
				break
			}
			continue
		}
		r.logger.DebugContext(ctx, "chain step",
			zap.Int("step", i),
			zap.String("op", string(step.Op)),
			zap.String("result", result),
			zap.String("chain", stepReport.Chain),
		)
	}

	report.Final = chain.String()
	report.Len = chain.Len()
	r.logger.InfoContext(ctx, "chain script finished",
		zap.Int64("len", report.Len),
		zap.Int("failed", len(report.Failed())),
	)
	return report, merr
}

func apply(chain list.Chain[string], step Step) (string, error) {
	value := lo.FromPtr(step.Value)
	switch step.Op {
	case OpClear:
		chain.Clear()
	case OpAddFront:
		chain.AddFront(value)
	case OpAddLast:
		chain.AddLast(value)
	case OpAdd:
		chain.Add(value)
	case OpRemoveFirst:
		chain.RemoveFirst()
	case OpRemoveLast:
		chain.RemoveLast()
	case OpInsertAt:
		return "", chain.InsertAt(lo.FromPtr(step.Index), value)
	case OpRemoveAt:
		return "", chain.RemoveAt(lo.FromPtr(step.Index))
	case OpContains:
		return strconv.FormatBool(chain.Contains(value)), nil
	case OpIndexOf:
		return strconv.FormatInt(chain.IndexOf(value), 10), nil
	case OpRemove:
		return strconv.FormatBool(chain.Remove(value)), nil
	case OpReplaceData:
		chain.ReplaceData(lo.FromPtr(step.Target), value)
	case OpLen:
		return strconv.FormatInt(chain.Len(), 10), nil
	case OpIsEmpty:
		return strconv.FormatBool(chain.IsEmpty()), nil
	case OpEveryNth:
		return chain.EveryNth(lo.FromPtr(step.N)).String(), nil
	case OpInsertInterleaved:
		chain.InsertInterleaved(list.NewChain(step.Values...))
	case OpInsertRange:
		chain.InsertRange(lo.FromPtr(step.Index), step.Values...)
	case OpRemoveRange:
		return strconv.FormatBool(chain.RemoveRange(lo.FromPtr(step.Start), lo.FromPtr(step.Count))), nil
	case OpRender:
		return chain.String(), nil
	default:
		return "", infra.WrapErrorStackWithMessage(ErrUnknownOp, string(step.Op))
	}
	return "", nil
}
