package script

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/benz9527/xchain/lib/list"
	"github.com/benz9527/xchain/xlog"
)

type testMemOutWriter struct {
	lock sync.Mutex
	data bytes.Buffer
}

func (w *testMemOutWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.data.Write(p)
}

func (w *testMemOutWriter) Sync() error { return nil }

func (w *testMemOutWriter) String() string {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.data.String()
}

func newTestRunner(w *testMemOutWriter, opts ...RunnerOption) *Runner {
	logger := xlog.NewXLogger(
		xlog.WithXLoggerWriter(w),
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		xlog.WithXLoggerContextFieldExtract(ContextKeyScript),
	)
	return NewRunner(append([]RunnerOption{WithRunnerLogger(logger)}, opts...)...)
}

func TestRunner_Demo(t *testing.T) {
	s, err := Load(strings.NewReader(demoScript))
	require.NoError(t, err)

	w := &testMemOutWriter{}
	report, err := newTestRunner(w).Run(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, "demo", report.Name)
	require.Len(t, report.Steps, 7)
	require.Empty(t, report.Failed())

	chains := lo.Map(report.Steps, func(step StepReport, _ int) string {
		return step.Chain
	})
	require.Equal(t, []string{
		"a:b:c:d:e:f",
		"a:b:x:c:d:e:f",
		"a:b:x:c:d:e:f",
		"a:p:q:b:x:c:d:e:f",
		"a:b:x:c:d:e:f",
		"a:b:x:m:n:c:d:e:f",
		"z:b:x:m:n:c:d:e:f",
	}, chains)
	require.Equal(t, "a:x:d:f", report.Steps[2].Result)
	require.Equal(t, "true", report.Steps[4].Result)
	require.Equal(t, "z:b:x:m:n:c:d:e:f", report.Final)
	require.Equal(t, int64(9), report.Len)

	logs := w.String()
	require.Contains(t, logs, `"script":"demo"`)
	require.Contains(t, logs, "chain script finished")
	require.Equal(t, 7, strings.Count(logs, `"msg":"chain step"`))
}

func step(op Op, mutators ...func(*Step)) Step {
	s := Step{Op: op}
	for _, m := range mutators {
		m(&s)
	}
	return s
}

func withValue(v string) func(*Step) { return func(s *Step) { s.Value = lo.ToPtr(v) } }
func withIndex(i int64) func(*Step)  { return func(s *Step) { s.Index = lo.ToPtr(i) } }

func TestRunner_AllOps(t *testing.T) {
	s := &Script{
		Name:     "all",
		Elements: []string{"a", "b", "a"},
		Steps: []Step{
			step(OpContains, withValue("b")),
			step(OpIndexOf, withValue("z")),
			step(OpLen),
			step(OpIsEmpty),
			step(OpRemove, withValue("a")),
			step(OpAddFront, withValue("0")),
			step(OpAdd, withValue("9")),
			step(OpRemoveAt, withIndex(1)),
			step(OpRemoveFirst),
			step(OpRemoveLast),
			step(OpRender),
			step(OpEveryNth, func(s *Step) { s.N = lo.ToPtr(int64(0)) }),
			step(OpClear),
			step(OpIsEmpty),
		},
	}
	report, err := NewRunner().Run(context.Background(), s)
	require.NoError(t, err)
	results := lo.Map(report.Steps, func(step StepReport, _ int) string {
		return step.Result
	})
	require.Equal(t, []string{
		"true", "-1", "3", "false", "true", "", "", "", "", "", "a", "a", "", "true",
	}, results)
	require.Equal(t, "", report.Final)
}

func TestRunner_StopOnError(t *testing.T) {
	s := &Script{
		Name:     "broken",
		Elements: []string{"a"},
		Steps: []Step{
			step(OpInsertAt, withIndex(5), withValue("x")),
			step(OpAddLast, withValue("b")),
			step(OpRemoveAt, withIndex(-1)),
		},
	}

	w := &testMemOutWriter{}
	report, err := newTestRunner(w).Run(context.Background(), s)
	require.Error(t, err)
	require.ErrorIs(t, err, list.ErrOutOfRange)
	require.Len(t, report.Steps, 1)
	require.Equal(t, "a", report.Final)
	require.Contains(t, w.String(), "errorStack")

	report, err = newTestRunner(w, WithContinueOnError(true)).Run(context.Background(), s)
	require.Len(t, multierr.Errors(err), 2)
	require.Len(t, report.Steps, 3)
	require.Len(t, report.Failed(), 2)
	require.Equal(t, "a:b", report.Final)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := NewRunner().Run(ctx, &Script{Steps: []Step{step(OpRender)}})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, report.Steps)
}

func TestRunner_Invalid(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyScript)
	_, err = NewRunner().Run(context.Background(), &Script{Steps: []Step{{Op: "nope"}}})
	require.ErrorIs(t, err, ErrUnknownOp)

	_, err = apply(list.NewChain[string](), Step{Op: "nope"})
	require.ErrorIs(t, err, ErrUnknownOp)
}
