package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	_, err = os.Stat(tracePath)
	require.NoError(t, err, "trace file should be created with parent dirs")
	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestFileExporter_WritesOneLinePerSpan(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	start := time.Now()
	stubs := tracetest.SpanStubs{
		{
			Name:       SpanHighlightPass,
			StartTime:  start,
			EndTime:    start.Add(2 * time.Millisecond),
			Attributes: []attribute.KeyValue{attribute.String(AttrDialect, "todotxt")},
			Status:     sdktrace.Status{Code: codes.Ok},
		},
		{
			Name:      SpanQueryEval,
			StartTime: start,
			EndTime:   start.Add(time.Millisecond),
			Status:    sdktrace.Status{Code: codes.Error, Description: "malformed"},
		},
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), stubs.Snapshots()))
	require.NoError(t, exporter.Shutdown(context.Background()))

	f, err := os.Open(tracePath)
	require.NoError(t, err)
	defer f.Close()

	var records []SpanRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)
	require.Equal(t, "todotxt", records[0].Attributes[AttrDialect])
	require.Equal(t, "OK", records[0].Status)
	require.InDelta(t, 2.0, records[0].DurationMs, 0.001)
	require.Equal(t, "ERROR", records[1].Status)
	require.Equal(t, "malformed", records[1].StatusMsg)
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()), "shutdown is idempotent")

	stub := tracetest.SpanStub{Name: "late", StartTime: time.Now(), EndTime: time.Now()}
	err = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
	require.Error(t, err)
}

func TestEndPass_RecordsRecoveredError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	_, span := StartPass(context.Background(), tracer, "markdown", "buf", 10)
	PatternFailed(span, "bold", errors.New("match timeout"))
	EndPass(span, 2, false, errors.New("index out of range"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)

	var names []string
	for _, e := range ended[0].Events() {
		names = append(names, e.Name)
	}
	require.Contains(t, names, EventPatternFailed)
	require.Contains(t, names, EventPassRecovered)
}
