package logx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextHandler(t *testing.T) {
	var buff bytes.Buffer

	logger := slog.New(ContextHandler{
		Handler: slog.NewTextHandler(&buff, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})

	ctx := WithAttrs(context.Background(), slog.String("session", "abc"))
	ctx = WithAttrs(ctx, slog.String("path", "/search"))

	logger.With(slog.String("component", "test")).InfoContext(ctx, "hello")
	logger.InfoContext(context.Background(), "bare")

	lines := strings.Split(strings.TrimSpace(buff.String()), "\n")
	if e, g := 2, len(lines); e != g {
		t.Fatalf("lines: expected %d, got %d:\n%s", e, g, buff.String())
	}

	for _, s := range []string{"session=abc", "path=/search", "component=test", "msg=hello"} {
		if !strings.Contains(lines[0], s) {
			t.Errorf("expected %q in %q", s, lines[0])
		}
	}

	if strings.Contains(lines[1], "session=") {
		t.Errorf("unexpected context attributes in %q", lines[1])
	}
}
