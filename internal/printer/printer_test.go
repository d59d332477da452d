package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/lector/pkg/tuitest"
)

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Successf("imported %d", 3)
	p.Infof("skipped %s", "a.txt")
	p.Warnf("slow")
	p.Errorf("failed")
	p.Printf("  plain")

	assert.Equal(t, []string{
		"✔ imported 3",
		"• skipped a.txt",
		"! slow",
		"✘ failed",
		"  plain",
	}, tuitest.Lines(buf.String()))
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	assert.Same(t, p, Ctx(NewContext(context.Background(), p)))
	assert.NotNil(t, Ctx(context.Background()))
}
