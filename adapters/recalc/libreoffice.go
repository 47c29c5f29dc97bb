package recalc

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"sheetdiff/internal/errors"
)

const defaultSofficeTimeout = 2 * time.Minute

// runner executes a command and returns its combined output
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// LibreOffice recalculates by round-tripping the workbook through a headless
// soffice conversion to xlsx. Legacy .xls files come out as .xlsx, which is
// how they become readable.
type LibreOffice struct {
	binary  string
	timeout time.Duration
	run     runner
}

// NewLibreOffice creates a LibreOffice recalculator. An empty binary means
// "soffice" on PATH.
func NewLibreOffice(binary string, timeout time.Duration) *LibreOffice {
	if binary == "" {
		binary = "soffice"
	}
	if timeout <= 0 {
		timeout = defaultSofficeTimeout
	}
	return &LibreOffice{binary: binary, timeout: timeout, run: execRunner}
}

// Mode implements ports.Recalculator
func (l *LibreOffice) Mode() string { return ModeLibreOffice }

// Recalculate implements ports.Recalculator
func (l *LibreOffice) Recalculate(ctx context.Context, src, workDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	// A private profile keeps concurrent or stale soffice instances from
	// blocking the conversion.
	profile := "file://" + filepath.ToSlash(filepath.Join(workDir, ".lo-profile"))
	args := []string{
		"-env:UserInstallation=" + profile,
		"--headless", "--norestore",
		"--convert-to", "xlsx",
		"--outdir", workDir,
		src,
	}

	startTime := time.Now()
	out, err := l.run(ctx, l.binary, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", errors.RecalcFailed(src, fmt.Errorf("%s: %w: %s", l.binary, err, strings.TrimSpace(string(out))))
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	converted := filepath.Join(workDir, base+".xlsx")
	if _, err := os.Stat(converted); err != nil {
		return "", errors.RecalcFailed(src, fmt.Errorf("no output produced: %s", strings.TrimSpace(string(out))))
	}
	log.Printf("[LibreOffice] Converted %s in %.2fms", filepath.Base(src), float64(time.Since(startTime).Nanoseconds())/1e6)
	return converted, nil
}
