package observability

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

var startTime = time.Now()

const (
	colorReset    = "\033[0m"
	colorCyan     = "\033[36m"
	colorBold     = "\033[1m"
	colorNeonCyan = "\033[96m"
	colorNeonMag  = "\033[95m"
)

// termMu synchronizes all terminal output so interleaved log writes from
// the gateways and the heartbeat ticker never tear a line.
var termMu sync.Mutex

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return w
}

// ------------------------------------------------------------
// TermWriter – a mutex-guarded io.Writer for log output.
// ------------------------------------------------------------

type termWriter struct{}

func (tw termWriter) Write(p []byte) (n int, err error) {
	termMu.Lock()
	defer termMu.Unlock()
	return os.Stderr.Write(p)
}

// NewTermWriter returns an io.Writer suitable for log.SetOutput().
func NewTermWriter() *termWriter {
	return &termWriter{}
}

// ------------------------------------------------------------
// Banner
// ------------------------------------------------------------

var bannerLines = []string{
	`  ____          _                `,
	` | __ )   __ _ | |__    __ _  ___`,
	` |  _ \  / _' || '_ \  / _' |/ __|`,
	` | |_) || (_| || | | || (_| |\__ \`,
	` |____/  \__,_||_| |_| \__,_||___/`,
}

// PrintBanner prints the startup banner with build/runtime info.
func PrintBanner() {
	termMu.Lock()
	defer termMu.Unlock()

	width := termWidth()

	fmt.Println()
	for _, line := range bannerLines {
		pad := (width - len(line)) / 2
		if pad < 0 {
			pad = 0
		}
		fmt.Printf("%s%s%s%s\n", strings.Repeat(" ", pad), colorNeonCyan+colorBold, line, colorReset)
	}
	fmt.Println()

	info := fmt.Sprintf("debate workflow runtime · %s · %s/%s · %d cores",
		runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	pad := (width - len(info)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Printf("%s%s%s%s\n\n", strings.Repeat(" ", pad), colorCyan, info, colorReset)
}

// Heartbeat prints a short liveness line with process uptime.
func Heartbeat() {
	termMu.Lock()
	defer termMu.Unlock()

	uptime := time.Since(startTime).Round(time.Second)
	fmt.Printf("%s[ BEAT ] uptime %s · goroutines %d%s\n",
		colorNeonMag, uptime, runtime.NumGoroutine(), colorReset)
}
