// Command spoon-chat is a terminal chat session against a running
// rebalancing dashboard. It drives the same session controller the
// dashboard UI uses, over the public HTTP API.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/banzai-team/spoon-rebalancing/internal/attachment"
	"github.com/banzai-team/spoon-rebalancing/internal/chat/session"
	"github.com/banzai-team/spoon-rebalancing/internal/client"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
)

// stderrNotifier prints failure notices where they do not interleave
// with the transcript.
type stderrNotifier struct{}

func (stderrNotifier) NotifyError(message string) {
	fmt.Fprintln(os.Stderr, "! "+message)
}

func main() {
	addr := flag.String("addr", "http://localhost:8000", "dashboard base URL")
	strategyID := flag.String("strategy", "", "strategy id to scope the session to")
	wallets := flag.String("wallets", "", "comma-separated wallet ids to scope the session to")
	limit := flag.Int("history", 20, "prior turns to load on start")
	timeout := flag.Duration("timeout", 60*time.Second, "request timeout")
	flag.Parse()

	log.Init(log.Config{Level: "warn", ServiceName: "spoon-chat"})

	api := client.NewDashboardClient(*addr, *timeout)

	var walletIDs []string
	if *wallets != "" {
		walletIDs = strings.Split(*wallets, ",")
	}

	ctrl := session.NewController(session.Config{
		Relay:    api,
		History:  api,
		Uploader: api,
		Notifier: stderrNotifier{},
		Scope: session.Scope{
			StrategyID: *strategyID,
			WalletIDs:  walletIDs,
		},
		HistoryLimit: *limit,
	})

	ctx := context.Background()

	if err := ctrl.Seed(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load history: %v\n", err)
		os.Exit(1)
	}
	for _, msg := range ctrl.Log() {
		printMessage(msg)
	}

	fmt.Println("Type a message, /attach <file>... to upload, /quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		switch {
		case strings.TrimSpace(line) == "/quit":
			return

		case strings.HasPrefix(line, "/attach "):
			files, err := openFiles(strings.Fields(line)[1:])
			if err != nil {
				fmt.Fprintln(os.Stderr, "! "+err.Error())
				continue
			}
			if err := ctrl.Handle(ctx, session.FilesSelected{Files: files}); err != nil {
				fmt.Fprintln(os.Stderr, "! "+err.Error())
			}
			closeFiles(files)
			if buf := ctrl.PendingInput(); buf != "" {
				fmt.Println("[input buffer]")
				fmt.Println(buf)
			}

		default:
			// The controller treats the submitted text as the whole turn;
			// merge any buffered attachment links in front of it the way
			// the dashboard's input field would.
			if buf := ctrl.PendingInput(); buf != "" {
				if strings.TrimSpace(line) != "" {
					line = buf + "\n\n" + line
				} else {
					line = buf
				}
				ctrl.SetPendingInput("")
			}
			before := len(ctrl.Log())
			if err := ctrl.Handle(ctx, session.InputSubmitted{Text: line}); err != nil {
				fmt.Fprintln(os.Stderr, "! "+err.Error())
				continue
			}
			for _, msg := range ctrl.Log()[before:] {
				printMessage(msg)
			}
		}
	}
}

func printMessage(msg domain.ChatMessage) {
	prefix := "agent"
	if msg.Role == domain.RoleUser {
		prefix = "you"
	}
	fmt.Printf("[%s] %s\n", prefix, msg.Content)
}

func openFiles(paths []string) ([]attachment.File, error) {
	files := make([]attachment.File, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeFiles(files)
			return nil, fmt.Errorf("cannot open %s: %w", p, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			closeFiles(files)
			return nil, fmt.Errorf("cannot stat %s: %w", p, err)
		}
		files = append(files, attachment.File{
			Name:    filepath.Base(p),
			Content: f,
			Size:    info.Size(),
		})
	}
	return files, nil
}

func closeFiles(files []attachment.File) {
	for _, f := range files {
		if closer, ok := f.Content.(interface{ Close() error }); ok {
			closer.Close()
		}
	}
}
