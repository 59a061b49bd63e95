package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/aretw0/tablet"
	"github.com/aretw0/tablet/pkg/core"
)

const shellHelp = `commands:
  write <content> <author>
  read <id>
  list [page]
  modify <id> <content> <author>
  delete <id>
  search <content|author|any> <pattern> [page]
  build
  snapshot
  clear
  help
  exit
arguments with spaces must be quoted: write "Less is more" Mies`

var errUsage = errors.New("wrong number of arguments, type 'help'")

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive prompt over one table",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		table, svc := openStore(cmd)

		fmt.Printf("Using %s\n", table.Dir)
		fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

		sh := &shell{table: table, svc: svc, out: os.Stdout, prompt: "> "}
		if err := sh.run(context.Background(), os.Stdin); err != nil {
			fatal("input error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

type shell struct {
	table  *tablet.QuoteTable
	svc    *core.QuoteService
	out    io.Writer
	prompt string
}

// run reads commands line by line until exit or end of input.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	reader := bufio.NewReader(in)

	for {
		fmt.Fprint(s.out, s.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line != "" {
			quit, execErr := s.exec(ctx, line)
			if execErr != nil {
				fmt.Fprintln(s.out, "error:", execErr)
			}
			if quit {
				return nil
			}
		}

		if eof {
			return nil
		}
	}
}

// exec runs a single command line and reports whether the shell should stop.
func (s *shell) exec(ctx context.Context, line string) (bool, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return false, fmt.Errorf("parse error: %w", err)
	}
	if len(words) == 0 {
		return false, nil
	}

	cmd, args := strings.ToLower(words[0]), words[1:]
	switch cmd {
	case "exit", "quit":
		return true, nil

	case "help":
		fmt.Fprintln(s.out, shellHelp)

	case "write":
		if len(args) != 2 {
			return false, errUsage
		}
		q, err := s.svc.Write(ctx, args[0], args[1])
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "quote %d saved\n", q.ID)

	case "read":
		if len(args) != 1 {
			return false, errUsage
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		q, err := s.svc.Get(ctx, id)
		if err != nil {
			return false, err
		}
		s.printQuote(q)

	case "list":
		pageNo, err := optionalPage(args, 0)
		if err != nil {
			return false, err
		}
		page, err := s.svc.List(ctx, pageNo, core.DefaultPageSize)
		if err != nil {
			return false, err
		}
		s.printPage(page)

	case "modify":
		if len(args) != 3 {
			return false, errUsage
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		if _, err := s.svc.Modify(ctx, id, args[1], args[2]); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "quote %d modified\n", id)

	case "delete":
		if len(args) != 1 {
			return false, errUsage
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		if err := s.svc.Remove(ctx, id); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "quote %d deleted\n", id)

	case "search":
		if len(args) < 2 || len(args) > 3 {
			return false, errUsage
		}
		pageNo, err := optionalPage(args, 2)
		if err != nil {
			return false, err
		}
		page, err := s.svc.Search(ctx, core.SearchQuery{
			KeywordType: args[0],
			Keyword:     args[1],
			PageNo:      pageNo,
			PageSize:    core.DefaultPageSize,
		})
		if err != nil {
			return false, err
		}
		s.printPage(page)

	case "build":
		if err := s.svc.Build(ctx); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "snapshot written to %s\n", s.table.SnapshotPath())

	case "snapshot":
		snap, err := s.table.Snapshot(ctx)
		if err != nil {
			return false, err
		}
		if snap == "" {
			fmt.Fprintln(s.out, "no snapshot, run 'build' first")
			return false, nil
		}
		fmt.Fprintln(s.out, snap)

	case "clear":
		if err := s.svc.Clear(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "table cleared")

	default:
		return false, fmt.Errorf("unknown command %q, type 'help'", cmd)
	}

	return false, nil
}

func (s *shell) printQuote(q *core.Quote) {
	fmt.Fprintf(s.out, "%d / %s / %s\n", q.ID, q.Author, q.Content)
}

func (s *shell) printPage(page core.Page[*core.Quote]) {
	for _, q := range page.Items {
		s.printQuote(q)
	}
	fmt.Fprintf(s.out, "page %d of %d (%d quotes)\n", page.PageNo, page.TotalPages(), page.TotalCount)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// optionalPage reads a page number at args[i], defaulting to 1.
func optionalPage(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	if len(args) > i+1 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid page %q", args[i])
	}
	return n, nil
}
